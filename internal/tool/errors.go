package tool

import "fmt"

// UnknownToolError reports a tool name absent from the catalog. It is always
// surfaced to the caller and never retried.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %q", e.Name)
}

// ToolExecutionError wraps a failure raised by a resolved tool during
// execution so an unrelated error type never escapes the dispatcher.
type ToolExecutionError struct {
	Name string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %q failed: %v", e.Name, e.Err)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}
