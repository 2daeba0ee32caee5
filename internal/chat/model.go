package chat

import (
	"context"

	"github.com/pagescout/pagescout/internal/types"
)

// Completion is one model response: either plain text, or text plus
// requested tool calls. The conversation loop only ever honors the first
// tool call.
type Completion struct {
	Content   string
	ToolCalls []types.ToolCall
}

// Model is the external completion collaborator: given the conversation so
// far and the tool catalog, produce the next completion.
type Model interface {
	Complete(ctx context.Context, messages []types.Message, tools []types.Tool) (*Completion, error)
}
