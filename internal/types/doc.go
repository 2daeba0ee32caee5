// Package types defines the shared data model: tool descriptors with their
// declared parameter schemas, and conversation messages with tool calls.
//
// Tool schemas are static descriptors rather than reflected signatures, so
// the dispatcher's argument filtering always operates over a known structure.
package types
