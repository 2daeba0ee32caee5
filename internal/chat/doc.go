// Package chat implements the conversation loop between a user, an
// OpenAI-compatible chat model, and the tool catalog.
//
// The Bot owns the ordered message history. Each Send is one turn: the
// user message is appended, the model is asked for a completion with the
// full catalog attached, and at most the first requested tool call is
// executed before the model produces the final reply. A failed turn rolls
// history back to the pre-turn state plus the user message, so a retry
// starts clean.
package chat
