package testutil

import (
	"github.com/a3eyherabide/starting-ragchatbot-codebase/core"
)

// TranscriptBuilder helps construct the message list a model is expected to
// receive. Example:
//
//	msgs := NewTranscriptBuilder().User("hi").Assistant(resp.Content...).Results(res1).Build()
type TranscriptBuilder struct {
	msgs []core.Message
}

// NewTranscriptBuilder creates an empty builder.
func NewTranscriptBuilder() *TranscriptBuilder { return &TranscriptBuilder{} }

// User appends a user text message (chainable).
func (b *TranscriptBuilder) User(text string) *TranscriptBuilder {
	b.msgs = append(b.msgs, core.NewTextMessage(core.RoleUser, text))
	return b
}

// Assistant appends an assistant message carrying the given blocks (chainable).
func (b *TranscriptBuilder) Assistant(blocks ...core.Block) *TranscriptBuilder {
	b.msgs = append(b.msgs, core.Message{Role: core.RoleAssistant, Content: core.CloneBlocks(blocks)})
	return b
}

// Result appends a single successful tool result as its own user message (chainable).
func (b *TranscriptBuilder) Result(toolUseID, content string) *TranscriptBuilder {
	return b.Results(core.ToolResultBlock{ToolUseID: toolUseID, Content: content})
}

// Results appends one user message holding every result of a batch (chainable).
func (b *TranscriptBuilder) Results(results ...core.ToolResultBlock) *TranscriptBuilder {
	b.msgs = append(b.msgs, core.Message{Role: core.RoleUser, Content: core.ToolResultsToBlocks(results)})
	return b
}

// Build returns a deep copy of the accumulated messages.
func (b *TranscriptBuilder) Build() []core.Message {
	return core.CloneMessages(b.msgs)
}
