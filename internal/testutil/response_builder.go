package testutil

import (
	"fmt"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/core"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/model"
)

// ResponseBuilder provides a fluent helper for constructing model responses.
// Example:
//
//	resp := NewResponseBuilder().Text("looking").ToolUse("search_course_content", map[string]any{"query": "mcp"}).Build()
//
// The stop reason is derived from the blocks unless set explicitly.
type ResponseBuilder struct {
	blocks     []core.Block
	stopReason model.StopReason
	nextID     int
}

// NewResponseBuilder creates an empty builder.
func NewResponseBuilder() *ResponseBuilder { return &ResponseBuilder{} }

// Text appends a text block (chainable).
func (b *ResponseBuilder) Text(t string) *ResponseBuilder {
	b.blocks = append(b.blocks, core.TextBlock{Text: t})
	return b
}

// ToolUse appends a tool invocation with a sequential id "toolu_N" (chainable).
func (b *ResponseBuilder) ToolUse(name string, input map[string]any) *ResponseBuilder {
	b.nextID++
	return b.ToolUseWithID(fmt.Sprintf("toolu_%d", b.nextID), name, input)
}

// ToolUseWithID appends a tool invocation with an explicit id (chainable).
func (b *ResponseBuilder) ToolUseWithID(id, name string, input map[string]any) *ResponseBuilder {
	b.blocks = append(b.blocks, core.ToolUseBlock{ID: id, Name: name, Input: input})
	return b
}

// StopReason overrides the derived stop reason (chainable).
func (b *ResponseBuilder) StopReason(r model.StopReason) *ResponseBuilder {
	b.stopReason = r
	return b
}

// Build returns the response. Without an explicit stop reason it reports
// tool use when any invocation was added and end of turn otherwise.
func (b *ResponseBuilder) Build() *model.Response {
	reason := b.stopReason
	if reason == "" {
		reason = model.StopReasonEnd
		if len(core.ToolUses(b.blocks)) > 0 {
			reason = model.StopReasonToolUse
		}
	}
	return &model.Response{Content: core.CloneBlocks(b.blocks), StopReason: reason}
}
