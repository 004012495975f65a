package model

import (
	"context"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/core"
)

// StopReason reports why the model stopped generating.
type StopReason string

const (
	// StopReasonEnd signals a natural end of turn.
	StopReasonEnd StopReason = "end_turn"
	// StopReasonToolUse signals the model wants one or more tools invoked.
	StopReasonToolUse StopReason = "tool_use"
	// StopReasonMaxTokens signals the output token budget was exhausted.
	StopReasonMaxTokens StopReason = "max_tokens"
)

// ToolChoice directs how the model may pick tools.
type ToolChoice string

const (
	// ToolChoiceNone leaves the directive out of the request.
	ToolChoiceNone ToolChoice = ""
	// ToolChoiceAuto lets the model decide whether to call tools.
	ToolChoiceAuto ToolChoice = "auto"
)

// ToolDefinition declaratively exposes a callable tool to the model.
// InputSchema is a JSON Schema object passed through to the provider untouched.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Params are the fixed per-deployment request parameters.
type Params struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int64   `json:"max_tokens"`
}

// Request captures one normalized model call.
type Request struct {
	Params
	Messages   []core.Message   `json:"messages"`
	System     string           `json:"system,omitempty"`
	Tools      []ToolDefinition `json:"tools,omitempty"`
	ToolChoice ToolChoice       `json:"tool_choice,omitempty"`
}

// HasTools reports whether the request enables tool use.
func (r Request) HasTools() bool { return len(r.Tools) > 0 }

// Response is the model output for one call.
type Response struct {
	Content    []core.Block `json:"content"`
	StopReason StopReason   `json:"stop_reason"`
}

// Text returns the concatenated text blocks of the response.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return core.JoinText(r.Content)
}

// ToolUses returns the tool invocation blocks of the response in order.
func (r *Response) ToolUses() []core.ToolUseBlock {
	if r == nil {
		return nil
	}
	return core.ToolUses(r.Content)
}

// WantsTools reports whether the model stopped to request tool use.
func (r *Response) WantsTools() bool {
	return r != nil && r.StopReason == StopReasonToolUse
}

// Info contains metadata about a client implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "langchain", "mock"
	SupportsTools bool   `json:"supports_tools"`
}

// Client is the stateless request/response collaborator the orchestrator drives.
// Implementations must honour ctx cancellation and return *TransportError on
// network, auth or rate-limit failures.
type Client interface {
	Request(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the client implementation.
	Info() Info
}
