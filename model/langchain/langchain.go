// Package langchain adapts any langchaingo llms.Model (Ollama, Mistral,
// Bedrock and friends) to model.Client.
package langchain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/core"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/model"
	"github.com/tmc/langchaingo/llms"
)

const providerName = "langchain"

// Options configures the adapter.
type Options struct {
	// Name is reported through Info and forwarded as the model id when set.
	Name string
	// MaxTokens is used when a request leaves MaxTokens at zero.
	MaxTokens int
}

// Client drives an llms.Model with normalized requests.
type Client struct {
	llm  llms.Model
	opts Options
}

// New wraps llm.
func New(llm llms.Model, optFns ...func(o *Options)) *Client {
	opts := Options{MaxTokens: 800}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{llm: llm, opts: opts}
}

// Request performs one GenerateContent call.
func (c *Client) Request(ctx context.Context, req model.Request) (*model.Response, error) {
	messages, err := buildMessages(req)
	if err != nil {
		return nil, model.NewTransportError(providerName, 0, err)
	}

	resp, err := c.llm.GenerateContent(ctx, messages, c.callOptions(req)...)
	if err != nil {
		return nil, model.NewTransportError(providerName, 0, err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return nil, model.NewTransportError(providerName, 0, errors.New("no choices returned"))
	}
	return parseChoice(resp.Choices[0])
}

func (c *Client) callOptions(req model.Request) []llms.CallOption {
	maxTokens := int(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = c.opts.MaxTokens
	}
	opts := []llms.CallOption{
		llms.WithTemperature(req.Temperature),
		llms.WithMaxTokens(maxTokens),
	}
	switch {
	case req.Model != "":
		opts = append(opts, llms.WithModel(req.Model))
	case c.opts.Name != "":
		opts = append(opts, llms.WithModel(c.opts.Name))
	}
	if !req.HasTools() {
		return opts
	}

	tools := make([]llms.Tool, len(req.Tools))
	for i, def := range req.Tools {
		tools[i] = llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.InputSchema,
			},
		}
	}
	opts = append(opts, llms.WithTools(tools))
	if req.ToolChoice == model.ToolChoiceAuto {
		opts = append(opts, llms.WithToolChoice("auto"))
	}
	return opts
}

// buildMessages maps normalized messages onto langchaingo message contents.
// Tool results need the tool name, which is recovered from the preceding
// tool use with the same id.
func buildMessages(req model.Request) ([]llms.MessageContent, error) {
	var out []llms.MessageContent
	if req.System != "" {
		out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}

	names := map[string]string{}
	for _, m := range req.Messages {
		var parts []llms.ContentPart
		var results []llms.ContentPart
		for _, b := range m.Content {
			switch blk := b.(type) {
			case core.TextBlock:
				if blk.Text != "" {
					parts = append(parts, llms.TextContent{Text: blk.Text})
				}
			case core.ToolUseBlock:
				args, err := json.Marshal(blk.Input)
				if err != nil {
					return nil, fmt.Errorf("encode input for %s: %w", blk.Name, err)
				}
				names[blk.ID] = blk.Name
				parts = append(parts, llms.ToolCall{
					ID:   blk.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      blk.Name,
						Arguments: string(args),
					},
				})
			case core.ToolResultBlock:
				content := blk.Content
				if blk.IsError {
					content = "Error: " + content
				}
				results = append(results, llms.ToolCallResponse{
					ToolCallID: blk.ToolUseID,
					Name:       names[blk.ToolUseID],
					Content:    content,
				})
			default:
				return nil, fmt.Errorf("unsupported content block %T", b)
			}
		}
		if len(results) > 0 {
			out = append(out, llms.MessageContent{Role: llms.ChatMessageTypeTool, Parts: results})
		}
		if len(parts) == 0 {
			continue
		}
		role := llms.ChatMessageTypeHuman
		if m.Role == core.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		out = append(out, llms.MessageContent{Role: role, Parts: parts})
	}
	return out, nil
}

// parseChoice maps a content choice onto the normalized response. Backends
// disagree on stop reason spelling, so any tool calls imply tool use.
func parseChoice(ch *llms.ContentChoice) (*model.Response, error) {
	resp := &model.Response{StopReason: model.StopReasonEnd}
	if ch.Content != "" {
		resp.Content = append(resp.Content, core.TextBlock{Text: ch.Content})
	}
	for _, tc := range ch.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		input := map[string]any{}
		if args := strings.TrimSpace(tc.FunctionCall.Arguments); args != "" {
			if err := json.Unmarshal([]byte(args), &input); err != nil {
				return nil, model.NewTransportError(providerName, 0, fmt.Errorf("decode arguments for %s: %w", tc.FunctionCall.Name, err))
			}
		}
		resp.Content = append(resp.Content, core.ToolUseBlock{ID: tc.ID, Name: tc.FunctionCall.Name, Input: input})
	}

	switch {
	case len(core.ToolUses(resp.Content)) > 0:
		resp.StopReason = model.StopReasonToolUse
	case strings.EqualFold(ch.StopReason, "length") || strings.EqualFold(ch.StopReason, "max_tokens"):
		resp.StopReason = model.StopReasonMaxTokens
	}
	return resp, nil
}

// Info returns metadata describing this adapter.
func (c *Client) Info() model.Info {
	return model.Info{
		Name:          c.opts.Name,
		Provider:      providerName,
		SupportsTools: true,
	}
}
