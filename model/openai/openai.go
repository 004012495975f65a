// Package openai provides a model.Client backed by the OpenAI Chat
// Completions API. It adapts the normalized Request/Response structures
// into the SDK's message format and back.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/core"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const providerName = "openai"

// Options configure the OpenAI adapter.
type Options struct {
	Model      string
	APIKey     string
	BaseURL    string
	MaxTokens  int64 // used when a request leaves MaxTokens at zero
	MaxRetries int
}

// Client wraps the OpenAI Chat Completions API behind model.Client.
type Client struct {
	client *openai.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{Model: openai.ChatModelGPT4oMini, MaxTokens: 800}
}

// New creates a new OpenAI client using the official SDK.
func New(optFns ...func(o *Options)) *Client {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	clientOpts := []option.RequestOption{option.WithMaxRetries(opts.MaxRetries)}
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := openai.NewClient(clientOpts...)
	return &Client{client: &client, opts: opts}
}

// NewFromClient creates a new OpenAI adapter from an existing SDK client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Client {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

// Request performs one non-streaming chat completion.
func (c *Client) Request(ctx context.Context, req model.Request) (*model.Response, error) {
	params := c.buildParams(req)

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, model.NewTransportError(providerName, statusCode(err), err)
	}
	if len(resp.Choices) == 0 {
		return nil, model.NewTransportError(providerName, 0, errors.New("no choices returned"))
	}
	return parseChoice(resp.Choices[0])
}

// buildParams assembles the OpenAI request parameters including tool definitions.
func (c *Client) buildParams(req model.Request) openai.ChatCompletionNewParams {
	modelName := c.opts.Model
	if req.Model != "" {
		modelName = req.Model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.opts.MaxTokens
	}

	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               modelName,
		Temperature:         openai.Float(req.Temperature),
		MaxCompletionTokens: openai.Int(maxTokens),
	}
	if !req.HasTools() {
		return params
	}

	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, def := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  def.InputSchema,
			},
		}
	}
	params.Tools = tools
	if req.ToolChoice == model.ToolChoiceAuto {
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String("auto")}
	}
	return params
}

// buildMessages converts normalized messages into chat messages. Tool results
// become individual tool messages following the assistant turn that asked
// for them.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		text := m.Text()
		switch m.Role {
		case core.RoleAssistant:
			toolCalls := extractToolCalls(m)
			if len(toolCalls) == 0 {
				messages = append(messages, openai.AssistantMessage(text))
				continue
			}
			assistant := &openai.ChatCompletionAssistantMessageParam{ToolCalls: toolCalls}
			if text != "" {
				assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{OfString: openai.String(text)}
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{OfAssistant: assistant})
		default:
			for _, b := range m.Content {
				if tr, ok := b.(core.ToolResultBlock); ok {
					messages = append(messages, openai.ToolMessage(toolResultContent(tr), tr.ToolUseID))
				}
			}
			if text != "" {
				messages = append(messages, openai.UserMessage(text))
			}
		}
	}
	return messages
}

// toolResultContent marks failed results in-band as the chat API has no error flag.
func toolResultContent(tr core.ToolResultBlock) string {
	if tr.IsError {
		return "Error: " + tr.Content
	}
	return tr.Content
}

// extractToolCalls converts tool use blocks into OpenAI tool calls.
func extractToolCalls(m core.Message) []openai.ChatCompletionMessageToolCallParam {
	var toolCalls []openai.ChatCompletionMessageToolCallParam
	for _, tu := range core.ToolUses(m.Content) {
		args := "{}"
		if len(tu.Input) > 0 {
			if b, err := json.Marshal(tu.Input); err == nil {
				args = string(b)
			}
		}
		toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallParam{
			ID: tu.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      tu.Name,
				Arguments: args,
			},
		})
	}
	return toolCalls
}

// parseChoice maps the first completion choice onto the normalized response.
func parseChoice(ch openai.ChatCompletionChoice) (*model.Response, error) {
	resp := &model.Response{StopReason: model.StopReasonEnd}
	switch ch.FinishReason {
	case "tool_calls", "function_call":
		resp.StopReason = model.StopReasonToolUse
	case "length":
		resp.StopReason = model.StopReasonMaxTokens
	}

	if ch.Message.Content != "" {
		resp.Content = append(resp.Content, core.TextBlock{Text: ch.Message.Content})
	}
	for _, tc := range ch.Message.ToolCalls {
		input := map[string]any{}
		if args := strings.TrimSpace(tc.Function.Arguments); args != "" {
			if err := json.Unmarshal([]byte(args), &input); err != nil {
				return nil, model.NewTransportError(providerName, 0, fmt.Errorf("decode arguments for %s: %w", tc.Function.Name, err))
			}
		}
		resp.Content = append(resp.Content, core.ToolUseBlock{ID: tc.ID, Name: tc.Function.Name, Input: input})
	}
	return resp, nil
}

func statusCode(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Info returns metadata describing this adapter.
func (c *Client) Info() model.Info {
	return model.Info{
		Name:          c.opts.Model,
		Provider:      providerName,
		SupportsTools: true,
	}
}
