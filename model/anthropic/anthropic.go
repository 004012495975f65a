// Package anthropic provides a model.Client for the Anthropic Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/core"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/internal/util"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/model"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
)

const providerName = "anthropic"

// DefaultModel is used when neither Options nor the request name a model.
const DefaultModel = anthropic.ModelClaudeSonnet4_20250514

// Options configures the Anthropic adapter.
type Options struct {
	Model     anthropic.Model
	APIKey    string
	BaseURL   string
	MaxTokens int64 // used when a request leaves MaxTokens at zero
	// MaxRetries is handed to the SDK. Retries are disabled by default so
	// the orchestrator sees transport failures as they happen.
	MaxRetries int
}

// Client wraps the Anthropic Messages API behind model.Client.
type Client struct {
	client *anthropic.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{Model: DefaultModel, MaxTokens: 800}
}

// New creates a new Anthropic client using the official SDK.
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

	client := anthropic.NewClient(clientOpts...)
	return &Client{client: &client, opts: opts}
}

// NewFromClient creates a new Anthropic adapter from an existing SDK client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Client {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

// Request performs one non-streaming Messages call.
func (c *Client) Request(ctx context.Context, req model.Request) (*model.Response, error) {
	params, err := c.buildParams(req)
	if err != nil {
		return nil, model.NewTransportError(providerName, 0, err)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, model.NewTransportError(providerName, statusCode(err), err)
	}

	return parseMessage(msg)
}

func (c *Client) buildParams(req model.Request) (anthropic.MessageNewParams, error) {
	modelName := c.opts.Model
	if req.Model != "" {
		modelName = anthropic.Model(req.Model)
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.opts.MaxTokens
	}

	messages, err := buildMessages(req.Messages)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}

	params := anthropic.MessageNewParams{
		Model:       modelName,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.HasTools() {
		params.Tools = buildTools(req.Tools)
		if req.ToolChoice == model.ToolChoiceAuto {
			params.ToolChoice = anthropic.ToolChoiceUnionParam{OfAuto: &anthropic.ToolChoiceAutoParam{}}
		}
	}
	return params, nil
}

// buildMessages converts normalized messages into Anthropic message params.
// Empty text blocks are dropped since the API rejects them.
func buildMessages(msgs []core.Message) ([]anthropic.MessageParam, error) {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.Content))
		for _, b := range m.Content {
			switch blk := b.(type) {
			case core.TextBlock:
				if blk.Text != "" {
					blocks = append(blocks, anthropic.NewTextBlock(blk.Text))
				}
			case core.ToolUseBlock:
				input := blk.Input
				if input == nil {
					input = map[string]any{}
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(blk.ID, input, blk.Name))
			case core.ToolResultBlock:
				blocks = append(blocks, anthropic.NewToolResultBlock(blk.ToolUseID, blk.Content, blk.IsError))
			default:
				return nil, fmt.Errorf("unsupported content block %T", b)
			}
		}
		if len(blocks) == 0 {
			continue
		}
		switch m.Role {
		case core.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		default:
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out, nil
}

// buildTools converts tool definitions to Anthropic tool params.
func buildTools(defs []model.ToolDefinition) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, len(defs))
	for i, def := range defs {
		schema := anthropic.ToolInputSchemaParam{Type: constant.Object("object")}
		if props, ok := def.InputSchema["properties"]; ok {
			schema.Properties = props
		}
		schema.Required = util.RequiredFields(def.InputSchema)

		tools[i] = anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        def.Name,
			Description: anthropic.String(def.Description),
			InputSchema: schema,
		}}
	}
	return tools
}

// parseMessage maps an Anthropic message to the normalized response shape.
func parseMessage(msg *anthropic.Message) (*model.Response, error) {
	resp := &model.Response{StopReason: model.StopReasonEnd}
	switch msg.StopReason {
	case anthropic.StopReasonToolUse:
		resp.StopReason = model.StopReasonToolUse
	case anthropic.StopReasonMaxTokens:
		resp.StopReason = model.StopReasonMaxTokens
	}

	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			resp.Content = append(resp.Content, core.TextBlock{Text: v.Text})
		case anthropic.ToolUseBlock:
			input := map[string]any{}
			if raw := v.JSON.Input.Raw(); raw != "" && raw != "null" {
				if err := json.Unmarshal([]byte(raw), &input); err != nil {
					return nil, model.NewTransportError(providerName, 0, fmt.Errorf("decode tool input for %s: %w", v.Name, err))
				}
			}
			resp.Content = append(resp.Content, core.ToolUseBlock{ID: v.ID, Name: v.Name, Input: input})
		}
	}
	return resp, nil
}

func statusCode(err error) int {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Info returns metadata describing this adapter.
func (c *Client) Info() model.Info {
	return model.Info{
		Name:          string(c.opts.Model),
		Provider:      providerName,
		SupportsTools: true,
	}
}
