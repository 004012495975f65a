package orchestrator

import (
	"github.com/a3eyherabide/starting-ragchatbot-codebase/logging"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/model"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/tool"
)

// DefaultMaxRounds is the tool-round budget used when none is configured.
const DefaultMaxRounds = 2

// Options configures a Generator.
type Options struct {
	// Params are sent with every model call.
	Params model.Params
	// SystemPrompt is the base prompt; conversation history is appended per query.
	SystemPrompt string
	// MaxRounds bounds tool rounds per query. Values below 1 mean DefaultMaxRounds.
	MaxRounds int
	// MaxParallelTools bounds concurrent tool invocations within a round. 0 means unbounded.
	MaxParallelTools int
	Logger           logging.Logger
	// FallbackMessage is returned when the query fails.
	FallbackMessage string
	// FinalizationFallbackMessage is returned when the finalization call fails.
	FinalizationFallbackMessage string
}

func defaultOptions() Options {
	return Options{
		Params:                      model.Params{Temperature: 0, MaxTokens: 800},
		SystemPrompt:                DefaultSystemPrompt,
		MaxRounds:                   DefaultMaxRounds,
		Logger:                      logging.NoOpLogger{},
		FallbackMessage:             DefaultFallbackMessage,
		FinalizationFallbackMessage: DefaultFinalizationFallbackMessage,
	}
}

// QueryOptions are the per-query inputs of GenerateResponse.
type QueryOptions struct {
	// History is a rendered summary of prior exchanges, appended to the system prompt.
	History string
	// Tools are passed untouched to the model client.
	Tools []model.ToolDefinition
	// Executor runs the tools the model asks for.
	Executor tool.Executor
	// MaxRounds overrides the generator's round budget when >= 1.
	MaxRounds int
	// Logger replaces the generator's logger for this query, typically one
	// carrying a query id.
	Logger logging.Logger
}

// WithHistory sets the conversation history for a query.
func WithHistory(history string) func(o *QueryOptions) {
	return func(o *QueryOptions) { o.History = history }
}

// WithTools sets the tool definitions and executor for a query.
func WithTools(defs []model.ToolDefinition, exec tool.Executor) func(o *QueryOptions) {
	return func(o *QueryOptions) {
		o.Tools = defs
		o.Executor = exec
	}
}

// WithRegistry exposes every tool of r to the model and executes through r.
func WithRegistry(r *tool.Registry) func(o *QueryOptions) {
	return func(o *QueryOptions) {
		o.Tools = r.Definitions()
		o.Executor = r
	}
}

// WithMaxRounds overrides the round budget for a query.
func WithMaxRounds(n int) func(o *QueryOptions) {
	return func(o *QueryOptions) { o.MaxRounds = n }
}

// WithLogger logs this query through l instead of the generator's logger.
func WithLogger(l logging.Logger) func(o *QueryOptions) {
	return func(o *QueryOptions) { o.Logger = l }
}
