package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/conversation"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/logging"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/model"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/tool"
)

// ErrCanceled reports that the query context ended before an answer was
// produced. Errors matching it also wrap the context error.
var ErrCanceled = errors.New("orchestrator: query canceled")

// Result describes how a query ended.
type Result struct {
	// Text is the final answer or the fallback message.
	Text string
	// Phase is PhaseDone or PhaseFailed.
	Phase Phase
	// Rounds is the number of folded tool-result batches.
	Rounds int
	// ModelCalls counts requests issued to the model client.
	ModelCalls int
	// ToolCalls counts tool invocations dispatched to the executor.
	ToolCalls int
	// State is the last conversation state of the query.
	State *conversation.State
}

// Generator answers queries using a model client and optional tools. It holds
// no per-query state and is safe for concurrent use.
type Generator struct {
	client model.Client
	opts   Options
}

// New creates a Generator around client.
func New(client model.Client, optFns ...func(o *Options)) *Generator {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.MaxRounds < 1 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.FallbackMessage == "" {
		opts.FallbackMessage = DefaultFallbackMessage
	}
	if opts.FinalizationFallbackMessage == "" {
		opts.FinalizationFallbackMessage = DefaultFinalizationFallbackMessage
	}
	return &Generator{client: client, opts: opts}
}

// GenerateResponse answers query. On failure it returns the fallback message
// together with the error that ended the query.
func (g *Generator) GenerateResponse(ctx context.Context, query string, optFns ...func(o *QueryOptions)) (string, error) {
	res, err := g.Run(ctx, query, optFns...)
	return res.Text, err
}

// Run answers query and reports the trace of the state machine. The returned
// Result is never nil.
func (g *Generator) Run(ctx context.Context, query string, optFns ...func(o *QueryOptions)) (*Result, error) {
	var q QueryOptions
	for _, fn := range optFns {
		fn(&q)
	}
	maxRounds := g.opts.MaxRounds
	if q.MaxRounds >= 1 {
		maxRounds = q.MaxRounds
	}

	logger := g.opts.Logger
	if q.Logger != nil {
		logger = q.Logger
	}

	r := &run{
		gen:       g,
		log:       logger,
		query:     q,
		maxRounds: maxRounds,
		res:       &Result{Phase: PhaseInit},
		state:     conversation.New(query, g.opts.SystemPrompt, q.History),
		start:     time.Now(),
	}
	err := r.execute(ctx)
	r.res.State = r.state
	r.res.Rounds = r.state.CompletedRounds()

	if ql, ok := logger.(logging.QueryLogger); ok {
		ql.LogQuery(r.res.Phase.String(), r.res.Rounds, r.res.ModelCalls, r.res.ToolCalls, time.Since(r.start), err)
	} else {
		logger.Info("orchestrator.query.done",
			"phase", r.res.Phase.String(),
			"rounds", r.res.Rounds,
			"model_calls", r.res.ModelCalls,
			"tool_calls", r.res.ToolCalls,
			"duration_ms", time.Since(r.start).Milliseconds(),
			"error", err != nil,
		)
	}
	return r.res, err
}

// run carries the mutable bookkeeping of one query.
type run struct {
	gen       *Generator
	log       logging.Logger
	query     QueryOptions
	maxRounds int
	res       *Result
	state     *conversation.State
	start     time.Time
}

func (r *run) logger() logging.Logger { return r.log }

func (r *run) transition(to Phase) {
	r.logger().Debug("orchestrator.phase", "from", r.res.Phase.String(), "to", to.String())
	r.res.Phase = to
}

func (r *run) done(text string) error {
	r.transition(PhaseDone)
	r.res.Text = text
	return nil
}

func (r *run) fail(text string, err error) error {
	r.transition(PhaseFailed)
	r.res.Text = text
	return err
}

func (r *run) execute(ctx context.Context) error {
	if len(r.query.Tools) == 0 || r.query.Executor == nil {
		return r.direct(ctx)
	}

	batch := tool.NewBatchExecutor(r.query.Executor, func(o *tool.BatchConfig) {
		o.MaxParallel = r.gen.opts.MaxParallelTools
		o.Logger = r.logger()
	})

	r.transition(PhaseAwaitingModel)
	for {
		round := r.state.CompletedRounds() + 1
		r.logger().Info("orchestrator.round.start", "round", round, "tools", len(r.query.Tools))

		resp, err := r.call(ctx, r.query.Tools)
		if err != nil {
			r.logger().Error("orchestrator.model.failed", "round", round, "error", err)
			return r.fail(r.gen.opts.FallbackMessage, r.classify(ctx, err))
		}

		if !resp.WantsTools() {
			return r.done(resp.Text())
		}

		uses := resp.ToolUses()
		if len(uses) == 0 {
			// Tool use was requested without any invocation. Finish with the
			// accompanying text when present, otherwise force a final answer.
			if text := resp.Text(); text != "" {
				return r.done(text)
			}
			r.logger().Warn("orchestrator.round.empty_tool_use", "round", round)
			break
		}

		r.transition(PhaseExecutingTools)
		next := r.state.WithAssistantResponse(resp.Content)
		r.res.ToolCalls += len(uses)

		results, err := batch.Execute(ctx, uses)
		if err != nil {
			var te *tool.ToolError
			if errors.As(err, &te) {
				r.logger().Error("orchestrator.tool.failed", "round", round, "tool", te.Tool, "code", te.Code, "error", err)
			} else {
				r.logger().Error("orchestrator.tool.failed", "round", round, "error", err)
			}
			return r.fail(r.gen.opts.FallbackMessage, r.classify(ctx, err))
		}
		r.state = next.WithToolResults(results)

		if r.state.CompletedRounds() >= r.maxRounds {
			break
		}
		r.transition(PhaseAwaitingModel)
	}

	return r.finalize(ctx)
}

// direct issues a single tools-disabled call when no tools are available.
func (r *run) direct(ctx context.Context) error {
	r.transition(PhaseAwaitingModel)
	resp, err := r.call(ctx, nil)
	if err != nil {
		r.logger().Error("orchestrator.model.failed", "round", 1, "error", err)
		return r.fail(r.gen.opts.FallbackMessage, r.classify(ctx, err))
	}
	return r.done(resp.Text())
}

// finalize issues the one tools-disabled call that closes the query.
func (r *run) finalize(ctx context.Context) error {
	r.transition(PhaseFinalizing)
	resp, err := r.call(ctx, nil)
	if err != nil {
		r.logger().Error("orchestrator.finalize.failed", "rounds", r.state.CompletedRounds(), "error", err)
		if ctx.Err() != nil {
			return r.fail(r.gen.opts.FallbackMessage, r.classify(ctx, err))
		}
		return r.fail(r.gen.opts.FinalizationFallbackMessage, fmt.Errorf("finalization: %w", err))
	}
	return r.done(resp.Text())
}

func (r *run) call(ctx context.Context, tools []model.ToolDefinition) (*model.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req := r.state.RequestParams(r.gen.opts.Params, tools)
	r.res.ModelCalls++

	round := r.state.CompletedRounds() + 1
	start := time.Now()
	resp, err := r.gen.client.Request(ctx, req)
	if ql, ok := r.logger().(logging.QueryLogger); ok {
		ql.LogModelCall(req.Model, round, len(tools) > 0, time.Since(start), err)
	} else {
		r.logger().Debug("orchestrator.model.call",
			"round", round,
			"tools_enabled", len(tools) > 0,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err != nil,
		)
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, model.NewTransportError(r.gen.client.Info().Provider, 0, errors.New("empty response"))
	}
	return resp, nil
}

// classify maps termination of the query context onto ErrCanceled and leaves
// every other error untouched.
func (r *run) classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, ctxErr)
	}
	return err
}
