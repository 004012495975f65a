package tool

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/core"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/logging"
)

// BatchConfig configures a BatchExecutor.
type BatchConfig struct {
	MaxParallel int // 0 or <1 => no explicit limit (len(calls))
	Logger      logging.Logger
}

// BatchExecutor runs every tool invocation of one model turn through an
// Executor. Invocations are dispatched concurrently and joined before
// returning; results are reassembled in invocation order regardless of
// completion order. The first failure cancels the remaining invocations and
// no partial batch is returned.
type BatchExecutor struct {
	exec Executor
	cfg  BatchConfig
}

// NewBatchExecutor constructs a new batch executor around exec.
func NewBatchExecutor(exec Executor, optFns ...func(o *BatchConfig)) *BatchExecutor {
	cfg := BatchConfig{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NoOpLogger{}
	}
	return &BatchExecutor{exec: exec, cfg: cfg}
}

// Execute runs calls and returns one ToolResultBlock per call, correlated by id
// and ordered as calls. On failure it returns the first error observed: a
// *ToolError for tool failures or the context error when ctx ends.
func (b *BatchExecutor) Execute(ctx context.Context, calls []core.ToolUseBlock) ([]core.ToolResultBlock, error) {
	n := len(calls)
	if n == 0 {
		return nil, nil
	}

	// Fast path: single call, execute inline.
	if n == 1 {
		res, err := b.executeOne(ctx, calls[0])
		if err != nil {
			return nil, err
		}
		return []core.ToolResultBlock{res}, nil
	}

	maxPar := b.cfg.MaxParallel
	if maxPar <= 0 || maxPar > n {
		maxPar = n
	}

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]core.ToolResultBlock, n)
	var (
		mu       sync.Mutex
		firstErr error
		wg       sync.WaitGroup
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	sem := make(chan struct{}, maxPar)
	batchStart := time.Now()

dispatch:
	for i := range calls {
		select {
		case sem <- struct{}{}:
		case <-batchCtx.Done():
			break dispatch
		}
		wg.Add(1)
		go func(idx int, call core.ToolUseBlock) {
			defer wg.Done()
			defer func() { <-sem }()

			if batchCtx.Err() != nil {
				return
			}
			res, err := b.executeOne(batchCtx, call)
			if err != nil {
				fail(err)
				return
			}
			results[idx] = res
		}(i, calls[i])
	}

	wg.Wait()

	b.cfg.Logger.Debug(
		"tool.batch.complete",
		"count", n,
		"parallelism", maxPar,
		"duration_ms", time.Since(batchStart).Milliseconds(),
		"error", firstErr != nil,
	)

	if firstErr != nil {
		// A sibling observing our own cancel must not mask the original failure.
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (b *BatchExecutor) executeOne(ctx context.Context, call core.ToolUseBlock) (res core.ToolResultBlock, err error) {
	start := time.Now()
	defer func() { // panic safety
		if r := recover(); r != nil {
			err = &ToolError{
				Tool:    call.Name,
				Message: fmt.Sprintf("panic recovered: %v", r),
				Code:    CodePanic,
				Details: string(debug.Stack()),
			}
			b.cfg.Logger.Error("tool.call.panic", "tool", call.Name, "tool_use_id", call.ID, "recover", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return core.ToolResultBlock{}, err
	}

	out, err := b.exec.Execute(ctx, call.Name, core.CloneMap(call.Input))
	if tl, ok := b.cfg.Logger.(logging.ToolCallLogger); ok {
		tl.LogToolCall(call.Name, time.Since(start), err)
	} else {
		b.cfg.Logger.Info(
			"tool.call.executed",
			"tool", call.Name,
			"tool_use_id", call.ID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err != nil,
		)
	}
	if err != nil {
		return core.ToolResultBlock{}, asToolError(ctx, call.Name, err)
	}
	return core.ToolResultBlock{ToolUseID: call.ID, Content: out}, nil
}
