package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/core"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/model"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockExecutor struct{ mock.Mock }

func (m *mockExecutor) Execute(ctx context.Context, name string, input map[string]any) (string, error) {
	args := m.Called(ctx, name, input)
	return args.String(0), args.Error(1)
}

var testTools = []model.ToolDefinition{
	{Name: "search_course_content", Description: "search", InputSchema: map[string]any{"type": "object"}},
	{Name: "get_course_outline", Description: "outline", InputSchema: map[string]any{"type": "object"}},
}

func use(id, name string, input map[string]any) core.ToolUseBlock {
	return core.ToolUseBlock{ID: id, Name: name, Input: input}
}

func newTestGenerator(client model.Client, optFns ...func(o *Options)) *Generator {
	return New(client, append([]func(o *Options){func(o *Options) {
		o.Params = model.Params{Model: "test-model", Temperature: 0, MaxTokens: 800}
		o.SystemPrompt = "base prompt"
	}}, optFns...)...)
}

func TestGenerateResponse_ScenarioA_TwoRoundsThenAnswer(t *testing.T) {
	client := model.NewMockClient("mock").Enqueue(
		model.ToolUseResponse("", use("t1", "get_course_outline", map[string]any{"course_name": "MCP"})),
		model.ToolUseResponse("", use("t2", "search_course_content", map[string]any{"query": "lesson 4"})),
		model.TextResponse("Lesson 4 covers servers."),
	)
	exec := &mockExecutor{}
	exec.On("Execute", mock.Anything, "get_course_outline", map[string]any{"course_name": "MCP"}).Return("outline", nil).Once()
	exec.On("Execute", mock.Anything, "search_course_content", map[string]any{"query": "lesson 4"}).Return("content", nil).Once()

	res, err := newTestGenerator(client).Run(context.Background(), "What does lesson 4 cover?", WithTools(testTools, exec))
	require.NoError(t, err)

	assert.Equal(t, "Lesson 4 covers servers.", res.Text)
	assert.Equal(t, PhaseDone, res.Phase)
	assert.Equal(t, 3, client.CallCount())
	assert.Equal(t, 3, res.ModelCalls)
	assert.Equal(t, 2, res.ToolCalls)
	assert.Equal(t, 2, res.Rounds)
	exec.AssertExpectations(t)
	exec.AssertNumberOfCalls(t, "Execute", 2)
}

func TestGenerateResponse_ScenarioB_DirectAnswer(t *testing.T) {
	client := model.NewMockClient("mock").Enqueue(model.TextResponse("Paris."))
	exec := &mockExecutor{}

	answer, err := newTestGenerator(client).GenerateResponse(context.Background(), "Capital of France?", WithTools(testTools, exec))
	require.NoError(t, err)

	assert.Equal(t, "Paris.", answer)
	assert.Equal(t, 1, client.CallCount())
	exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)

	req := client.Requests()[0]
	assert.Equal(t, testTools, req.Tools)
	assert.Equal(t, model.ToolChoiceAuto, req.ToolChoice)
}

func TestGenerateResponse_ScenarioC_FinalizationHasToolsDisabled(t *testing.T) {
	client := model.NewMockClient("mock").Enqueue(
		model.ToolUseResponse("Looking it up.", use("t1", "search_course_content", map[string]any{"query": "a"})),
		model.ToolUseResponse("", use("t2", "search_course_content", map[string]any{"query": "b"})),
		model.TextResponse("final answer"),
	)
	exec := &mockExecutor{}
	exec.On("Execute", mock.Anything, "search_course_content", mock.Anything).Return("hit", nil)

	res, err := newTestGenerator(client).Run(context.Background(), "q", WithTools(testTools, exec))
	require.NoError(t, err)
	assert.Equal(t, "final answer", res.Text)
	assert.Equal(t, 2, res.ToolCalls)

	reqs := client.Requests()
	require.Len(t, reqs, 3)
	assert.True(t, reqs[0].HasTools())
	assert.True(t, reqs[1].HasTools())
	assert.False(t, reqs[2].HasTools())
	assert.Equal(t, model.ToolChoiceNone, reqs[2].ToolChoice)

	// user, assistant, results, assistant, results
	require.Len(t, reqs[2].Messages, 5)
	assert.Equal(t, core.RoleAssistant, reqs[2].Messages[1].Role)
	assert.Equal(t, "Looking it up.", reqs[2].Messages[1].Text())
	assert.Equal(t, []core.Block{core.ToolResultBlock{ToolUseID: "t2", Content: "hit"}}, reqs[2].Messages[4].Content)
	for _, req := range reqs {
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, int64(800), req.MaxTokens)
		assert.Equal(t, "base prompt", req.System)
	}
}

func TestGenerateResponse_ScenarioD_ToolFailureAborts(t *testing.T) {
	client := model.NewMockClient("mock").Enqueue(
		model.ToolUseResponse("", use("t1", "search_course_content", map[string]any{"query": "x"})),
		model.TextResponse("never requested"),
	)
	exec := &mockExecutor{}
	exec.On("Execute", mock.Anything, "search_course_content", mock.Anything).Return("", errors.New("vector store down")).Once()

	res, err := newTestGenerator(client).Run(context.Background(), "q", WithTools(testTools, exec))
	require.Error(t, err)

	assert.Equal(t, DefaultFallbackMessage, res.Text)
	assert.Equal(t, PhaseFailed, res.Phase)
	assert.Equal(t, 1, client.CallCount())
	assert.Equal(t, 1, res.ToolCalls)
	assert.Equal(t, 0, res.Rounds)
	exec.AssertNumberOfCalls(t, "Execute", 1)

	var te *tool.ToolError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "search_course_content", te.Tool)
	assert.False(t, errors.Is(err, ErrCanceled))
}

func TestGenerateResponse_ToolErrorAtRoundKStopsModelCalls(t *testing.T) {
	for k := 1; k <= 3; k++ {
		client := model.NewMockClient("mock")
		for i := 1; i <= k; i++ {
			client.Enqueue(model.ToolUseResponse("", use("t", "search_course_content", map[string]any{"round": i})))
		}
		client.Enqueue(model.TextResponse("unused"))

		var calls int
		exec := tool.ExecutorFunc(func(_ context.Context, _ string, _ map[string]any) (string, error) {
			calls++
			if calls == k {
				return "", tool.NewToolError("search_course_content", "failed", tool.CodeExecution)
			}
			return "ok", nil
		})

		answer, err := newTestGenerator(client, func(o *Options) { o.MaxRounds = 5 }).
			GenerateResponse(context.Background(), "q", WithTools(testTools, exec))
		require.Error(t, err, "k=%d", k)
		assert.Equal(t, DefaultFallbackMessage, answer)
		assert.Equal(t, k, client.CallCount(), "k=%d", k)
	}
}

func TestGenerateResponse_RoundBudget(t *testing.T) {
	for _, maxRounds := range []int{1, 2, 3, 4} {
		client := model.NewMockClient("mock")
		for i := 0; i < maxRounds; i++ {
			client.Enqueue(model.ToolUseResponse("", use("t", "search_course_content", map[string]any{"i": i})))
		}
		client.Enqueue(model.TextResponse("done"))
		exec := tool.ExecutorFunc(func(context.Context, string, map[string]any) (string, error) { return "r", nil })

		res, err := newTestGenerator(client).Run(context.Background(), "q",
			WithTools(testTools, exec), WithMaxRounds(maxRounds))
		require.NoError(t, err)

		reqs := client.Requests()
		require.Len(t, reqs, maxRounds+1, "maxRounds=%d", maxRounds)
		for n := 0; n < maxRounds; n++ {
			assert.True(t, reqs[n].HasTools(), "call %d of maxRounds=%d", n, maxRounds)
		}
		assert.False(t, reqs[maxRounds].HasTools())
		assert.Equal(t, maxRounds, res.Rounds)
		assert.Equal(t, "done", res.Text)
	}
}

func TestGenerateResponse_MaxRoundsNormalisation(t *testing.T) {
	gen := New(model.NewMockClient("mock"), func(o *Options) { o.MaxRounds = 0 })
	assert.Equal(t, DefaultMaxRounds, gen.opts.MaxRounds)

	client := model.NewMockClient("mock").Enqueue(
		model.ToolUseResponse("", use("t1", "search_course_content", nil)),
		model.ToolUseResponse("", use("t2", "search_course_content", nil)),
		model.TextResponse("done"),
	)
	exec := tool.ExecutorFunc(func(context.Context, string, map[string]any) (string, error) { return "r", nil })
	res, err := newTestGenerator(client).Run(context.Background(), "q", WithTools(testTools, exec), WithMaxRounds(-3))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rounds)
	assert.Equal(t, 3, res.ModelCalls)
}

func TestGenerateResponse_OneRoundPerBatch(t *testing.T) {
	client := model.NewMockClient("mock").Enqueue(
		model.ToolUseResponse("",
			use("a", "search_course_content", map[string]any{"query": "a"}),
			use("b", "search_course_content", map[string]any{"query": "b"}),
			use("c", "get_course_outline", map[string]any{"course_name": "c"}),
		),
		model.TextResponse("answer"),
	)
	// Completion order is reversed relative to invocation order.
	delays := map[string]time.Duration{"a": 30 * time.Millisecond, "b": 15 * time.Millisecond, "c": 0}
	exec := tool.ExecutorFunc(func(_ context.Context, _ string, input map[string]any) (string, error) {
		key, _ := input["query"].(string)
		if key == "" {
			key, _ = input["course_name"].(string)
		}
		time.Sleep(delays[key])
		return "result " + key, nil
	})

	res, err := newTestGenerator(client).Run(context.Background(), "q", WithTools(testTools, exec))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rounds)
	assert.Equal(t, 3, res.ToolCalls)

	history := res.State.ToolResultsHistory()
	require.Len(t, history, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{history[0].ToolUseID, history[1].ToolUseID, history[2].ToolUseID})
	assert.Equal(t, "result a", history[0].Content)

	// The second call still has tools: one batch is one round.
	assert.True(t, client.Requests()[1].HasTools())
}

func TestGenerateResponse_NoToolsSingleCall(t *testing.T) {
	cases := map[string][]func(o *QueryOptions){
		"no tools":    nil,
		"no executor": {func(o *QueryOptions) { o.Tools = testTools }},
		"no defs":     {WithTools(nil, tool.ExecutorFunc(func(context.Context, string, map[string]any) (string, error) { return "", nil }))},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			client := model.NewMockClient("mock").Enqueue(
				model.ToolUseResponse("text alongside", use("t1", "search_course_content", nil)),
			)
			res, err := newTestGenerator(client).Run(context.Background(), "q", opts...)
			require.NoError(t, err)
			assert.Equal(t, "text alongside", res.Text)
			assert.Equal(t, 1, client.CallCount())
			assert.Equal(t, 0, res.ToolCalls)
			assert.False(t, client.Requests()[0].HasTools())
		})
	}
}

func TestGenerateResponse_TransportErrors(t *testing.T) {
	t.Run("first round", func(t *testing.T) {
		client := model.NewMockClient("mock").EnqueueError(&model.TransportError{Provider: "mock", StatusCode: 529, Err: errors.New("overloaded")})
		res, err := newTestGenerator(client).Run(context.Background(), "q", WithTools(testTools, &mockExecutor{}))

		var te *model.TransportError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, 529, te.StatusCode)
		assert.Equal(t, DefaultFallbackMessage, res.Text)
		assert.Equal(t, PhaseFailed, res.Phase)
	})

	t.Run("second round", func(t *testing.T) {
		client := model.NewMockClient("mock").
			Enqueue(model.ToolUseResponse("", use("t1", "search_course_content", nil))).
			EnqueueError(errors.New("connection reset"))
		exec := tool.ExecutorFunc(func(context.Context, string, map[string]any) (string, error) { return "r", nil })

		res, err := newTestGenerator(client).Run(context.Background(), "q", WithTools(testTools, exec))
		var te *model.TransportError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, DefaultFallbackMessage, res.Text)
		assert.Equal(t, 1, res.Rounds)
		assert.Equal(t, 2, client.CallCount())
	})

	t.Run("direct call", func(t *testing.T) {
		client := model.NewMockClient("mock").EnqueueError(errors.New("unauthorized"))
		answer, err := newTestGenerator(client).GenerateResponse(context.Background(), "q")
		require.Error(t, err)
		assert.Equal(t, DefaultFallbackMessage, answer)
	})
}

func TestGenerateResponse_FinalizationFailure(t *testing.T) {
	client := model.NewMockClient("mock").
		Enqueue(model.ToolUseResponse("", use("t1", "search_course_content", nil))).
		EnqueueError(errors.New("boom"))
	exec := tool.ExecutorFunc(func(context.Context, string, map[string]any) (string, error) { return "r", nil })

	res, err := newTestGenerator(client).Run(context.Background(), "q", WithTools(testTools, exec), WithMaxRounds(1))
	require.Error(t, err)
	assert.Equal(t, DefaultFinalizationFallbackMessage, res.Text)
	assert.Equal(t, PhaseFailed, res.Phase)
	assert.Contains(t, err.Error(), "finalization")

	var te *model.TransportError
	assert.True(t, errors.As(err, &te))
}

func TestGenerateResponse_CustomFallbacks(t *testing.T) {
	client := model.NewMockClient("mock").EnqueueError(errors.New("x"))
	answer, _ := newTestGenerator(client, func(o *Options) { o.FallbackMessage = "sorry" }).
		GenerateResponse(context.Background(), "q")
	assert.Equal(t, "sorry", answer)
}

func TestGenerateResponse_ToolUseWithoutInvocations(t *testing.T) {
	t.Run("with text", func(t *testing.T) {
		client := model.NewMockClient("mock").Enqueue(&model.Response{
			Content:    []core.Block{core.TextBlock{Text: "Here is what I know."}},
			StopReason: model.StopReasonToolUse,
		})
		res, err := newTestGenerator(client).Run(context.Background(), "q", WithTools(testTools, &mockExecutor{}))
		require.NoError(t, err)
		assert.Equal(t, "Here is what I know.", res.Text)
		assert.Equal(t, 1, client.CallCount())
		assert.Equal(t, 0, res.Rounds)
	})

	t.Run("without text", func(t *testing.T) {
		client := model.NewMockClient("mock").Enqueue(
			&model.Response{StopReason: model.StopReasonToolUse},
			model.TextResponse("forced answer"),
		)
		res, err := newTestGenerator(client).Run(context.Background(), "q", WithTools(testTools, &mockExecutor{}))
		require.NoError(t, err)
		assert.Equal(t, "forced answer", res.Text)
		require.Equal(t, 2, client.CallCount())
		assert.False(t, client.Requests()[1].HasTools())
	})
}

func TestGenerateResponse_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := model.NewMockClient("mock").Enqueue(model.TextResponse("unused"))
	res, err := newTestGenerator(client).Run(ctx, "q")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCanceled))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, client.CallCount())
	assert.Equal(t, PhaseFailed, res.Phase)
	assert.Equal(t, DefaultFallbackMessage, res.Text)
}

func TestGenerateResponse_CanceledDuringTools(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := model.NewMockClient("mock").Enqueue(
		model.ToolUseResponse("",
			use("a", "search_course_content", nil),
			use("b", "get_course_outline", nil),
		),
		model.TextResponse("unused"),
	)

	var once sync.Once
	exec := tool.ExecutorFunc(func(ctx context.Context, _ string, _ map[string]any) (string, error) {
		once.Do(cancel)
		<-ctx.Done()
		return "", ctx.Err()
	})

	res, err := newTestGenerator(client).Run(ctx, "q", WithTools(testTools, exec))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCanceled))
	assert.True(t, errors.Is(err, context.Canceled))

	var te *tool.ToolError
	assert.False(t, errors.As(err, &te))
	assert.Equal(t, 1, client.CallCount())
	assert.Equal(t, 0, res.Rounds)
}

func TestGenerateResponse_DeadlineDuringModelCall(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	client := blockingClient{}
	_, err := newTestGenerator(client).GenerateResponse(ctx, "q")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCanceled))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

type blockingClient struct{}

func (blockingClient) Request(ctx context.Context, _ model.Request) (*model.Response, error) {
	<-ctx.Done()
	return nil, model.NewTransportError("blocking", 0, ctx.Err())
}

func (blockingClient) Info() model.Info { return model.Info{Provider: "blocking"} }

func TestGenerateResponse_HistoryInSystemPrompt(t *testing.T) {
	client := model.NewMockClient("mock").Enqueue(model.TextResponse("ok"))
	_, err := newTestGenerator(client).GenerateResponse(context.Background(), "q",
		WithHistory("User: hi\nAssistant: hello"))
	require.NoError(t, err)

	system := client.Requests()[0].System
	assert.True(t, strings.HasPrefix(system, "base prompt\n\nPrevious conversation:\n"))
	assert.True(t, strings.HasSuffix(system, "User: hi\nAssistant: hello"))
}

func TestGenerateResponse_WithRegistry(t *testing.T) {
	reg := tool.NewRegistry().MustRegister(
		tool.NewFunctionTool("get_course_outline", "outline", map[string]any{
			"type":       "object",
			"properties": map[string]any{"course_name": map[string]any{"type": "string"}},
			"required":   []string{"course_name"},
		}, func(_ context.Context, args map[string]any) (any, error) {
			return "Course: " + args["course_name"].(string), nil
		}),
	)
	client := model.NewMockClient("mock").Enqueue(
		model.ToolUseResponse("", use("t1", "get_course_outline", map[string]any{"course_name": "MCP"})),
		model.TextResponse("MCP has 5 lessons."),
	)

	res, err := newTestGenerator(client).Run(context.Background(), "outline?", WithRegistry(reg))
	require.NoError(t, err)
	assert.Equal(t, "MCP has 5 lessons.", res.Text)
	assert.Equal(t, reg.Definitions(), client.Requests()[0].Tools)
	assert.Equal(t, "Course: MCP", res.State.ToolResultsHistory()[0].Content)
}

func TestGenerateResponse_ConcurrentQueriesAreIndependent(t *testing.T) {
	gen := newTestGenerator(echoClient{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q := strings.Repeat("q", i+1)
			answer, err := gen.GenerateResponse(context.Background(), q)
			assert.NoError(t, err)
			assert.Equal(t, q, answer)
		}(i)
	}
	wg.Wait()
}

type echoClient struct{}

func (echoClient) Request(_ context.Context, req model.Request) (*model.Response, error) {
	return model.TextResponse(req.Messages[0].Text()), nil
}

func (echoClient) Info() model.Info { return model.Info{Provider: "echo"} }

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "EXECUTING_TOOLS", PhaseExecutingTools.String())
	assert.Equal(t, "UNKNOWN", Phase(42).String())
	assert.True(t, PhaseFailed.Terminal())
	assert.False(t, PhaseFinalizing.Terminal())
}
