package conversation

import (
	"testing"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/core"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SeedsSingleUserMessage(t *testing.T) {
	s := New("What is MCP?", "base prompt", "")

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, core.RoleUser, msgs[0].Role)
	assert.Equal(t, "What is MCP?", msgs[0].Text())
	assert.Equal(t, "base prompt", s.SystemPrompt())
	assert.Equal(t, 0, s.CompletedRounds())
	assert.Empty(t, s.ToolResultsHistory())
}

func TestNew_AppendsHistoryToPrompt(t *testing.T) {
	s := New("q", "base prompt", "User: hi\nAssistant: hello")
	assert.Equal(t, "base prompt\n\nPrevious conversation:\nUser: hi\nAssistant: hello", s.SystemPrompt())
}

func TestWithAssistantResponse_DoesNotMutatePrevious(t *testing.T) {
	s0 := New("q", "p", "")
	blocks := []core.Block{
		core.TextBlock{Text: "let me look"},
		core.ToolUseBlock{ID: "t1", Name: "search", Input: map[string]any{"query": "mcp"}},
	}
	s1 := s0.WithAssistantResponse(blocks)

	assert.NotSame(t, s0, s1)
	assert.Equal(t, 1, s0.Len())
	assert.Equal(t, 2, s1.Len())
	assert.Equal(t, 0, s1.CompletedRounds())

	// Mutating the caller's slice or input map after the fact is invisible.
	blocks[0] = core.TextBlock{Text: "rewritten"}
	blocks[1].(core.ToolUseBlock).Input["query"] = "changed"

	got := s1.Messages()[1]
	assert.Equal(t, core.RoleAssistant, got.Role)
	assert.Equal(t, "let me look", got.Text())
	assert.Equal(t, "mcp", got.Content[1].(core.ToolUseBlock).Input["query"])
}

func TestWithToolResults_IncrementsRoundOncePerBatch(t *testing.T) {
	s0 := New("q", "p", "").WithAssistantResponse([]core.Block{
		core.ToolUseBlock{ID: "a", Name: "one"},
		core.ToolUseBlock{ID: "b", Name: "two"},
		core.ToolUseBlock{ID: "c", Name: "three"},
	})
	results := []core.ToolResultBlock{
		{ToolUseID: "a", Content: "1"},
		{ToolUseID: "b", Content: "2"},
		{ToolUseID: "c", Content: "3"},
	}
	s1 := s0.WithToolResults(results)

	assert.Equal(t, 0, s0.CompletedRounds())
	assert.Equal(t, 1, s1.CompletedRounds())
	assert.Equal(t, 2, s0.Len())
	assert.Equal(t, 3, s1.Len())
	assert.Empty(t, s0.ToolResultsHistory())
	assert.Equal(t, results, s1.ToolResultsHistory())

	last := s1.Messages()[2]
	assert.Equal(t, core.RoleUser, last.Role)
	assert.Equal(t, core.ToolResultsToBlocks(results), last.Content)

	s2 := s1.WithAssistantResponse([]core.Block{core.ToolUseBlock{ID: "d", Name: "four"}}).
		WithToolResults([]core.ToolResultBlock{{ToolUseID: "d", Content: "4"}})
	assert.Equal(t, 2, s2.CompletedRounds())
	assert.Len(t, s2.ToolResultsHistory(), 4)
	assert.Len(t, s1.ToolResultsHistory(), 3)
}

func TestBranchingFromSameState_IsIsolated(t *testing.T) {
	base := New("q", "p", "")
	a := base.WithAssistantResponse([]core.Block{core.TextBlock{Text: "a"}})
	b := base.WithAssistantResponse([]core.Block{core.TextBlock{Text: "b"}})

	assert.Equal(t, "a", a.Messages()[1].Text())
	assert.Equal(t, "b", b.Messages()[1].Text())
	assert.Equal(t, 1, base.Len())
}

func TestAccessors_ReturnCopies(t *testing.T) {
	s := New("q", "p", "").WithToolResults([]core.ToolResultBlock{{ToolUseID: "x", Content: "r"}})

	msgs := s.Messages()
	msgs[0].Content[0] = core.TextBlock{Text: "tampered"}
	hist := s.ToolResultsHistory()
	hist[0].Content = "tampered"

	assert.Equal(t, "q", s.Messages()[0].Text())
	assert.Equal(t, "r", s.ToolResultsHistory()[0].Content)
}

func TestRequestParams(t *testing.T) {
	base := model.Params{Model: "claude", Temperature: 0, MaxTokens: 800}
	s := New("q", "sys", "")

	req := s.RequestParams(base, nil)
	assert.Equal(t, base, req.Params)
	assert.Equal(t, "sys", req.System)
	assert.Len(t, req.Messages, 1)
	assert.Empty(t, req.Tools)
	assert.Equal(t, model.ToolChoiceNone, req.ToolChoice)
	assert.False(t, req.HasTools())

	tools := []model.ToolDefinition{{Name: "search", Description: "Search", InputSchema: map[string]any{"type": "object"}}}
	req = s.RequestParams(base, tools)
	assert.Equal(t, tools, req.Tools)
	assert.Equal(t, model.ToolChoiceAuto, req.ToolChoice)

	// The request owns its own copy of the messages.
	req.Messages[0].Content[0] = core.TextBlock{Text: "tampered"}
	assert.Equal(t, "q", s.Messages()[0].Text())
}
