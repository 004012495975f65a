package conversation

import (
	"github.com/a3eyherabide/starting-ragchatbot-codebase/core"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/internal/util"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/model"
)

// historyTemplate appends a rendered prior-conversation summary to the base prompt.
const historyTemplate = "{{.Prompt}}\n\nPrevious conversation:\n{{.History}}"

// State is an immutable snapshot of one query's conversation.
type State struct {
	messages           []core.Message
	systemPrompt       string
	completedRounds    int
	toolResultsHistory []core.ToolResultBlock
}

// New seeds a State with a single user message. When history is non-empty it
// is appended to basePrompt as a "Previous conversation" section.
func New(query, basePrompt, history string) *State {
	system := basePrompt
	if history != "" {
		rendered, err := util.RenderTemplate(historyTemplate, map[string]any{
			"Prompt":  basePrompt,
			"History": history,
		})
		if err != nil {
			rendered = basePrompt + "\n\nPrevious conversation:\n" + history
		}
		system = rendered
	}

	return &State{
		messages:     []core.Message{core.NewTextMessage(core.RoleUser, query)},
		systemPrompt: system,
	}
}

// WithAssistantResponse returns a new State with an assistant message holding
// the raw response blocks appended. The round counter is unchanged.
func (s *State) WithAssistantResponse(blocks []core.Block) *State {
	next := s.derive(1, 0)
	next.messages = append(next.messages, core.Message{Role: core.RoleAssistant, Content: core.CloneBlocks(blocks)})
	return next
}

// WithToolResults returns a new State with one user message carrying the
// ordered results appended, the results added to the tool-results history and
// the round counter incremented by exactly one.
func (s *State) WithToolResults(results []core.ToolResultBlock) *State {
	next := s.derive(1, len(results))
	next.messages = append(next.messages, core.Message{Role: core.RoleUser, Content: core.ToolResultsToBlocks(results)})
	next.toolResultsHistory = append(next.toolResultsHistory, results...)
	next.completedRounds++
	return next
}

// RequestParams merges base with the current messages and system prompt. When
// tools is non-empty the tool list and an automatic tool-choice directive are added.
func (s *State) RequestParams(base model.Params, tools []model.ToolDefinition) model.Request {
	req := model.Request{
		Params:   base,
		Messages: core.CloneMessages(s.messages),
		System:   s.systemPrompt,
	}
	if len(tools) > 0 {
		req.Tools = tools
		req.ToolChoice = model.ToolChoiceAuto
	}
	return req
}

// Messages returns a deep copy of the message history.
func (s *State) Messages() []core.Message { return core.CloneMessages(s.messages) }

// Len returns the number of messages in the state.
func (s *State) Len() int { return len(s.messages) }

// SystemPrompt returns the system prompt used for every call of this query.
func (s *State) SystemPrompt() string { return s.systemPrompt }

// CompletedRounds returns how many tool-result batches have been folded in.
func (s *State) CompletedRounds() int { return s.completedRounds }

// ToolResultsHistory returns a copy of every tool result folded so far, in order.
func (s *State) ToolResultsHistory() []core.ToolResultBlock {
	out := make([]core.ToolResultBlock, len(s.toolResultsHistory))
	copy(out, s.toolResultsHistory)
	return out
}

// derive copies s into fresh backing arrays with room for extra messages and
// results so appends on the copy never touch the receiver's slices.
func (s *State) derive(extraMessages, extraResults int) *State {
	msgs := make([]core.Message, len(s.messages), len(s.messages)+extraMessages)
	copy(msgs, s.messages)

	results := make([]core.ToolResultBlock, len(s.toolResultsHistory), len(s.toolResultsHistory)+extraResults)
	copy(results, s.toolResultsHistory)

	return &State{
		messages:           msgs,
		systemPrompt:       s.systemPrompt,
		completedRounds:    s.completedRounds,
		toolResultsHistory: results,
	}
}
