package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinText(t *testing.T) {
	blocks := []Block{
		TextBlock{Text: "first"},
		ToolUseBlock{ID: "t1", Name: "search"},
		TextBlock{Text: ""},
		TextBlock{Text: "second"},
	}
	assert.Equal(t, "first\nsecond", JoinText(blocks))
	assert.Equal(t, "", JoinText(nil))
}

func TestToolUses_PreservesOrder(t *testing.T) {
	blocks := []Block{
		ToolUseBlock{ID: "b", Name: "two"},
		TextBlock{Text: "ignored"},
		ToolUseBlock{ID: "a", Name: "one"},
	}
	uses := ToolUses(blocks)
	if assert.Len(t, uses, 2) {
		assert.Equal(t, "b", uses[0].ID)
		assert.Equal(t, "a", uses[1].ID)
	}
	assert.Empty(t, ToolUses([]Block{TextBlock{Text: "x"}}))
}

func TestNewTextMessage(t *testing.T) {
	m := NewTextMessage(RoleUser, "hello")
	assert.Equal(t, RoleUser, m.Role)
	assert.Equal(t, "hello", m.Text())
}

func TestToolResultsToBlocks(t *testing.T) {
	blocks := ToolResultsToBlocks([]ToolResultBlock{{ToolUseID: "1", Content: "ok"}, {ToolUseID: "2", Content: "bad", IsError: true}})
	assert.Equal(t, []Block{
		ToolResultBlock{ToolUseID: "1", Content: "ok"},
		ToolResultBlock{ToolUseID: "2", Content: "bad", IsError: true},
	}, blocks)
}
