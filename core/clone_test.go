package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneBlocks_DeepCopiesToolInput(t *testing.T) {
	orig := []Block{
		ToolUseBlock{ID: "1", Name: "search", Input: map[string]any{
			"query":  "mcp",
			"filter": map[string]any{"lesson": 1.0},
			"tags":   []any{"a", map[string]any{"k": "v"}},
		}},
	}
	cp := CloneBlocks(orig)

	tu := cp[0].(ToolUseBlock)
	tu.Input["query"] = "changed"
	tu.Input["filter"].(map[string]any)["lesson"] = 2.0
	tu.Input["tags"].([]any)[1].(map[string]any)["k"] = "x"

	in := orig[0].(ToolUseBlock).Input
	assert.Equal(t, "mcp", in["query"])
	assert.Equal(t, 1.0, in["filter"].(map[string]any)["lesson"])
	assert.Equal(t, "v", in["tags"].([]any)[1].(map[string]any)["k"])
}

func TestCloneBlocks_NilStaysNil(t *testing.T) {
	assert.Nil(t, CloneBlocks(nil))
	assert.Nil(t, CloneMap(nil))
}

func TestCloneBlock_DereferencesPointers(t *testing.T) {
	tb := &TextBlock{Text: "hi"}
	cp := CloneBlock(tb)
	tb.Text = "changed"
	assert.Equal(t, TextBlock{Text: "hi"}, cp)
}

func TestCloneMessages_Independent(t *testing.T) {
	msgs := []Message{{Role: RoleAssistant, Content: []Block{TextBlock{Text: "a"}}}}
	cp := CloneMessages(msgs)
	cp[0].Content[0] = TextBlock{Text: "b"}
	cp[0].Content = append(cp[0].Content, TextBlock{Text: "c"})
	assert.Equal(t, "a", msgs[0].Text())
	assert.Len(t, msgs[0].Content, 1)
}
