package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate_NoMarkers(t *testing.T) {
	out, err := RenderTemplate("plain prompt with <html> & 'quotes'", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain prompt with <html> & 'quotes'", out)
}

func TestRenderTemplate_Substitutes(t *testing.T) {
	out, err := RenderTemplate("{{.Prompt}}\n\nPrevious conversation:\n{{.History}}", map[string]any{
		"Prompt":  "You're helpful.",
		"History": "User: hi\nAssistant: hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "You're helpful.\n\nPrevious conversation:\nUser: hi\nAssistant: hello", out)
}

func TestRenderTemplate_Funcs(t *testing.T) {
	out, err := RenderTemplate(`{{default "none" .Missing}} {{upper .Name}}`, map[string]any{"Name": "rag"})
	require.NoError(t, err)
	assert.Equal(t, "none RAG", out)
}

func TestRenderTemplate_ParseError(t *testing.T) {
	_, err := RenderTemplate("{{.Broken", nil)
	assert.Error(t, err)
}
