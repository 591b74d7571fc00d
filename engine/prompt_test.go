package engine_test

import (
	"testing"

	"github.com/aithena-labs/aithena/brain"
	"github.com/aithena-labs/aithena/engine"
	"github.com/aithena-labs/aithena/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSystemPrompt(t *testing.T) {
	values := engine.ChatPromptValues{
		Persona: entity.Persona{
			Name:        "Aithena",
			Description: "A private assistant that remembers what you tell it.",
			Style:       []string{"concise", "warm"},
		},
		Memories: []brain.RecallResult{
			{Record: brain.MemoryRecord{ID: 1, Text: "The user's cat is named Miso.", Source: "manual"}, Score: 0.92},
			{Record: brain.MemoryRecord{ID: 2, Text: "The user lives in Lisbon.", Source: "notes.pdf"}, Score: 0.71},
		},
	}

	prompt, err := engine.RenderSystemPrompt(values)
	require.NoError(t, err)

	assert.Contains(t, prompt, "You are Aithena.")
	assert.Contains(t, prompt, "- concise")
	assert.Contains(t, prompt, "1. The user's cat is named Miso. (source: manual)")
	assert.Contains(t, prompt, "2. The user lives in Lisbon. (source: notes.pdf)")
}

func TestRenderSystemPrompt_NoMemories(t *testing.T) {
	prompt, err := engine.RenderSystemPrompt(engine.ChatPromptValues{
		Persona: entity.DefaultPersona,
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, entity.DefaultPersona.Name)
	assert.NotContains(t, prompt, "# What you remember")
}
