package aithena_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aithena-labs/aithena"
	"github.com/aithena-labs/aithena/brain"
	"github.com/aithena-labs/aithena/engine"
	"github.com/aithena-labs/aithena/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoGenerator replies with a canned answer and records the request it saw.
type echoGenerator struct {
	reply   string
	lastReq engine.Request
}

func (g *echoGenerator) Generate(ctx context.Context, req engine.Request, onDelta engine.StreamFunc) (*engine.Response, error) {
	g.lastReq = req
	if onDelta != nil {
		for _, word := range strings.SplitAfter(g.reply, " ") {
			onDelta(word)
		}
	}
	return &engine.Response{Text: g.reply}, nil
}

func newTestAssistant(t *testing.T, gen engine.Generator) *aithena.Assistant {
	t.Helper()
	ctx := context.Background()

	memoryEngine := brain.NewEngine(brain.NewInMemoryStore(), brain.NewMockEmbedder(64))
	assistant, err := aithena.NewAssistant(ctx,
		aithena.WithGenerator(gen),
		aithena.WithBrain(memoryEngine),
		aithena.WithPersona(entity.Persona{
			Name:        "Aithena",
			Description: "A test persona.",
			Greeting:    "Hi there!",
		}),
		aithena.WithRecallMinScore(0.1),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, assistant.Close())
	})
	return assistant
}

func TestAssistant_ChatInjectsMemories(t *testing.T) {
	ctx := context.Background()
	gen := &echoGenerator{reply: "The sky is blue."}
	assistant := newTestAssistant(t, gen)

	_, err := assistant.Remember(ctx, "The sky is blue.")
	require.NoError(t, err)
	_, err = assistant.Remember(ctx, "Paris is the capital of France.")
	require.NoError(t, err)

	var streamed strings.Builder
	res, err := assistant.Chat(ctx, aithena.ChatRequest{Message: "What color is the sky?"}, func(delta string) {
		streamed.WriteString(delta)
	})
	require.NoError(t, err)

	assert.Equal(t, "The sky is blue.", res.Text)
	assert.Equal(t, "The sky is blue.", streamed.String())
	require.NotEmpty(t, res.Memories)
	assert.Equal(t, "The sky is blue.", res.Memories[0].Record.Text)

	assert.Contains(t, gen.lastReq.System, "You are Aithena.")
	assert.Contains(t, gen.lastReq.System, "The sky is blue.")
	require.Len(t, gen.lastReq.Messages, 1)
	assert.Equal(t, engine.RoleUser, gen.lastReq.Messages[0].Role)
}

func TestAssistant_ChatWithEmptyBrain(t *testing.T) {
	ctx := context.Background()
	gen := &echoGenerator{reply: "I don't know yet."}
	assistant := newTestAssistant(t, gen)

	res, err := assistant.Chat(ctx, aithena.ChatRequest{Message: "What color is the sky?"}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Memories)
	assert.NotContains(t, gen.lastReq.System, "What you remember")
}

func TestAssistant_HistoryIsTruncated(t *testing.T) {
	ctx := context.Background()
	gen := &echoGenerator{reply: "ok"}

	memoryEngine := brain.NewEngine(brain.NewInMemoryStore(), brain.NewMockEmbedder(64))
	assistant, err := aithena.NewAssistant(ctx,
		aithena.WithGenerator(gen),
		aithena.WithBrain(memoryEngine),
		aithena.WithMaxHistory(4),
	)
	require.NoError(t, err)
	defer assistant.Close()

	history := make([]engine.Message, 10)
	for i := range history {
		history[i] = engine.Message{Role: engine.RoleUser, Text: "turn"}
	}
	_, err = assistant.Chat(ctx, aithena.ChatRequest{Message: "latest", History: history}, nil)
	require.NoError(t, err)

	// 4 kept history turns plus the new message.
	assert.Len(t, gen.lastReq.Messages, 5)
	assert.Equal(t, "latest", gen.lastReq.Messages[4].Text)
}

func TestAssistant_ForgetAll(t *testing.T) {
	ctx := context.Background()
	assistant := newTestAssistant(t, &echoGenerator{reply: "ok"})

	_, err := assistant.Remember(ctx, "ephemeral fact")
	require.NoError(t, err)
	require.NoError(t, assistant.ForgetAll(ctx))

	results, err := assistant.RecallMemories(ctx, "ephemeral fact", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAssistant_Greeting(t *testing.T) {
	assistant := newTestAssistant(t, &echoGenerator{reply: "ok"})
	assert.Equal(t, "Hi there!", assistant.Greeting())
}
