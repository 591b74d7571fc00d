package brain_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aithena-labs/aithena/brain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_PreservesAllSentences(t *testing.T) {
	sentences := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		sentences = append(sentences, fmt.Sprintf("Sentence number %d talks about topic %d.", i, i%5))
	}
	text := strings.Join(sentences, " ")

	chunks := brain.ChunkText(text, 120, 50)
	require.NotEmpty(t, chunks)

	joined := strings.Join(chunks, " ")
	lastIndex := -1
	for _, sentence := range sentences {
		idx := strings.Index(joined, sentence)
		require.GreaterOrEqual(t, idx, 0, "sentence dropped: %q", sentence)
		assert.Greater(t, idx, lastIndex, "sentence out of order: %q", sentence)
		lastIndex = idx
	}
}

func TestChunkText_RespectsMaxSize(t *testing.T) {
	text := "One two three. Four five six. Seven eight nine. Ten eleven twelve."

	chunks := brain.ChunkText(text, 35, 0)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 35, "oversized chunk: %q", chunk)
	}
}

func TestChunkText_OverlapSeedsNextChunk(t *testing.T) {
	text := "Alpha beta gamma delta epsilon. Zeta eta theta iota kappa. Lambda mu nu xi omicron."

	// overlapHint 50 -> 5 trailing words carried into the next chunk.
	chunks := brain.ChunkText(text, 40, 50)
	require.Len(t, chunks, 3)
	assert.True(t, strings.HasPrefix(chunks[1], "Alpha beta gamma delta epsilon."),
		"second chunk should be seeded with the previous sentence's words, got %q", chunks[1])
}

func TestChunkText_OversizedSentencePassesThrough(t *testing.T) {
	long := "This single sentence is deliberately much longer than the configured chunk size so it must pass through whole."
	text := "Short one. " + long + " Short two."

	chunks := brain.ChunkText(text, 40, 0)
	require.Len(t, chunks, 3)
	assert.Equal(t, long, chunks[1])
}

func TestChunkText_DropsEmptySentences(t *testing.T) {
	chunks := brain.ChunkText("First. .  . Second.", 500, 50)
	require.Len(t, chunks, 1)
	assert.Equal(t, "First. Second.", chunks[0])
}

func TestChunkText_EmptyInput(t *testing.T) {
	assert.Empty(t, brain.ChunkText("", 500, 50))
	assert.Empty(t, brain.ChunkText("   \n\t  ", 500, 50))
}

func TestChunkText_FinalPartialChunkEmitted(t *testing.T) {
	chunks := brain.ChunkText("A full sentence here. trailing fragment without terminator", 500, 50)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "trailing fragment without terminator")
}
