package brain_test

import (
	"context"
	"math"
	"testing"

	"github.com/aithena-labs/aithena/brain"
	"github.com/aithena-labs/aithena/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_DeterministicAndNormalized(t *testing.T) {
	ctx := context.Background()
	embedder := brain.NewMockEmbedder(64)
	require.NoError(t, embedder.EnsureLoaded(ctx, nil))

	a, err := embedder.Embed(ctx, "The quick brown fox.")
	require.NoError(t, err)
	b, err := embedder.Embed(ctx, "The quick brown fox.")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestMockEmbedder_SharedWordsScoreHigher(t *testing.T) {
	ctx := context.Background()
	embedder := brain.NewMockEmbedder(64)
	require.NoError(t, embedder.EnsureLoaded(ctx, nil))

	query, err := embedder.Embed(ctx, "What color is the sky?")
	require.NoError(t, err)
	sky, err := embedder.Embed(ctx, "The sky is blue.")
	require.NoError(t, err)
	paris, err := embedder.Embed(ctx, "Paris is in France.")
	require.NoError(t, err)

	assert.Greater(t, dot(query, sky), dot(query, paris))
}

func TestMockEmbedder_RequiresLoad(t *testing.T) {
	ctx := context.Background()
	embedder := brain.NewMockEmbedder(64)

	_, err := embedder.Embed(ctx, "not loaded yet")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmbeddingFailed))

	require.NoError(t, embedder.EnsureLoaded(ctx, nil))
	embedder.Release()

	_, err = embedder.Embed(ctx, "released")
	require.Error(t, err)
}

func TestMockEmbedder_ProgressEvents(t *testing.T) {
	ctx := context.Background()
	embedder := brain.NewMockEmbedder(64)

	var statuses []string
	require.NoError(t, embedder.EnsureLoaded(ctx, func(p brain.ModelProgress) {
		statuses = append(statuses, p.Status)
	}))
	assert.Equal(t, []string{brain.ProgressStatusDownloading, brain.ProgressStatusLoaded}, statuses)

	// Second load is a no-op and must not re-report progress.
	require.NoError(t, embedder.EnsureLoaded(ctx, func(p brain.ModelProgress) {
		t.Fatalf("unexpected progress event: %+v", p)
	}))
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
