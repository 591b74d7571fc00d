package brain_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aithena-labs/aithena/brain"
	"github.com/aithena-labs/aithena/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *brain.SQLiteStore {
	t.Helper()

	store, err := brain.NewSQLiteStore(filepath.Join(t.TempDir(), "brain.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_AddGetAll(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	records := []*brain.MemoryRecord{
		{ID: 1, Text: "first", Embedding: []float32{0.6, 0.8}, Source: brain.SourceManual, CreatedAt: time.Now()},
		{ID: 2, Text: "second", Embedding: []float32{1, 0}, Source: "doc.pdf", CreatedAt: time.Now()},
	}
	for _, record := range records {
		require.NoError(t, store.Add(ctx, record))
	}

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, uint(1), all[0].ID)
	assert.Equal(t, "first", all[0].Text)
	assert.Equal(t, []float32{0.6, 0.8}, all[0].Embedding)
	assert.Equal(t, "doc.pdf", all[1].Source)

	got, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Text)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSQLiteStore_GetNotFound(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	_, err := store.Get(ctx, 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestSQLiteStore_UpdateEmbedding(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	// No embedding: the shape of a record written by an older schema.
	require.NoError(t, store.Add(ctx, &brain.MemoryRecord{
		ID: 1, Text: "legacy record", Source: brain.SourceManual, CreatedAt: time.Now(),
	}))

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got.Embedding)

	require.NoError(t, store.UpdateEmbedding(ctx, 1, []float32{0, 1}))

	got, err = store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, got.Embedding)

	err = store.UpdateEmbedding(ctx, 99, []float32{1, 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestSQLiteStore_ClearAllKeepsMetadata(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	require.NoError(t, store.Add(ctx, &brain.MemoryRecord{ID: 1, Text: "gone soon", CreatedAt: time.Now()}))
	require.NoError(t, store.PutMetadata(ctx, "memoryIdCounter", "1"))

	require.NoError(t, store.ClearAll(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	value, err := store.GetMetadata(ctx, "memoryIdCounter")
	require.NoError(t, err)
	assert.Equal(t, "1", value)
}

func TestSQLiteStore_Metadata(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	_, err := store.GetMetadata(ctx, "memoryIdCounter")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	require.NoError(t, store.PutMetadata(ctx, "memoryIdCounter", "7"))
	require.NoError(t, store.PutMetadata(ctx, "memoryIdCounter", "8"))

	value, err := store.GetMetadata(ctx, "memoryIdCounter")
	require.NoError(t, err)
	assert.Equal(t, "8", value)
}

func TestSQLiteStore_ReopenSeesData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "brain.db")

	store, err := brain.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, &brain.MemoryRecord{
		ID: 1, Text: "durable", Embedding: []float32{1, 0}, Source: brain.SourceManual, CreatedAt: time.Now(),
	}))
	require.NoError(t, store.PutMetadata(ctx, "memoryIdCounter", "1"))
	require.NoError(t, store.Close())

	reopened, err := brain.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "durable", all[0].Text)

	value, err := reopened.GetMetadata(ctx, "memoryIdCounter")
	require.NoError(t, err)
	assert.Equal(t, "1", value)
}
