package brain

import (
	"context"
)

// Store is the durable half of the brain: memory records keyed by id plus a
// small string metadata table. Implementations must tolerate records written
// without an embedding (older schema); the engine backfills them on load.
type Store interface {
	// GetAll returns every record in insertion order.
	GetAll(ctx context.Context) ([]MemoryRecord, error)

	// Get returns a single record, or an error wrapping errors.ErrNotFound.
	Get(ctx context.Context, id uint) (*MemoryRecord, error)

	// Add persists a new record under record.ID.
	Add(ctx context.Context, record *MemoryRecord) error

	// UpdateEmbedding replaces the stored embedding of an existing record.
	// Used only to backfill records that predate the embedding column.
	UpdateEmbedding(ctx context.Context, id uint, embedding []float32) error

	// ClearAll removes every record. Metadata is untouched.
	ClearAll(ctx context.Context) error

	// Count returns the current number of records.
	Count(ctx context.Context) (int64, error)

	// GetMetadata returns the value for key, or an error wrapping
	// errors.ErrNotFound when the key was never written.
	GetMetadata(ctx context.Context, key string) (string, error)

	PutMetadata(ctx context.Context, key, value string) error

	Close() error
}
