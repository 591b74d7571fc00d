package errors

import (
	"fmt"
)

var (
	// ErrStoreUnavailable means the persistent store could not be opened.
	// Fatal at engine init; never retried.
	ErrStoreUnavailable = fmt.Errorf("aithena: memory store unavailable")

	// ErrEmbeddingFailed wraps any failure of the embedding model, either
	// loading it or computing a vector.
	ErrEmbeddingFailed = fmt.Errorf("aithena: embedding failed")

	// ErrEmptyMemory is returned when an empty or whitespace-only text is
	// offered to the brain.
	ErrEmptyMemory = fmt.Errorf("aithena: empty memory text")

	// ErrNoIndexEntries is returned by the vector index when asked to build
	// from zero entries. The engine special-cases an empty store as "no
	// index" and never triggers this in normal operation.
	ErrNoIndexEntries = fmt.Errorf("aithena: cannot build index with no entries")

	// ErrEnginePaused is returned by operations that need the embedding
	// model while the engine is paused.
	ErrEnginePaused = fmt.Errorf("aithena: brain is paused")

	// ErrEngineNotReady is returned by operations invoked before Init
	// succeeded or after the engine entered the failed state.
	ErrEngineNotReady = fmt.Errorf("aithena: brain is not ready")

	ErrNotFound      = fmt.Errorf("aithena: not found")
	ErrInvalidConfig = fmt.Errorf("aithena: invalid config")
)
