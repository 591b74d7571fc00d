package brain

import (
	"time"
)

type (
	// MemoryRecord is the atomic retrievable unit of the brain: a chunk of
	// text, its embedding, and where it came from.
	MemoryRecord struct {
		// ID is assigned from a persisted counter that only moves forward
		// while records exist. Clearing the brain resets the counter to
		// zero, so the first memory after a clear is id 1 again.
		ID uint `json:"id"`

		Text string `json:"text"`

		// Embedding is the unit-L2-normalized vector for Text. It may be
		// empty for records written by an older schema; the engine
		// backfills it on load.
		Embedding []float32 `json:"-"`

		// Source is SourceManual for direct input, or the originating
		// filename for document chunks.
		Source string `json:"source"`

		CreatedAt time.Time `json:"createdAt"`
	}

	// RecallResult is a recalled memory with its similarity score in [0,1],
	// computed as 1 - index distance.
	RecallResult struct {
		Record MemoryRecord `json:"record"`
		Score  float64      `json:"score"`
	}
)

const (
	// SourceManual marks memories entered directly by the user.
	SourceManual = "manual"

	// DefaultRecallK is the recall fan-out when the caller passes k <= 0.
	DefaultRecallK = 3

	// metaMemoryIDCounter is the metadata key holding the highest memory id
	// ever assigned.
	metaMemoryIDCounter = "memoryIdCounter"
)
