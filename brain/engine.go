// Package brain is the assistant's memory: user-supplied text is embedded,
// persisted, and indexed for nearest-neighbor recall at chat time. The
// Engine keeps the durable Store, an in-memory embedding cache, and the
// rebuild-only VectorIndex consistent across adds, clears, pause/resume
// cycles and process restarts, without recomputing embeddings it already
// paid for.
package brain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aithena-labs/aithena/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// State is the lifecycle phase of the engine.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StatePaused
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StatePaused:
		return "paused"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Engine orchestrates the store, embedder and vector index. All mutable
// state lives on the instance; mutating operations (Add, AddMany, Clear,
// Pause, Resume, Init) are serialized by the op mutex so at most one is in
// flight, while Recall and Count stay concurrent-safe.
type Engine struct {
	store    Store
	embedder Embedder
	logger   *slog.Logger
	tracer   trace.Tracer

	chunkSize    int
	chunkOverlap int

	// op serializes mutating operations. The embedding cache and the id
	// counter are only touched while op is held.
	op      sync.Mutex
	cache   map[uint][]float32
	counter uint

	// mu guards state and index so Recall can snapshot them without
	// waiting on an in-flight mutation.
	mu    sync.RWMutex
	state State
	index *VectorIndex

	subscribers subscribers
}

type EngineOption func(*Engine)

func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithChunking overrides the document ingestion chunk size and overlap hint.
func WithChunking(size, overlap int) EngineOption {
	return func(e *Engine) {
		e.chunkSize = size
		e.chunkOverlap = overlap
	}
}

func NewEngine(store Store, embedder Embedder, opts ...EngineOption) *Engine {
	e := &Engine{
		store:        store,
		embedder:     embedder,
		logger:       slog.Default(),
		tracer:       otel.Tracer("github.com/aithena-labs/aithena/brain"),
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		cache:        make(map[uint][]float32),
		state:        StateUninitialized,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current lifecycle phase.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Init opens the stored record set, loads the embedding model, and rebuilds
// the vector index, backfilling any embeddings missing from older records.
// Safe to call again once Ready (no-op). On failure the engine enters
// StateFailed and the triggering error is surfaced verbatim.
func (e *Engine) Init(ctx context.Context) error {
	ctx, span := e.tracer.Start(ctx, "brain.Init")
	defer span.End()

	e.op.Lock()
	defer e.op.Unlock()

	switch e.State() {
	case StateReady, StatePaused:
		return nil
	case StateFailed:
		return errors.Wrapf(errors.ErrEngineNotReady, "brain previously failed to initialize")
	}
	e.setState(StateInitializing)

	if err := e.initLocked(ctx); err != nil {
		span.RecordError(err)
		e.setState(StateFailed)
		e.emitError(err)
		return err
	}

	e.setState(StateReady)
	count, err := e.store.Count(ctx)
	if err != nil {
		count = 0
	}
	e.emitReady(count)
	e.logger.Info("brain ready", "memories", count)
	return nil
}

func (e *Engine) initLocked(ctx context.Context) error {
	e.emitStatus("Opening memory store...")
	counter, err := e.loadCounter(ctx)
	if err != nil {
		return err
	}
	e.counter = counter

	e.emitStatus("Loading embedding model...")
	if err := e.embedder.EnsureLoaded(ctx, e.emitProgress); err != nil {
		return err
	}

	e.emitStatus("Rebuilding memory index...")
	return e.rebuildLocked(ctx)
}

func (e *Engine) loadCounter(ctx context.Context) (uint, error) {
	value, err := e.store.GetMetadata(ctx, metaMemoryIDCounter)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "failed to read memory id counter")
	}
	counter, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "corrupt memory id counter %q", value)
	}
	return uint(counter), nil
}

// rebuildLocked reconstructs the vector index from the full current record
// set. Cached embeddings are reused; anything missing from the cache (older
// schema, or a cache emptied by pause) is recomputed and written back to the
// store. An empty record set leaves the index nil rather than building a
// zero-entry index. Requires op.
func (e *Engine) rebuildLocked(ctx context.Context) error {
	records, err := e.store.GetAll(ctx)
	if err != nil {
		return errors.Wrapf(err, "failed to load memories for index rebuild")
	}

	entries := make([]IndexEntry, 0, len(records))
	for _, record := range records {
		if record.ID > e.counter {
			// A counter lagging the stored ids would hand out duplicate
			// ids; trust the records.
			e.logger.Warn("memory id counter behind stored ids", "counter", e.counter, "id", record.ID)
			e.counter = record.ID
		}

		vector, cached := e.cache[record.ID]
		if !cached {
			if len(record.Embedding) > 0 {
				vector = record.Embedding
			} else {
				vector, err = e.embedder.Embed(ctx, record.Text)
				if err != nil {
					return errors.Wrapf(err, "failed to backfill embedding for memory %d", record.ID)
				}
				if err := e.store.UpdateEmbedding(ctx, record.ID, vector); err != nil {
					return err
				}
			}
			e.cache[record.ID] = vector
		}
		entries = append(entries, IndexEntry{ID: record.ID, Vector: vector})
	}

	if len(entries) == 0 {
		e.setIndex(nil)
		return nil
	}

	index, err := BuildIndex(entries)
	if err != nil {
		return err
	}
	e.setIndex(index)
	return nil
}

// Add embeds text, persists it as a new memory, and rebuilds the index.
// Empty or whitespace-only text is rejected with errors.ErrEmptyMemory.
func (e *Engine) Add(ctx context.Context, text, source string) (*MemoryRecord, error) {
	ctx, span := e.tracer.Start(ctx, "brain.Add")
	defer span.End()

	e.op.Lock()
	defer e.op.Unlock()

	if err := e.requireReadyForMutation(); err != nil {
		return nil, err
	}
	record, err := e.addLocked(ctx, text, source)
	if err != nil {
		span.RecordError(err)
	}
	return record, err
}

func (e *Engine) addLocked(ctx context.Context, text, source string) (*MemoryRecord, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.WithStack(errors.ErrEmptyMemory)
	}
	if source == "" {
		source = SourceManual
	}

	vector, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	record := &MemoryRecord{
		ID:        e.counter + 1,
		Text:      text,
		Embedding: vector,
		Source:    source,
		CreatedAt: time.Now(),
	}
	if err := e.store.Add(ctx, record); err != nil {
		return nil, err
	}
	e.counter = record.ID
	if err := e.store.PutMetadata(ctx, metaMemoryIDCounter, strconv.FormatUint(uint64(e.counter), 10)); err != nil {
		return nil, err
	}
	e.cache[record.ID] = vector

	if count, err := e.store.Count(ctx); err == nil {
		e.emitCountChanged(count)
	}

	// The record is durable at this point; a rebuild failure leaves it
	// persisted and surfaces the error to the caller.
	if err := e.rebuildLocked(ctx); err != nil {
		return record, err
	}
	return record, nil
}

// AddMany ingests texts sequentially, one Add per item. Each item is
// independently durable: a failure aborts the remaining items but already
// committed records stay, and the error is returned alongside them.
func (e *Engine) AddMany(ctx context.Context, texts []string, source string) ([]*MemoryRecord, error) {
	ctx, span := e.tracer.Start(ctx, "brain.AddMany")
	defer span.End()

	e.op.Lock()
	defer e.op.Unlock()

	if err := e.requireReadyForMutation(); err != nil {
		return nil, err
	}

	records := make([]*MemoryRecord, 0, len(texts))
	for i, text := range texts {
		e.emitStatus(fmt.Sprintf("Memorizing chunk %d/%d...", i+1, len(texts)))
		record, err := e.addLocked(ctx, text, source)
		if err != nil {
			span.RecordError(err)
			return records, errors.Wrapf(err, "failed on chunk %d of %d", i+1, len(texts))
		}
		records = append(records, record)
	}
	return records, nil
}

// IngestDocument extracts text from an uploaded file (PDF or plain text),
// chunks it, and stores every chunk with the filename as provenance.
func (e *Engine) IngestDocument(ctx context.Context, filename string, data []byte) ([]*MemoryRecord, error) {
	text, err := ExtractText(filename, data)
	if err != nil {
		return nil, err
	}

	chunks := ChunkText(text, e.chunkSize, e.chunkOverlap)
	if len(chunks) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyMemory, "document %s has no extractable text", filename)
	}

	e.logger.Info("ingesting document", "file", filename, "chunks", len(chunks))
	return e.AddMany(ctx, chunks, filepath.Base(filename))
}

// Recall returns up to k stored memories most similar to query, ordered by
// descending similarity. An empty query or an empty brain yields an empty
// result, not an error. Recall is rejected while paused: the embedder is
// released then, and searching a possibly stale index without one would be
// worse than asking the caller to resume first.
func (e *Engine) Recall(ctx context.Context, query string, k int) ([]RecallResult, error) {
	ctx, span := e.tracer.Start(ctx, "brain.Recall")
	defer span.End()

	if k <= 0 {
		k = DefaultRecallK
	}
	if strings.TrimSpace(query) == "" {
		return []RecallResult{}, nil
	}

	e.mu.RLock()
	state, index := e.state, e.index
	e.mu.RUnlock()

	switch state {
	case StateReady:
	case StatePaused:
		return nil, errors.WithStack(errors.ErrEnginePaused)
	default:
		return nil, errors.Wrapf(errors.ErrEngineNotReady, "recall in state %s", state)
	}
	if index == nil {
		return []RecallResult{}, nil
	}

	queryVector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	results := make([]RecallResult, 0, k)
	for _, hit := range index.Search(queryVector, k) {
		record, err := e.store.Get(ctx, hit.ID)
		if err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				// Index and store drifted; drop the orphan hit.
				continue
			}
			return nil, err
		}
		results = append(results, RecallResult{Record: *record, Score: 1.0 - hit.Distance})
	}
	return results, nil
}

// Clear irreversibly removes every memory, resets the id counter to zero,
// and drops the index and embedding cache.
func (e *Engine) Clear(ctx context.Context) error {
	ctx, span := e.tracer.Start(ctx, "brain.Clear")
	defer span.End()

	e.op.Lock()
	defer e.op.Unlock()

	switch e.State() {
	case StateReady, StatePaused:
	default:
		return errors.Wrapf(errors.ErrEngineNotReady, "clear in state %s", e.State())
	}

	if err := e.store.ClearAll(ctx); err != nil {
		span.RecordError(err)
		return err
	}
	if err := e.store.PutMetadata(ctx, metaMemoryIDCounter, "0"); err != nil {
		span.RecordError(err)
		return err
	}
	e.counter = 0
	e.cache = make(map[uint][]float32)
	e.setIndex(nil)
	e.emitCountChanged(0)
	e.logger.Info("brain cleared")
	return nil
}

// Pause releases the embedding model and empties the embedding cache to
// shrink the memory footprint under pressure. The store and counter are
// untouched. The index is deliberately retained: it is small next to the
// cached vectors and model weights, and Recall refuses to run while paused,
// so a stale index can never be searched without an embedder. Idempotent.
func (e *Engine) Pause(ctx context.Context) error {
	_, span := e.tracer.Start(ctx, "brain.Pause")
	defer span.End()

	e.op.Lock()
	defer e.op.Unlock()

	if e.State() != StateReady {
		return nil
	}

	e.embedder.Release()
	e.cache = make(map[uint][]float32)
	e.setState(StatePaused)
	e.emitStatus("Brain paused")
	e.logger.Info("brain paused")
	return nil
}

// Resume reloads the embedding model and rebuilds the index from the store,
// reporting the same status and progress events as Init. A no-op unless
// paused. On failure the engine stays paused and the error is surfaced.
func (e *Engine) Resume(ctx context.Context) error {
	ctx, span := e.tracer.Start(ctx, "brain.Resume")
	defer span.End()

	e.op.Lock()
	defer e.op.Unlock()

	if e.State() != StatePaused {
		return nil
	}

	e.emitStatus("Loading embedding model...")
	if err := e.embedder.EnsureLoaded(ctx, e.emitProgress); err != nil {
		span.RecordError(err)
		e.emitError(err)
		return err
	}

	e.emitStatus("Rebuilding memory index...")
	if err := e.rebuildLocked(ctx); err != nil {
		span.RecordError(err)
		e.emitError(err)
		return err
	}

	e.setState(StateReady)
	e.logger.Info("brain resumed")
	return nil
}

// Count reports the stored record count. It consults the store directly and
// works in any state.
func (e *Engine) Count(ctx context.Context) (int64, error) {
	return e.store.Count(ctx)
}

// Close releases the embedder and the underlying store.
func (e *Engine) Close() error {
	e.op.Lock()
	defer e.op.Unlock()

	e.embedder.Release()
	return e.store.Close()
}

func (e *Engine) requireReadyForMutation() error {
	switch e.State() {
	case StateReady:
		return nil
	case StatePaused:
		return errors.WithStack(errors.ErrEnginePaused)
	default:
		return errors.Wrapf(errors.ErrEngineNotReady, "in state %s", e.State())
	}
}

func (e *Engine) setState(state State) {
	e.mu.Lock()
	e.state = state
	e.mu.Unlock()
}

func (e *Engine) setIndex(index *VectorIndex) {
	e.mu.Lock()
	e.index = index
	e.mu.Unlock()
}
