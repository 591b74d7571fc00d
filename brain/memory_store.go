package brain

import (
	"context"
	"sync"

	"github.com/aithena-labs/aithena/errors"
)

// InMemoryStore is the ephemeral Store used when no database path is
// configured, and by tests. Nothing survives a restart.
type InMemoryStore struct {
	mu       sync.RWMutex
	order    []uint
	records  map[uint]MemoryRecord
	metadata map[string]string
}

var _ Store = (*InMemoryStore)(nil)

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records:  make(map[uint]MemoryRecord),
		metadata: make(map[string]string),
	}
}

func (s *InMemoryStore) GetAll(ctx context.Context) ([]MemoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]MemoryRecord, 0, len(s.order))
	for _, id := range s.order {
		records = append(records, copyRecord(s.records[id]))
	}
	return records, nil
}

func (s *InMemoryStore) Get(ctx context.Context, id uint) (*MemoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[id]
	if !exists {
		return nil, errors.Wrapf(errors.ErrNotFound, "memory %d", id)
	}
	record = copyRecord(record)
	return &record, nil
}

func (s *InMemoryStore) Add(ctx context.Context, record *MemoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.ID]; exists {
		return errors.Errorf("memory %d already exists", record.ID)
	}
	s.records[record.ID] = copyRecord(*record)
	s.order = append(s.order, record.ID)
	return nil
}

func (s *InMemoryStore) UpdateEmbedding(ctx context.Context, id uint, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[id]
	if !exists {
		return errors.Wrapf(errors.ErrNotFound, "memory %d", id)
	}
	record.Embedding = append([]float32(nil), embedding...)
	s.records[id] = record
	return nil
}

func (s *InMemoryStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[uint]MemoryRecord)
	s.order = nil
	return nil
}

func (s *InMemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

func (s *InMemoryStore) GetMetadata(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.metadata[key]
	if !exists {
		return "", errors.Wrapf(errors.ErrNotFound, "metadata %q", key)
	}
	return value, nil
}

func (s *InMemoryStore) PutMetadata(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metadata[key] = value
	return nil
}

func (s *InMemoryStore) Close() error {
	return nil
}

func copyRecord(record MemoryRecord) MemoryRecord {
	record.Embedding = append([]float32(nil), record.Embedding...)
	return record
}
