package brain

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/aithena-labs/aithena/errors"
)

// MockEmbedder is a deterministic, dependency-free Embedder for tests and
// offline development. Each word is hashed onto one axis of the vector, so
// texts sharing words land near each other; output is unit-normalized like a
// real model's. It is not semantic, just lexical overlap.
type MockEmbedder struct {
	// FailAfter, when > 0, makes every Embed call past that many successful
	// calls fail. Used to exercise partial-failure paths.
	FailAfter int

	dims int

	mu     sync.Mutex
	loaded bool
	calls  int
}

var _ Embedder = (*MockEmbedder)(nil)

func NewMockEmbedder(dims int) *MockEmbedder {
	if dims <= 0 {
		dims = 64
	}
	return &MockEmbedder{dims: dims}
}

func (e *MockEmbedder) EnsureLoaded(ctx context.Context, onProgress func(ModelProgress)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.loaded {
		return nil
	}
	if onProgress != nil {
		onProgress(ModelProgress{Status: ProgressStatusDownloading, File: "mock-embedder"})
		onProgress(ModelProgress{Status: ProgressStatusLoaded, Percent: 100, File: "mock-embedder"})
	}
	e.loaded = true
	return nil
}

func (e *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return nil, errors.Wrapf(errors.ErrEmbeddingFailed, "mock embedder is not loaded")
	}
	if e.FailAfter > 0 && e.calls >= e.FailAfter {
		return nil, errors.Wrapf(errors.ErrEmbeddingFailed, "mock embedder failed on call %d", e.calls+1)
	}
	e.calls++

	vec := make([]float32, e.dims)
	for _, word := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(word))
		sum := h.Sum32()
		axis := int(sum % uint32(e.dims))
		if sum&0x80000000 != 0 {
			vec[axis] -= 1
		} else {
			vec[axis] += 1
		}
	}
	return Normalize(vec), nil
}

func (e *MockEmbedder) Dimensions() int {
	return e.dims
}

func (e *MockEmbedder) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loaded = false
}

// Loaded reports whether the mock currently holds its "model".
func (e *MockEmbedder) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}
