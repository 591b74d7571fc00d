package brain

import (
	"sort"

	"github.com/aithena-labs/aithena/errors"
	"gonum.org/v1/gonum/mat"
)

type (
	// IndexEntry is one (id, vector) pair fed to BuildIndex.
	IndexEntry struct {
		ID     uint
		Vector []float32
	}

	// Hit is a nearest-neighbor result. Distance is 1 - cosine similarity,
	// so 0 means identical direction and 2 means opposite.
	Hit struct {
		ID       uint
		Distance float64
	}

	// VectorIndex is a flat, rebuild-only nearest-neighbor structure: a
	// dense row-per-memory matrix queried with a single matrix-vector
	// product. There is no incremental insert; the engine rebuilds the
	// whole index after every mutation, which keeps the three copies of
	// truth (store, cache, index) trivially consistent and is fine for the
	// low thousands of memories this brain is designed for.
	VectorIndex struct {
		ids    []uint
		dim    int
		matrix *mat.Dense
	}
)

// BuildIndex constructs an index over entries, replacing any prior index the
// caller holds. Building from zero entries is refused with
// errors.ErrNoIndexEntries; callers represent an empty brain as a nil index.
func BuildIndex(entries []IndexEntry) (*VectorIndex, error) {
	if len(entries) == 0 {
		return nil, errors.WithStack(errors.ErrNoIndexEntries)
	}

	dim := len(entries[0].Vector)
	if dim == 0 {
		return nil, errors.New("index entries require non-empty vectors")
	}

	ids := make([]uint, len(entries))
	data := make([]float64, len(entries)*dim)
	for i, entry := range entries {
		if len(entry.Vector) != dim {
			return nil, errors.Errorf("entry %d has dimension %d, want %d", entry.ID, len(entry.Vector), dim)
		}
		ids[i] = entry.ID
		for j, v := range entry.Vector {
			data[i*dim+j] = float64(v)
		}
	}

	return &VectorIndex{
		ids:    ids,
		dim:    dim,
		matrix: mat.NewDense(len(entries), dim, data),
	}, nil
}

// Len returns the number of indexed entries.
func (x *VectorIndex) Len() int {
	return len(x.ids)
}

// Search returns up to k hits ordered by ascending distance. k is clamped to
// the entry count. Vectors are unit-normalized at embedding time, so the
// inner product is the cosine similarity.
func (x *VectorIndex) Search(query []float32, k int) []Hit {
	if k <= 0 || len(query) != x.dim {
		return nil
	}
	if k > len(x.ids) {
		k = len(x.ids)
	}

	queryVec := make([]float64, x.dim)
	for i, v := range query {
		queryVec[i] = float64(v)
	}

	var scores mat.VecDense
	scores.MulVec(x.matrix, mat.NewVecDense(x.dim, queryVec))

	hits := make([]Hit, len(x.ids))
	for i, id := range x.ids {
		hits[i] = Hit{ID: id, Distance: 1.0 - scores.AtVec(i)}
	}
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	return hits[:k]
}
