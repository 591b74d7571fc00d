package brain

import (
	"context"
	"math"
)

type (
	// ModelProgress reports embedding model load progress to subscribers.
	// Status is "downloading" while assets are being fetched into the local
	// cache and "loaded" once the model is ready.
	ModelProgress struct {
		Status  string  `json:"status"`
		Percent float64 `json:"percent,omitempty"`
		Loaded  int64   `json:"loaded,omitempty"`
		Total   int64   `json:"total,omitempty"`
		File    string  `json:"file,omitempty"`
	}

	// Embedder turns text into a fixed-dimension unit vector. Loading is an
	// explicit two-phase capability: EnsureLoaded may download and cache
	// large model assets (reporting progress), after which Embed is pure
	// computation. Release drops the loaded model so a paused brain frees
	// its memory; EnsureLoaded brings it back.
	Embedder interface {
		EnsureLoaded(ctx context.Context, onProgress func(ModelProgress)) error
		Embed(ctx context.Context, text string) ([]float32, error)
		Dimensions() int
		Release()
	}
)

const (
	ProgressStatusDownloading = "downloading"
	ProgressStatusLoaded      = "loaded"
)

// Normalize scales v to unit L2 norm in place and returns it. A zero vector
// is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}
