package brain

import (
	"context"
	"strings"
	"sync"

	"github.com/aithena-labs/aithena/errors"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIEmbedder computes embeddings through any OpenAI-compatible
// /v1/embeddings endpoint. With BaseURL pointed at a local llama.cpp or
// Ollama server the whole pipeline runs offline; the first EnsureLoaded
// causes that server to pull the model into memory, which is surfaced as the
// "downloading" progress phase.
type OpenAIEmbedder struct {
	model   string
	baseURL string
	apiKey  string

	mu         sync.Mutex
	client     *openai.Client
	dimensions int
}

var _ Embedder = (*OpenAIEmbedder)(nil)

func NewOpenAIEmbedder(model, baseURL, apiKey string) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		model:   model,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// EnsureLoaded is idempotent. It constructs the client and performs a warm-up
// embedding so the serving side loads model weights before the first real
// call; the warm-up also pins the embedding dimension for the session.
func (e *OpenAIEmbedder) EnsureLoaded(ctx context.Context, onProgress func(ModelProgress)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		return nil
	}

	if onProgress != nil {
		onProgress(ModelProgress{Status: ProgressStatusDownloading, File: e.model})
	}

	opts := []option.RequestOption{}
	if e.apiKey != "" {
		opts = append(opts, option.WithAPIKey(e.apiKey))
	}
	if e.baseURL != "" {
		opts = append(opts, option.WithBaseURL(e.baseURL))
	}
	client := openai.NewClient(opts...)
	e.client = &client

	vec, err := e.embedLocked(ctx, "warmup")
	if err != nil {
		e.client = nil
		return err
	}
	e.dimensions = len(vec)

	if onProgress != nil {
		onProgress(ModelProgress{Status: ProgressStatusLoaded, Percent: 100, File: e.model})
	}
	return nil
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.embedLocked(ctx, text)
}

func (e *OpenAIEmbedder) embedLocked(ctx context.Context, text string) ([]float32, error) {
	if e.client == nil {
		return nil, errors.Wrapf(errors.ErrEmbeddingFailed, "embedding model is not loaded")
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.Wrapf(errors.ErrEmbeddingFailed, "cannot embed empty text")
	}

	res, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
		Model:          openai.EmbeddingModel(e.model),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEmbeddingFailed, "%s: %v", e.model, err)
	}
	if len(res.Data) == 0 {
		return nil, errors.Wrapf(errors.ErrEmbeddingFailed, "%s returned no embedding", e.model)
	}

	embedding := make([]float32, len(res.Data[0].Embedding))
	for i, v := range res.Data[0].Embedding {
		embedding[i] = float32(v)
	}
	return Normalize(embedding), nil
}

func (e *OpenAIEmbedder) Dimensions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dimensions
}

// Release drops the client so a paused brain holds no model resources. The
// learned dimension is kept; EnsureLoaded restores the client.
func (e *OpenAIEmbedder) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.client = nil
}
