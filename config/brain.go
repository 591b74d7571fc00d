package config

import (
	"os"
	"path/filepath"
)

type BrainConfig struct {
	// SqlitePath is the location of the memory database. Empty selects the
	// ephemeral in-memory store (nothing survives a restart).
	SqlitePath string

	// EmbeddingModel is the embedding model name served by the
	// OpenAI-compatible endpoint at EmbeddingBaseURL.
	EmbeddingModel   string
	EmbeddingBaseURL string
	EmbeddingAPIKey  string

	// RecallTopK is the default number of memories recalled per chat turn.
	RecallTopK int

	// RecallMinScore drops recalled memories scoring below this similarity
	// before they reach the prompt.
	RecallMinScore float64

	// ChunkSize and ChunkOverlap drive document ingestion. Overlap is a
	// hint: chunks are re-seeded with overlap/10 trailing words.
	ChunkSize    int
	ChunkOverlap int
}

func NewBrainConfig() *BrainConfig {
	return &BrainConfig{
		SqlitePath:       envString("AITHENA_BRAIN_PATH", defaultBrainPath()),
		EmbeddingModel:   envString("AITHENA_EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingBaseURL: envString("AITHENA_EMBEDDING_BASE_URL", ""),
		EmbeddingAPIKey:  envString("AITHENA_EMBEDDING_API_KEY", envString("OPENAI_API_KEY", "")),
		RecallTopK:       envInt("AITHENA_RECALL_TOP_K", 3),
		RecallMinScore:   0.3,
		ChunkSize:        envInt("AITHENA_CHUNK_SIZE", 500),
		ChunkOverlap:     envInt("AITHENA_CHUNK_OVERLAP", 50),
	}
}

func defaultBrainPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "aithena.db"
	}
	return filepath.Join(home, ".aithena", "brain.db")
}
