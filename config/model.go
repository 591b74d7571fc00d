package config

type ModelConfig struct {
	// Provider selects the generative backend: "anthropic" or "openai".
	// The "openai" provider accepts any OpenAI-compatible endpoint, which is
	// how a fully local llama.cpp or Ollama server is wired in.
	Provider string

	// Model is the generative model name, e.g. "claude-sonnet-4-20250514"
	// or "gemma-2-2b-it" on a local server.
	Model string

	AnthropicAPIKey string
	OpenAIAPIKey    string

	// OpenAIBaseURL overrides the OpenAI endpoint. Point it at
	// http://localhost:8080/v1 for offline inference.
	OpenAIBaseURL string

	MaxTokens int
}

func NewModelConfig() *ModelConfig {
	return &ModelConfig{
		Provider:        envString("AITHENA_PROVIDER", "anthropic"),
		Model:           envString("AITHENA_MODEL", ""),
		AnthropicAPIKey: envString("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    envString("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   envString("OPENAI_BASE_URL", ""),
		MaxTokens:       envInt("AITHENA_MAX_TOKENS", 2048),
	}
}
