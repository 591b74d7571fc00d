// Package engine provides the model-facing half of the assistant: text
// generation against hosted LLM providers and the prompt templates that feed
// them. The memory side lives in package brain.
package engine

import (
	"context"

	"github.com/aithena-labs/aithena/config"
	"github.com/aithena-labs/aithena/errors"
)

type (
	// Role identifies the author of a conversation message.
	Role string

	// Message is a single turn in a conversation history.
	Message struct {
		Role Role   `json:"role"`
		Text string `json:"text"`
	}

	// Request carries everything a Generator needs for one completion.
	Request struct {
		System    string    `json:"system,omitempty"`
		Messages  []Message `json:"messages"`
		Model     string    `json:"model,omitempty"`
		MaxTokens int64     `json:"max_tokens,omitempty"`
	}

	// Response is the final, fully accumulated completion.
	Response struct {
		Text string `json:"text"`
	}

	// StreamFunc receives incremental text deltas during generation. It is
	// invoked from the streaming goroutine; implementations should be quick.
	StreamFunc func(delta string)

	// Generator produces assistant replies. Implementations stream deltas to
	// onDelta when it is non-nil and always return the accumulated response.
	Generator interface {
		Generate(ctx context.Context, req Request, onDelta StreamFunc) (*Response, error)
	}
)

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// NewGenerator builds a Generator from model configuration, selecting the
// provider by name.
func NewGenerator(cfg *config.ModelConfig) (Generator, error) {
	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "ANTHROPIC_API_KEY is required for the anthropic provider")
		}
		return NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.Model, int64(cfg.MaxTokens)), nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "OPENAI_API_KEY is required for the openai provider")
		}
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model, int64(cfg.MaxTokens)), nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "unknown model provider %q", cfg.Provider)
	}
}
