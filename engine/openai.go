package engine

import (
	"context"

	"github.com/aithena-labs/aithena/errors"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIGenerator streams completions from the OpenAI Chat Completions API.
// With a base URL override it talks to any OpenAI-compatible server, which is
// how a local llama.cpp or Ollama instance plugs in.
type OpenAIGenerator struct {
	client    *openai.Client
	model     string
	maxTokens int64
}

var _ Generator = (*OpenAIGenerator)(nil)

func NewOpenAIGenerator(apiKey, baseURL, model string, maxTokens int64) *OpenAIGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &OpenAIGenerator{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request, onDelta StreamFunc) (*Response, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.maxTokens
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Text))
		default:
			messages = append(messages, openai.UserMessage(msg.Text))
		}
	}

	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               model,
		MaxCompletionTokens: openai.Int(maxTokens),
	}

	stream := g.client.Chat.Completions.NewStreaming(ctx, params)
	acc := openai.ChatCompletionAccumulator{}
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" && onDelta != nil {
				onDelta(choice.Delta.Content)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, errors.Wrapf(err, "openai streaming failed")
	}

	var text string
	if len(acc.Choices) > 0 {
		text = acc.Choices[0].Message.Content
	}
	return &Response{Text: text}, nil
}
