package engine

import (
	"context"

	"github.com/aithena-labs/aithena/errors"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-20250514"

// AnthropicGenerator streams completions from the Anthropic Messages API.
type AnthropicGenerator struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

var _ Generator = (*AnthropicGenerator)(nil)

func NewAnthropicGenerator(apiKey, model string, maxTokens int64) *AnthropicGenerator {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	if model == "" {
		model = defaultAnthropicModel
	}
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &AnthropicGenerator{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
	}
}

func (g *AnthropicGenerator) Generate(ctx context.Context, req Request, onDelta StreamFunc) (*Response, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.maxTokens
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Text)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Text)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  messages,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.System},
		}
	}

	stream := g.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	message := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := message.Accumulate(event); err != nil {
			return nil, errors.Wrapf(err, "failed to accumulate anthropic stream event")
		}

		switch evt := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch delta := evt.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if onDelta != nil {
					onDelta(delta.Text)
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, errors.Wrapf(err, "anthropic streaming failed")
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return &Response{Text: text}, nil
}
