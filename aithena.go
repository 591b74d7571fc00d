// Package aithena wires the brain memory engine and a generative model into a
// single assistant that recalls what it has been told and answers in persona.
package aithena

import (
	"context"
	"log/slog"

	"github.com/aithena-labs/aithena/brain"
	"github.com/aithena-labs/aithena/config"
	"github.com/aithena-labs/aithena/engine"
	"github.com/aithena-labs/aithena/entity"
	"github.com/aithena-labs/aithena/errors"
	"github.com/aithena-labs/aithena/internal/mylog"
	"github.com/samber/lo"
)

type (
	Assistant struct {
		persona   entity.Persona
		generator engine.Generator
		brain     *brain.Engine
		logger    *slog.Logger

		recallTopK     int
		recallMinScore float64
		maxHistory     int

		modelConfig *config.ModelConfig
		brainConfig *config.BrainConfig
		logConfig   *config.LogConfig
	}
	Option func(*Assistant)

	// ChatRequest is one user turn plus the prior conversation.
	ChatRequest struct {
		Message string           `json:"message"`
		History []engine.Message `json:"history,omitempty"`
	}

	// ChatResponse is the assistant's reply and the memories that informed it.
	ChatResponse struct {
		Text     string               `json:"text"`
		Memories []brain.RecallResult `json:"memories,omitempty"`
	}
)

func NewAssistant(ctx context.Context, optionFuncs ...Option) (*Assistant, error) {
	a := &Assistant{
		persona:     entity.DefaultPersona,
		modelConfig: config.NewModelConfig(),
		brainConfig: config.NewBrainConfig(),
		logConfig:   config.NewLogConfig(),
	}
	for _, f := range optionFuncs {
		f(a)
	}

	if a.logger == nil {
		a.logger = mylog.NewLogger(a.logConfig.LogLevel, a.logConfig.LogHandler)
	}
	if a.recallTopK <= 0 {
		a.recallTopK = a.brainConfig.RecallTopK
	}
	if a.recallMinScore == 0 {
		a.recallMinScore = a.brainConfig.RecallMinScore
	}
	if a.maxHistory <= 0 {
		a.maxHistory = 20
	}

	if a.generator == nil {
		generator, err := engine.NewGenerator(a.modelConfig)
		if err != nil {
			return nil, err
		}
		a.generator = generator
	}

	if a.brain == nil {
		store, err := brain.NewSQLiteStore(a.brainConfig.SqlitePath)
		if err != nil {
			return nil, err
		}
		embedder := brain.NewOpenAIEmbedder(
			a.brainConfig.EmbeddingModel,
			a.brainConfig.EmbeddingBaseURL,
			a.brainConfig.EmbeddingAPIKey,
		)
		a.brain = brain.NewEngine(store, embedder,
			brain.WithLogger(a.logger),
			brain.WithChunking(a.brainConfig.ChunkSize, a.brainConfig.ChunkOverlap),
		)
	}

	if err := a.brain.Init(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to initialize brain")
	}

	return a, nil
}

func (a *Assistant) Persona() entity.Persona {
	return a.persona
}

// Greeting returns the persona's opening line for a fresh conversation.
func (a *Assistant) Greeting() string {
	if a.persona.Greeting != "" {
		return a.persona.Greeting
	}
	return "Hello! What would you like to talk about?"
}

// Brain exposes the underlying memory engine, mainly for status subscriptions
// and direct memory management.
func (a *Assistant) Brain() *brain.Engine {
	return a.brain
}

// Chat answers one user turn. Relevant memories are recalled and injected into
// the system prompt; deltas stream to onDelta when it is non-nil. A recall
// failure degrades to memory-free generation rather than failing the turn.
func (a *Assistant) Chat(ctx context.Context, req ChatRequest, onDelta engine.StreamFunc) (*ChatResponse, error) {
	memories, err := a.brain.Recall(ctx, req.Message, a.recallTopK)
	if err != nil {
		a.logger.Warn("memory recall failed, answering without memories", "error", err)
		memories = nil
	}
	memories = lo.Filter(memories, func(r brain.RecallResult, _ int) bool {
		return r.Score >= a.recallMinScore
	})

	system, err := engine.RenderSystemPrompt(engine.ChatPromptValues{
		Persona:  a.persona,
		Memories: memories,
	})
	if err != nil {
		return nil, err
	}

	history := req.History
	if len(history) > a.maxHistory {
		history = history[len(history)-a.maxHistory:]
	}
	messages := make([]engine.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, engine.Message{Role: engine.RoleUser, Text: req.Message})

	res, err := a.generator.Generate(ctx, engine.Request{
		System:   system,
		Messages: messages,
	}, onDelta)
	if err != nil {
		return nil, errors.Wrapf(err, "generation failed")
	}

	return &ChatResponse{
		Text:     res.Text,
		Memories: memories,
	}, nil
}

// Remember stores one memory verbatim.
func (a *Assistant) Remember(ctx context.Context, text string) (*brain.MemoryRecord, error) {
	return a.brain.Add(ctx, text, brain.SourceManual)
}

// RememberDocument chunks a document and stores every chunk.
func (a *Assistant) RememberDocument(ctx context.Context, filename string, data []byte) ([]*brain.MemoryRecord, error) {
	return a.brain.IngestDocument(ctx, filename, data)
}

// RecallMemories runs a raw similarity search without generation.
func (a *Assistant) RecallMemories(ctx context.Context, query string, k int) ([]brain.RecallResult, error) {
	return a.brain.Recall(ctx, query, k)
}

// ForgetAll wipes every stored memory.
func (a *Assistant) ForgetAll(ctx context.Context) error {
	return a.brain.Clear(ctx)
}

func (a *Assistant) Close() error {
	return a.brain.Close()
}

func WithPersona(persona entity.Persona) Option {
	return func(a *Assistant) {
		a.persona = persona
	}
}

func WithGenerator(generator engine.Generator) Option {
	return func(a *Assistant) {
		a.generator = generator
	}
}

func WithBrain(engine *brain.Engine) Option {
	return func(a *Assistant) {
		a.brain = engine
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

func WithModelConfig(cfg *config.ModelConfig) Option {
	return func(a *Assistant) {
		a.modelConfig = cfg
	}
}

func WithBrainConfig(cfg *config.BrainConfig) Option {
	return func(a *Assistant) {
		a.brainConfig = cfg
	}
}

func WithRecallTopK(k int) Option {
	return func(a *Assistant) {
		a.recallTopK = k
	}
}

func WithRecallMinScore(score float64) Option {
	return func(a *Assistant) {
		a.recallMinScore = score
	}
}

func WithMaxHistory(n int) Option {
	return func(a *Assistant) {
		a.maxHistory = n
	}
}
