package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aithena-labs/aithena"
	"github.com/aithena-labs/aithena/brain"
	"github.com/aithena-labs/aithena/config"
	"github.com/aithena-labs/aithena/entity"
	"github.com/aithena-labs/aithena/internal/mylog"
	"github.com/aithena-labs/aithena/internal/mytrace"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type rootParams struct {
	PersonaFile string
	BrainPath   string
	Ephemeral   bool
	Verbose     bool
}

func newRootCmd() *cobra.Command {
	params := &rootParams{}

	cmd := &cobra.Command{
		Use:          "aithena",
		Short:        "A private assistant that remembers what you tell it",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&params.PersonaFile, "persona", "", "Path to a persona card (yaml)")
	cmd.PersistentFlags().StringVar(&params.BrainPath, "brain", "", "Path to the memory database (overrides AITHENA_BRAIN_PATH)")
	cmd.PersistentFlags().BoolVar(&params.Ephemeral, "ephemeral", false, "Keep memories in RAM only; nothing survives exit")
	cmd.PersistentFlags().BoolVarP(&params.Verbose, "verbose", "v", false, "Debug logging")

	cmd.AddCommand(
		newServeCmd(params),
		newIngestCmd(params),
		newRecallCmd(params),
		newClearCmd(params),
	)

	return cmd
}

// newAssistant builds the full stack from env config plus CLI flags and
// initializes the brain, logging its lifecycle as it comes up.
func newAssistant(ctx context.Context, params *rootParams) (*aithena.Assistant, *slog.Logger, func(), error) {
	logConfig := config.NewLogConfig()
	if params.Verbose {
		logConfig.LogLevel = "debug"
	}
	logger := mylog.NewLogger(logConfig.LogLevel, logConfig.LogHandler)

	tp := mytrace.Init(logger, params.Verbose)

	brainConfig := config.NewBrainConfig()
	if params.BrainPath != "" {
		brainConfig.SqlitePath = params.BrainPath
	}
	if params.Ephemeral {
		brainConfig.SqlitePath = ""
	}

	var (
		store brain.Store
		err   error
	)
	if brainConfig.SqlitePath == "" {
		logger.Info("using ephemeral in-memory brain")
		store = brain.NewInMemoryStore()
	} else {
		store, err = brain.NewSQLiteStore(brainConfig.SqlitePath)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "failed to open memory store at %s", brainConfig.SqlitePath)
		}
	}

	embedder := brain.NewOpenAIEmbedder(
		brainConfig.EmbeddingModel,
		brainConfig.EmbeddingBaseURL,
		brainConfig.EmbeddingAPIKey,
	)
	memoryEngine := brain.NewEngine(store, embedder,
		brain.WithLogger(logger),
		brain.WithChunking(brainConfig.ChunkSize, brainConfig.ChunkOverlap),
	)

	unsubscribe := memoryEngine.Subscribe(brain.Events{
		Status: func(text string) {
			logger.Info(text)
		},
		Progress: func(p brain.ModelProgress) {
			logger.Debug("model progress", "status", p.Status, "percent", p.Percent, "file", p.File)
		},
		Error: func(err error) {
			logger.Error("brain failed", "error", err)
		},
		Ready: func(count int64) {
			logger.Info("brain ready", "memories", count)
		},
		CountChanged: func(count int64) {
			logger.Debug("memory count changed", "count", count)
		},
	})

	assistantOpts := []aithena.Option{
		aithena.WithBrain(memoryEngine),
		aithena.WithBrainConfig(brainConfig),
		aithena.WithLogger(logger),
	}
	if params.PersonaFile != "" {
		persona, err := entity.LoadPersona(params.PersonaFile)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "failed to load persona from %s", params.PersonaFile)
		}
		assistantOpts = append(assistantOpts, aithena.WithPersona(*persona))
	}

	assistant, err := aithena.NewAssistant(ctx, assistantOpts...)
	if err != nil {
		unsubscribe()
		return nil, nil, nil, err
	}

	cleanup := func() {
		unsubscribe()
		if err := assistant.Close(); err != nil {
			logger.Error("failed to close assistant", "error", err)
		}
		if err := tp.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("failed to shutdown tracer provider", "error", err)
		}
	}
	return assistant, logger, cleanup, nil
}

func Execute(ctx context.Context) {
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}
