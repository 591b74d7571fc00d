package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newIngestCmd(params *rootParams) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Chunk documents and store every chunk as a memory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			assistant, logger, cleanup, err := newAssistant(ctx, params)
			if err != nil {
				return err
			}
			defer cleanup()

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return errors.Wrapf(err, "failed to read %s", path)
				}
				records, err := assistant.RememberDocument(ctx, filepath.Base(path), data)
				if err != nil {
					return errors.Wrapf(err, "failed to ingest %s", path)
				}
				logger.Info("document ingested", "file", path, "chunks", len(records))
			}
			return nil
		},
	}
}

func newRecallCmd(params *rootParams) *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "recall <query>",
		Short: "Search memories by similarity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			assistant, _, cleanup, err := newAssistant(ctx, params)
			if err != nil {
				return err
			}
			defer cleanup()

			results, err := assistant.RecallMemories(ctx, args[0], k)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("no memories found")
				return nil
			}
			for _, r := range results {
				fmt.Printf("%.3f\t#%d\t%s\t(%s)\n", r.Score, r.Record.ID, r.Record.Text, r.Record.Source)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "top", "k", 0, "Number of results (0 uses the default)")

	return cmd
}

func newClearCmd(params *rootParams) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !yes {
				return errors.New("refusing to clear without --yes")
			}

			assistant, logger, cleanup, err := newAssistant(ctx, params)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := assistant.ForgetAll(ctx); err != nil {
				return err
			}
			logger.Info("all memories cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")

	return cmd
}
