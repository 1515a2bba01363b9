package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/vocabdeck/internal/batch"
	"codeberg.org/snonux/vocabdeck/internal/cli"
	"codeberg.org/snonux/vocabdeck/internal/models"
	"codeberg.org/snonux/vocabdeck/internal/processor"
	"codeberg.org/snonux/vocabdeck/internal/workspace"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd.Context(), flags)
	}

	// Execute command
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, flags *cli.Flags) error {
	cfg, err := cli.LoadConfig(flags)
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(cfg.Log.Level, os.Stderr)

	// Handle --archive flag
	if cfg.Archive {
		dest, err := workspace.ArchiveRuns(cfg.Output.Directory)
		if err != nil {
			return fmt.Errorf("failed to archive runs: %w", err)
		}
		logger.Info("runs archived", "path", dest)
		return nil
	}

	// Handle --list-models flag
	if cfg.ListModels {
		catalog, err := models.NewLister(cli.GetOpenAIKey(), "").List(ctx)
		if err != nil {
			return err
		}
		catalog.Print(os.Stdout)
		return nil
	}

	ws, err := workspace.New(cfg.Output.Directory, logger)
	if err != nil {
		return err
	}
	if cfg.Output.Retention > 0 {
		if _, err := ws.Prune(cfg.Output.Retention); err != nil {
			logger.Warn("failed to prune old runs", "error", err)
		}
	}

	proc, err := processor.NewFromConfig(cfg, ws, logger)
	if err != nil {
		return err
	}

	if cfg.BatchFile != "" {
		return runBatch(ctx, cfg, proc, logger)
	}
	return serve(ctx, cfg, proc, ws, logger)
}

func runBatch(ctx context.Context, cfg *cli.Config, proc *processor.Processor, logger *slog.Logger) error {
	entries, err := batch.ReadBatchFile(cfg.BatchFile)
	if err != nil {
		return err
	}

	result, err := proc.Process(ctx, entries)
	if err != nil {
		return err
	}

	if cfg.AnkiCSV {
		csvPath := filepath.Join(result.Dir, "flashcards.csv")
		if err := proc.ExportCSV(result, csvPath); err != nil {
			return fmt.Errorf("failed to export CSV: %w", err)
		}
		logger.Info("CSV export created", "path", csvPath)
	}

	logger.Info("deck created",
		"path", result.DeckPath,
		"cards", len(result.Cards),
		"fallbacks", result.FallbackCount())
	fmt.Println(result.DeckPath)
	return nil
}
