// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

// Package main is the nextgame-ingest command. It loads a games source file
// into DuckDB and announces the new corpus to running servers.
//
// Usage:
//
//	nextgame-ingest --source games.parquet [--batch-size 500] [--dry-run] [--no-publish]
//
// Settings not given as flags come from the same configuration as the
// server (config.yaml, DUCKDB_PATH, INGEST_SOURCE, NATS_*).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/nextgame/internal/config"
	"github.com/tomtom215/nextgame/internal/database"
	"github.com/tomtom215/nextgame/internal/events"
	"github.com/tomtom215/nextgame/internal/ingest"
	"github.com/tomtom215/nextgame/internal/logging"
)

// Exit codes
const (
	exitOK          = 0
	exitFailed      = 1
	exitNothingUsed = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ingest.ErrNothingWritten):
		return exitNothingUsed
	default:
		return exitFailed
	}
}

type ingestFlags struct {
	source    string
	batchSize int
	dryRun    bool
	noPublish bool
}

func newRootCmd() *cobra.Command {
	var flags ingestFlags

	cmd := &cobra.Command{
		Use:           "nextgame-ingest",
		Short:         "Load a games source file into the NextGame database",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			applyFlags(cfg, cmd, flags)

			logging.Init(logging.Config{
				Level:   cfg.Logging.Level,
				Format:  cfg.Logging.Format,
				Caller:  cfg.Logging.Caller,
				Service: "nextgame-ingest",
			})

			if err := run(cmd.Context(), cfg, flags.dryRun); err != nil {
				logging.Error().Err(err).Msg("Ingest failed")
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.source, "source", "", "Source file (.parquet, .json, .jsonl, .csv); overrides INGEST_SOURCE")
	cmd.Flags().IntVar(&flags.batchSize, "batch-size", 0, "Rows per upsert batch; overrides INGEST_BATCH_SIZE")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Normalize and count rows without writing")
	cmd.Flags().BoolVar(&flags.noPublish, "no-publish", false, "Do not publish a corpus change event")

	return cmd
}

// applyFlags overrides configuration with flags the user actually set.
func applyFlags(cfg *config.Config, cmd *cobra.Command, flags ingestFlags) {
	if cmd.Flags().Changed("source") {
		cfg.Ingest.Source = flags.source
	}
	if cmd.Flags().Changed("batch-size") && flags.batchSize > 0 {
		cfg.Ingest.BatchSize = flags.batchSize
	}
	if flags.noPublish {
		cfg.Ingest.Publish = false
	}
}

func run(ctx context.Context, cfg *config.Config, dryRun bool) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	var notifier ingest.Notifier
	if cfg.NATS.Enabled && cfg.Ingest.Publish && !dryRun {
		pub, err := events.NewPublisher(&cfg.NATS, logging.NewWatermillAdapter(logging.Logger()))
		if err != nil {
			// Rows are still written; servers catch up on their next snapshot refresh.
			logging.Warn().Err(err).Str("url", cfg.NATS.URL).Msg("NATS publisher unavailable, corpus change will not be announced")
		} else {
			defer func() {
				if err := pub.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing NATS publisher")
				}
			}()
			notifier = pub
		}
	}

	pipeline := ingest.NewPipeline(db, notifier, ingest.Options{
		Source:    cfg.Ingest.Source,
		BatchSize: cfg.Ingest.BatchSize,
		Dim:       cfg.Retrieval.EmbeddingDim,
		DryRun:    dryRun,
	}, logging.Logger())

	stats, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	if dryRun {
		logging.Info().Int("valid", stats.Written).Int("skipped", stats.Skipped).Msg("Dry run finished, nothing written")
	}
	return nil
}
