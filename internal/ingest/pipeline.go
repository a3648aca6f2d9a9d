// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nextgame/internal/database"
	"github.com/tomtom215/nextgame/internal/events"
	"github.com/tomtom215/nextgame/internal/metrics"
	"github.com/tomtom215/nextgame/internal/models"
)

const defaultBatchSize = 500

// Write conflicts are retried a bounded number of times with linear backoff.
const (
	maxUpsertAttempts = 3
	conflictBackoff   = 200 * time.Millisecond
)

var (
	// ErrNoSource is returned when no source path is configured.
	ErrNoSource = errors.New("ingest: no source file configured")

	// ErrNothingWritten is returned when every source row was skipped.
	ErrNothingWritten = errors.New("ingest: no valid rows in source")
)

// Store is the subset of *database.DB used by a run.
type Store interface {
	ScanSource(ctx context.Context, path string, fn func(database.SourceRow) error) (int, error)
	UpsertGames(ctx context.Context, games []models.Game) (int, error)
	Checkpoint(ctx context.Context) error
}

// Notifier announces a finished run. *events.Publisher implements it.
type Notifier interface {
	PublishCorpusChanged(ctx context.Context, e events.CorpusChanged) error
}

// Options configures a Pipeline.
type Options struct {
	Source    string
	BatchSize int
	Dim       int
	// DryRun normalizes and counts without writing or publishing.
	DryRun bool
}

// Pipeline runs one ingest.
type Pipeline struct {
	store      Store
	notifier   Notifier
	normalizer *Normalizer
	opts       Options
	backoff    time.Duration
	logger     zerolog.Logger
}

// NewPipeline creates a pipeline. notifier may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPipeline(store Store, notifier Notifier, opts Options, logger zerolog.Logger) *Pipeline {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	return &Pipeline{
		store:      store,
		notifier:   notifier,
		normalizer: NewNormalizer(opts.Dim),
		opts:       opts,
		backoff:    conflictBackoff,
		logger:     logger.With().Str("component", "ingest").Logger(),
	}
}

// Run scans the source, upserts valid rows in batches, checkpoints and
// publishes a CorpusChanged signal. A publish failure is logged but does
// not fail the run: the rows are already committed.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	if p.opts.Source == "" {
		return nil, ErrNoSource
	}

	stats := &Stats{Source: p.opts.Source, DryRun: p.opts.DryRun, StartTime: time.Now()}
	defer func() { stats.EndTime = time.Now() }()

	p.logger.Info().Str("source", p.opts.Source).Int("batch_size", p.opts.BatchSize).Bool("dry_run", p.opts.DryRun).Msg("Starting ingest")

	batch := make([]models.Game, 0, p.opts.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if p.opts.DryRun {
			stats.Written += len(batch)
		} else {
			written, err := p.upsert(ctx, batch, stats)
			if err != nil {
				return fmt.Errorf("upsert batch %d: %w", stats.Batches+1, err)
			}
			stats.Written += written
		}
		stats.Batches++
		batch = batch[:0]

		p.logger.Debug().Int("batch", stats.Batches).Int("scanned", stats.Scanned).Int("written", stats.Written).Int("skipped", stats.Skipped).Msg("Ingest progress")
		return nil
	}

	_, err := p.store.ScanSource(ctx, p.opts.Source, func(row database.SourceRow) error {
		stats.Scanned++
		game, err := p.normalizer.Game(row)
		if err != nil {
			stats.Skipped++
			p.logger.Warn().Err(err).Int("row", stats.Scanned).Msg("Skipping source row")
			return nil
		}
		batch = append(batch, game)
		if len(batch) >= p.opts.BatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("scan %s: %w", p.opts.Source, err)
	}
	if err := flush(); err != nil {
		return stats, err
	}

	metrics.RecordIngestRows(stats.Written, stats.Skipped)

	if stats.Written == 0 {
		return stats, fmt.Errorf("%w: %d rows scanned, %d skipped", ErrNothingWritten, stats.Scanned, stats.Skipped)
	}

	if !p.opts.DryRun {
		if err := p.store.Checkpoint(ctx); err != nil {
			return stats, fmt.Errorf("checkpoint: %w", err)
		}
		p.publish(ctx, stats)
	}

	p.logger.Info().
		Int("scanned", stats.Scanned).
		Int("written", stats.Written).
		Int("skipped", stats.Skipped).
		Int("batches", stats.Batches).
		Int("retries", stats.Retries).
		Bool("published", stats.Published).
		Dur("duration", stats.Duration()).
		Float64("rows_per_second", stats.RowsPerSecond()).
		Msg("Ingest completed")

	return stats, nil
}

// upsert writes one batch, retrying when another writer held the rows.
func (p *Pipeline) upsert(ctx context.Context, batch []models.Game, stats *Stats) (int, error) {
	for attempt := 1; ; attempt++ {
		written, err := p.store.UpsertGames(ctx, batch)
		if err == nil || !errors.Is(err, database.ErrWriteConflict) || attempt == maxUpsertAttempts {
			return written, err
		}
		stats.Retries++
		p.logger.Warn().Err(err).Int("attempt", attempt).Msg("Write conflict, retrying batch")

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Duration(attempt) * p.backoff):
		}
	}
}

func (p *Pipeline) publish(ctx context.Context, stats *Stats) {
	if p.notifier == nil {
		return
	}
	err := p.notifier.PublishCorpusChanged(ctx, events.CorpusChanged{
		Source:  stats.Source,
		Rows:    stats.Written,
		Skipped: stats.Skipped,
		At:      time.Now().UTC(),
	})
	if err != nil {
		p.logger.Warn().Err(err).Msg("Failed to publish corpus change; servers pick it up on the next snapshot refresh")
		return
	}
	stats.Published = true
}
