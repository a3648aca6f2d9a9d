// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nextgame/internal/retrieval"
)

// SnapshotRefresher rebuilds the corpus snapshot. *retrieval.SnapshotCache
// implements it.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) (*retrieval.Snapshot, error)
}

// CorpusRefreshConfig controls CorpusRefreshService.
type CorpusRefreshConfig struct {
	// WarmOnStartup builds the first snapshot before the first request.
	WarmOnStartup bool

	// Interval between refreshes. Zero disables periodic refresh.
	Interval time.Duration

	// Timeout bounds one refresh. Default: 2m
	Timeout time.Duration
}

// CorpusRefreshService keeps the corpus snapshot fresh. A failed refresh
// is logged and the previous snapshot keeps serving.
type CorpusRefreshService struct {
	refresher SnapshotRefresher
	config    CorpusRefreshConfig
	logger    zerolog.Logger
	name      string
}

// NewCorpusRefreshService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCorpusRefreshService(refresher SnapshotRefresher, cfg CorpusRefreshConfig, logger zerolog.Logger) *CorpusRefreshService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &CorpusRefreshService{
		refresher: refresher,
		config:    cfg,
		logger:    logger.With().Str("service", "corpus-refresh").Logger(),
		name:      "corpus-refresh",
	}
}

// Serve implements suture.Service.
func (s *CorpusRefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("warm_on_startup", s.config.WarmOnStartup).
		Dur("interval", s.config.Interval).
		Msg("corpus refresh service starting")

	if s.config.WarmOnStartup {
		s.refresh(ctx, "startup")
	}

	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("corpus refresh service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx, "scheduled")
		}
	}
}

func (s *CorpusRefreshService) refresh(ctx context.Context, trigger string) {
	refreshCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	snap, err := s.refresher.Refresh(refreshCtx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn().Err(err).Str("trigger", trigger).Msg("corpus refresh failed, keeping previous snapshot")
		return
	}

	s.logger.Info().
		Str("trigger", trigger).
		Uint64("version", snap.Version).
		Int("rows", snap.Corpus.Len()).
		Dur("duration", time.Since(start)).
		Msg("corpus snapshot refreshed")
}

func (s *CorpusRefreshService) String() string {
	return s.name
}
