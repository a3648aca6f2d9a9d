// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nextgame/internal/events"
)

// CorpusEventSource delivers corpus-changed signals. *events.Subscriber
// implements it.
type CorpusEventSource interface {
	Run(ctx context.Context, handler events.CorpusChangedHandler) error
}

// CorpusChangeHook reacts to a new corpus, e.g. by invalidating a cache.
type CorpusChangeHook func(ctx context.Context, e *events.CorpusChanged)

// CorpusEventService runs every hook, in order, for each signal.
type CorpusEventService struct {
	source CorpusEventSource
	hooks  []CorpusChangeHook
	logger zerolog.Logger
	name   string
}

// NewCorpusEventService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCorpusEventService(source CorpusEventSource, logger zerolog.Logger, hooks ...CorpusChangeHook) *CorpusEventService {
	return &CorpusEventService{
		source: source,
		hooks:  hooks,
		logger: logger.With().Str("service", "corpus-events").Logger(),
		name:   "corpus-events",
	}
}

// Serve implements suture.Service. It returns when the source stops.
func (s *CorpusEventService) Serve(ctx context.Context) error {
	s.logger.Info().Int("hooks", len(s.hooks)).Msg("corpus event service starting")
	return s.source.Run(ctx, s.handle)
}

func (s *CorpusEventService) handle(ctx context.Context, e *events.CorpusChanged) error {
	s.logger.Info().
		Str("event_id", e.EventID).
		Str("source", e.Source).
		Int("rows", e.Rows).
		Int("skipped", e.Skipped).
		Time("at", e.At).
		Msg("corpus changed")

	for _, hook := range s.hooks {
		hook(ctx, e)
	}
	return nil
}

func (s *CorpusEventService) String() string {
	return s.name
}
