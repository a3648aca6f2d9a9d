// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package api

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/nextgame/internal/cache"
	"github.com/tomtom215/nextgame/internal/config"
	"github.com/tomtom215/nextgame/internal/curator"
	"github.com/tomtom215/nextgame/internal/events"
	"github.com/tomtom215/nextgame/internal/logging"
	"github.com/tomtom215/nextgame/internal/metrics"
	"github.com/tomtom215/nextgame/internal/models"
	"github.com/tomtom215/nextgame/internal/retrieval"
)

// GameStore is the part of *database.DB the handlers read from. Name
// lookups must return an error matching database.ErrGameNotFound when
// nothing matches.
type GameStore interface {
	GetAppIDByName(ctx context.Context, name string) (int64, error)
	SearchByNamePrefix(ctx context.Context, prefix string, limit int) ([]models.GameSummary, error)
	Ping(ctx context.Context) error
}

// Retriever is the similarity engine. *retrieval.Engine implements it.
type Retriever interface {
	FindSimilar(ctx context.Context, appid int64, topN int) ([]string, error)
	Similar(ctx context.Context, appid int64, topN int) ([]retrieval.Match, uint64, error)
	CorpusVersion() uint64
}

// SnapshotReporter exposes the corpus snapshot state for readiness checks.
type SnapshotReporter interface {
	Status() retrieval.SnapshotStatus
}

// searchKey identifies one cached prefix search.
type searchKey struct {
	prefix string
	limit  int
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_games.go: search and similar
//   - handlers_recommend.go: curated recommendations
//   - handlers_legacy.go: original /search/ and /recommend/ shapes
//   - handlers_health.go: liveness and readiness
type Handler struct {
	games       GameStore
	retriever   Retriever
	curator     curator.Curator
	snapshots   SnapshotReporter
	searchCache *cache.LRU[searchKey, []models.GameSummary]
	topN        int
	startTime   time.Time
}

// NewHandler creates the API handler. A nil curator behaves like
// curator.Disabled.
//
// Example:
//
//	handler := api.NewHandler(db, engine, cur, cfg)
//	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security), cfg.Server.StaticDir)
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(games GameStore, retriever Retriever, cur curator.Curator, cfg *config.Config) *Handler {
	if cur == nil {
		cur = curator.Disabled{}
	}
	topN := cfg.Retrieval.TopN
	if topN <= 0 {
		topN = 20
	}
	return &Handler{
		games:       games,
		retriever:   retriever,
		curator:     cur,
		searchCache: cache.NewLRU[searchKey, []models.GameSummary](cfg.Cache.SearchSize, cfg.Cache.SearchTTL),
		topN:        topN,
		startTime:   time.Now(),
	}
}

// SetSnapshotReporter enables snapshot state in readiness checks. Leave it
// unset when snapshots are disabled.
func (h *Handler) SetSnapshotReporter(r SnapshotReporter) {
	h.snapshots = r
}

// ClearSearchCache drops every cached search result.
func (h *Handler) ClearSearchCache() {
	h.searchCache.Clear()
}

// OnCorpusChanged clears the search cache after an ingest run. It matches
// the corpus event hook signature used by the supervisor.
func (h *Handler) OnCorpusChanged(_ context.Context, e *events.CorpusChanged) {
	h.ClearSearchCache()
	logging.Info().Str("source", e.Source).Msg("Search cache cleared after corpus change")
}

// search runs a cached, case-insensitive name prefix search.
func (h *Handler) search(ctx context.Context, query string, limit int) ([]models.GameSummary, bool, error) {
	prefix := strings.TrimSpace(query)
	if prefix == "" {
		return []models.GameSummary{}, false, nil
	}

	key := searchKey{prefix: strings.ToLower(prefix), limit: limit}
	if games, ok := h.searchCache.Get(key); ok {
		metrics.RecordCacheLookup("search", true)
		return games, true, nil
	}
	metrics.RecordCacheLookup("search", false)

	games, err := h.games.SearchByNamePrefix(ctx, prefix, limit)
	if err != nil {
		return nil, false, err
	}
	h.searchCache.Add(key, games)
	return games, false, nil
}
