// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package retrieval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nextgame/internal/embedding"
	"github.com/tomtom215/nextgame/internal/metrics"
	"github.com/tomtom215/nextgame/internal/similarity"
)

// Match is one similar game with its score and descriptive text.
type Match struct {
	AppID int64   `json:"appid"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// Engine answers similarity queries against a Store. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	config    *Config
	store     Store
	snapshots *SnapshotCache
	logger    zerolog.Logger
}

// NewEngine creates an engine over store. When cfg enables snapshots the
// engine owns a SnapshotCache, reachable through Snapshots.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(store Store, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger = logger.With().Str("component", "retrieval").Logger()
	e := &Engine{
		config: cfg,
		store:  store,
		logger: logger,
	}
	if cfg.Snapshot.Enabled {
		e.snapshots = NewSnapshotCache(store, cfg.Dim, cfg.Snapshot, logger)
	}
	return e, nil
}

// Snapshots returns the engine's snapshot cache, or nil when snapshots are
// disabled.
func (e *Engine) Snapshots() *SnapshotCache {
	return e.snapshots
}

// MaxTopN returns the configured result cap.
func (e *Engine) MaxTopN() int {
	return e.config.MaxTopN
}

// FindSimilar returns the descriptive texts of the topN games most similar
// to appid, best first. The target itself is never included.
func (e *Engine) FindSimilar(ctx context.Context, appid int64, topN int) ([]string, error) {
	start := time.Now()

	ranked, _, err := e.rank(ctx, appid, topN)
	if err != nil {
		metrics.RecordRetrieval("find_similar", time.Since(start), 0, failureReason(err))
		return nil, err
	}

	texts, err := e.texts(ctx, similarity.IDs(ranked))
	if err != nil {
		metrics.RecordRetrieval("find_similar", time.Since(start), 0, failureReason(err))
		return nil, err
	}
	result := similarity.ResolveTexts(similarity.IDs(ranked), texts, e.logger)

	metrics.RecordRetrieval("find_similar", time.Since(start), len(result), "")
	return result, nil
}

// Similar is FindSimilar returning scores and appids alongside the texts.
// The second return value is the version of the corpus that was ranked
// (0 when snapshots are disabled).
func (e *Engine) Similar(ctx context.Context, appid int64, topN int) ([]Match, uint64, error) {
	start := time.Now()

	ranked, version, err := e.rank(ctx, appid, topN)
	if err != nil {
		metrics.RecordRetrieval("similar", time.Since(start), 0, failureReason(err))
		return nil, 0, err
	}

	texts, err := e.texts(ctx, similarity.IDs(ranked))
	if err != nil {
		metrics.RecordRetrieval("similar", time.Since(start), 0, failureReason(err))
		return nil, 0, err
	}

	resolved := similarity.ResolveScored(ranked, texts, e.logger)
	matches := make([]Match, len(resolved))
	for i, r := range resolved {
		matches[i] = Match{AppID: r.ID, Score: r.Score, Text: r.Text}
	}

	metrics.RecordRetrieval("similar", time.Since(start), len(matches), "")
	return matches, version, nil
}

// CorpusVersion returns the version of the snapshot currently served, or 0
// when snapshots are disabled or not yet built.
func (e *Engine) CorpusVersion() uint64 {
	if e.snapshots == nil {
		return 0
	}
	if snap := e.snapshots.current.Load(); snap != nil {
		return snap.Version
	}
	return 0
}

func (e *Engine) rank(ctx context.Context, appid int64, topN int) ([]similarity.Scored, uint64, error) {
	if topN <= 0 {
		return nil, 0, fmt.Errorf("%w: got %d", ErrInvalidTopN, topN)
	}
	if topN > e.config.MaxTopN {
		topN = e.config.MaxTopN
	}

	query, err := e.queryVector(ctx, appid)
	if err != nil {
		return nil, 0, err
	}

	corpus, version, err := e.corpus(ctx)
	if err != nil {
		return nil, 0, err
	}

	ranked := similarity.Rank(query, appid, corpus, topN)
	if len(ranked) == 0 {
		e.logger.Debug().Int64("appid", appid).Msg("no similar games found")
	}
	return ranked, version, nil
}

func (e *Engine) queryVector(ctx context.Context, appid int64) ([]float32, error) {
	record, err := e.store.GetVector(ctx, appid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("appid %d: %w", appid, ErrNotFound)
		}
		return nil, fmt.Errorf("get vector for appid %d: %w", appid, err)
	}

	vec, err := embedding.Decode(record.Blob, e.config.Dim)
	if err != nil {
		return nil, fmt.Errorf("decode query vector for appid %d: %w", appid, err)
	}
	return vec, nil
}

func (e *Engine) corpus(ctx context.Context) (*similarity.Corpus, uint64, error) {
	if e.snapshots != nil {
		snap, err := e.snapshots.Get(ctx)
		if err != nil {
			return nil, 0, err
		}
		return snap.Corpus, snap.Version, nil
	}

	records, err := e.store.GetAllVectors(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load vectors: %w", err)
	}
	corpus, err := similarity.Load(records, e.config.Dim, e.logger)
	if err != nil {
		return nil, 0, err
	}
	return corpus, 0, nil
}

func (e *Engine) texts(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	texts, err := e.store.GetTexts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get texts: %w", err)
	}
	return texts, nil
}
