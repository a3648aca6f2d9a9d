// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package retrieval

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nextgame/internal/metrics"
	"github.com/tomtom215/nextgame/internal/similarity"
)

// Snapshot is an immutable corpus together with its version.
type Snapshot struct {
	Version uint64
	BuiltAt time.Time
	Corpus  *similarity.Corpus

	// generation is the invalidation count observed when the build began.
	generation uint64
}

// SnapshotStatus describes the cache for health and admin endpoints.
type SnapshotStatus struct {
	Version  uint64    `json:"version"`
	BuiltAt  time.Time `json:"built_at,omitempty"`
	Rows     int       `json:"rows"`
	Skipped  int       `json:"skipped"`
	Stale    bool      `json:"stale"`
	Building bool      `json:"building"`
	Ready    bool      `json:"ready"`
}

// build is one in-flight rebuild shared by every caller that asked for it.
type build struct {
	done chan struct{}
	snap *Snapshot
	err  error
}

// SnapshotCache holds the current corpus snapshot. It is safe for
// concurrent use.
type SnapshotCache struct {
	store        Store
	dim          int
	maxAge       time.Duration
	buildTimeout time.Duration
	logger       zerolog.Logger
	now          func() time.Time

	current     atomic.Pointer[Snapshot]
	generation  atomic.Uint64
	lastVersion atomic.Uint64

	mu       sync.Mutex
	inflight *build
}

// NewSnapshotCache creates an empty cache. The first Get builds the
// initial snapshot.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSnapshotCache(store Store, dim int, cfg SnapshotConfig, logger zerolog.Logger) *SnapshotCache {
	timeout := cfg.BuildTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().Snapshot.BuildTimeout
	}
	return &SnapshotCache{
		store:        store,
		dim:          dim,
		maxAge:       cfg.MaxAge,
		buildTimeout: timeout,
		logger:       logger.With().Str("component", "corpus_snapshot").Logger(),
		now:          time.Now,
	}
}

// Get returns the current snapshot. With no snapshot yet it waits for the
// first build. A stale or expired snapshot is returned immediately while a
// rebuild is started in the background.
func (c *SnapshotCache) Get(ctx context.Context) (*Snapshot, error) {
	snap := c.current.Load()
	if snap == nil {
		return c.wait(ctx, c.begin())
	}
	if c.isStale(snap) {
		c.begin()
	}
	return snap, nil
}

// Refresh rebuilds the snapshot and waits for the result. If a rebuild that
// started before the latest invalidation is in flight, Refresh waits for it
// and then rebuilds again.
func (c *SnapshotCache) Refresh(ctx context.Context) (*Snapshot, error) {
	for {
		gen := c.generation.Load()
		snap, err := c.wait(ctx, c.begin())
		if err != nil {
			return nil, err
		}
		if snap.generation >= gen {
			return snap, nil
		}
	}
}

// Invalidate marks the current snapshot stale. Readers keep receiving it
// until the background rebuild completes.
func (c *SnapshotCache) Invalidate() {
	c.generation.Add(1)
	c.logger.Debug().Msg("corpus snapshot invalidated")
}

// Status reports the cache state.
func (c *SnapshotCache) Status() SnapshotStatus {
	c.mu.Lock()
	building := c.inflight != nil
	c.mu.Unlock()

	status := SnapshotStatus{Building: building}
	if snap := c.current.Load(); snap != nil {
		status.Ready = true
		status.Version = snap.Version
		status.BuiltAt = snap.BuiltAt
		status.Rows = snap.Corpus.Len()
		status.Skipped = snap.Corpus.Skipped()
		status.Stale = c.isStale(snap)
	}
	return status
}

func (c *SnapshotCache) isStale(snap *Snapshot) bool {
	if snap.generation != c.generation.Load() {
		return true
	}
	return c.maxAge > 0 && c.now().Sub(snap.BuiltAt) > c.maxAge
}

// begin returns the in-flight build, starting one if none is running.
func (c *SnapshotCache) begin() *build {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight != nil {
		return c.inflight
	}
	b := &build{done: make(chan struct{})}
	c.inflight = b
	go c.run(b)
	return b
}

func (c *SnapshotCache) wait(ctx context.Context, b *build) (*Snapshot, error) {
	select {
	case <-b.done:
		return b.snap, b.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// run performs one rebuild. It is detached from any request context so a
// cancelled caller does not abort a build other callers are waiting on.
func (c *SnapshotCache) run(b *build) {
	start := time.Now()
	gen := c.generation.Load()

	ctx, cancel := context.WithTimeout(context.Background(), c.buildTimeout)
	defer cancel()

	snap, err := c.load(ctx, gen)
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordSnapshotRebuild(elapsed, 0, 0, 0, err)
		if prev := c.current.Load(); prev != nil {
			c.logger.Warn().Err(err).Uint64("serving_version", prev.Version).Msg("corpus rebuild failed, keeping previous snapshot")
		} else {
			c.logger.Error().Err(err).Msg("initial corpus build failed")
		}
	} else {
		c.current.Store(snap)
		metrics.RecordSnapshotRebuild(elapsed, snap.Version, snap.Corpus.Len(), snap.Corpus.Skipped(), nil)
		c.logger.Info().
			Uint64("version", snap.Version).
			Int("rows", snap.Corpus.Len()).
			Int("skipped", snap.Corpus.Skipped()).
			Dur("duration", elapsed).
			Msg("corpus snapshot built")
	}

	c.mu.Lock()
	b.snap, b.err = snap, err
	c.inflight = nil
	c.mu.Unlock()
	close(b.done)
}

func (c *SnapshotCache) load(ctx context.Context, gen uint64) (*Snapshot, error) {
	records, err := c.store.GetAllVectors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vectors: %w", err)
	}
	corpus, err := similarity.Load(records, c.dim, c.logger)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Version:    c.lastVersion.Add(1),
		BuiltAt:    c.now(),
		Corpus:     corpus,
		generation: gen,
	}, nil
}
