// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package curator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/nextgame/internal/config"
	"github.com/tomtom215/nextgame/internal/metrics"
)

// Key prefix for namespacing curated results in BadgerDB.
const badgerCurationKeyPrefix = "curation:"

const defaultCacheTTL = 24 * time.Hour

type cachedCuration struct {
	Recommendations []Recommendation `json:"recommendations"`
	CreatedAt       time.Time        `json:"created_at"`
}

// BadgerCache memoizes curated results in BadgerDB.
//
// Entries are keyed by appid, language and a digest of the target name and
// the ordered candidate texts, so an answer is only reused for the exact
// input that produced it, across restarts and re-ingests. They expire
// through Badger's TTL. Cache read and write failures are logged and the
// call falls through to the wrapped Curator.
type BadgerCache struct {
	next   Curator
	db     *badger.DB
	ttl    time.Duration
	logger zerolog.Logger
}

// NewBadgerCache opens the cache at cfg.CachePath, or in memory when the
// path is empty, and wraps next.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBadgerCache(next Curator, cfg *config.CuratorConfig, logger zerolog.Logger) (*BadgerCache, error) {
	var opts badger.Options
	if cfg.CachePath == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.CachePath, 0o750); err != nil {
			return nil, fmt.Errorf("create curator cache directory: %w", err)
		}
		opts = badger.DefaultOptions(cfg.CachePath)
		opts.ValueLogFileSize = 16 << 20 // 16MB
	}
	opts.Logger = nil // Suppress BadgerDB internal logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for curator cache: %w", err)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &BadgerCache{
		next:   next,
		db:     db,
		ttl:    ttl,
		logger: logger.With().Str("component", "curator_cache").Logger(),
	}, nil
}

// Curate implements Curator.
func (c *BadgerCache) Curate(ctx context.Context, req Request) ([]Recommendation, error) {
	key := cacheKey(req)

	recs, err := c.get(key)
	switch {
	case err == nil:
		metrics.RecordCacheLookup("curator", true)
		return recs, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		metrics.RecordCacheLookup("curator", false)
	default:
		metrics.RecordCacheLookup("curator", false)
		c.logger.Warn().Err(err).Str("key", string(key)).Msg("Curator cache read failed")
	}

	recs, err = c.next.Curate(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := c.put(key, recs); err != nil {
		c.logger.Warn().Err(err).Str("key", string(key)).Msg("Curator cache write failed")
	}
	return recs, nil
}

func (c *BadgerCache) get(key []byte) ([]Recommendation, error) {
	var entry cachedCuration
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		return nil, err
	}
	return entry.Recommendations, nil
}

func (c *BadgerCache) put(key []byte, recs []Recommendation) error {
	data, err := json.Marshal(cachedCuration{Recommendations: recs, CreatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal curation: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, data).WithTTL(c.ttl))
	})
}

// Purge drops every cached curation.
func (c *BadgerCache) Purge() error {
	return c.db.DropPrefix([]byte(badgerCurationKeyPrefix))
}

// Close releases the underlying database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

func cacheKey(req Request) []byte {
	return []byte(fmt.Sprintf("%s%d:%s:%s", badgerCurationKeyPrefix, req.AppID, NormalizeLanguage(req.Language), candidateDigest(req)))
}

// candidateDigest hashes the curator input. Fields are NUL-separated so
// moving text between candidates changes the digest.
func candidateDigest(req Request) string {
	h := sha256.New()
	h.Write([]byte(req.TargetName))
	for _, c := range req.Candidates {
		h.Write([]byte{0})
		h.Write([]byte(c))
	}
	return hex.EncodeToString(h.Sum(nil))
}
