// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package retrieval

import (
	"fmt"
	"time"

	"github.com/tomtom215/nextgame/internal/embedding"
)

// Config controls the retrieval engine.
type Config struct {
	// Dim is the expected embedding dimensionality.
	Dim int

	// MaxTopN caps the number of results a caller may request.
	MaxTopN int

	// Snapshot configures the cached corpus.
	Snapshot SnapshotConfig
}

// SnapshotConfig controls the corpus snapshot cache.
type SnapshotConfig struct {
	// Enabled turns the cache on. When off, every request loads the corpus.
	Enabled bool

	// MaxAge is how long a snapshot is served before a read triggers a
	// background rebuild. Zero disables age-based rebuilds.
	MaxAge time.Duration

	// BuildTimeout bounds a single rebuild.
	BuildTimeout time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Dim:     embedding.DefaultDim,
		MaxTopN: 100,
		Snapshot: SnapshotConfig{
			Enabled:      true,
			MaxAge:       time.Hour,
			BuildTimeout: 2 * time.Minute,
		},
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Dim <= 0 {
		return fmt.Errorf("dim must be positive, got %d", c.Dim)
	}
	if c.MaxTopN <= 0 {
		return fmt.Errorf("max_top_n must be positive, got %d", c.MaxTopN)
	}
	if c.Snapshot.MaxAge < 0 {
		return fmt.Errorf("snapshot max_age must not be negative, got %s", c.Snapshot.MaxAge)
	}
	if c.Snapshot.Enabled && c.Snapshot.BuildTimeout <= 0 {
		return fmt.Errorf("snapshot build_timeout must be positive, got %s", c.Snapshot.BuildTimeout)
	}
	return nil
}
