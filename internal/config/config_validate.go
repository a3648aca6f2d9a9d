// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that the configuration is complete and within bounds.
// Errors name the environment variable that controls the offending value.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateSecurity,
		c.validateRetrieval,
		c.validateCurator,
		c.validateCache,
		c.validateNATS,
		c.validateIngest,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative (0 = NumCPU)")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// maxTopNLimit bounds RETRIEVAL_MAX_TOP_N.
const maxTopNLimit = 1000

func (c *Config) validateRetrieval() error {
	r := c.Retrieval
	if r.EmbeddingDim <= 0 {
		return fmt.Errorf("EMBEDDING_DIM must be positive, got %d", r.EmbeddingDim)
	}
	if r.MaxTopN < 1 || r.MaxTopN > maxTopNLimit {
		return fmt.Errorf("RETRIEVAL_MAX_TOP_N must be between 1 and %d", maxTopNLimit)
	}
	if r.TopN < 1 || r.TopN > r.MaxTopN {
		return fmt.Errorf("RETRIEVAL_TOP_N must be between 1 and RETRIEVAL_MAX_TOP_N (%d)", r.MaxTopN)
	}
	if !r.SnapshotEnabled {
		return nil
	}
	if r.SnapshotMaxAge < 0 {
		return fmt.Errorf("SNAPSHOT_MAX_AGE must be non-negative (0 disables age-based refresh)")
	}
	if r.SnapshotRefreshInterval < 0 {
		return fmt.Errorf("SNAPSHOT_REFRESH_INTERVAL must be non-negative (0 disables periodic refresh)")
	}
	if r.SnapshotBuildTimeout <= 0 {
		return fmt.Errorf("SNAPSHOT_BUILD_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateCurator() error {
	if !c.Curator.Enabled() {
		return nil
	}
	if strings.TrimSpace(c.Curator.Model) == "" {
		return fmt.Errorf("CURATOR_MODEL is required when GEMINI_API_KEY is set")
	}
	if err := validateEndpoint(c.Curator.BaseURL, "CURATOR_BASE_URL", httpSchemes...); err != nil {
		return err
	}
	if c.Curator.Timeout <= 0 {
		return fmt.Errorf("CURATOR_TIMEOUT must be positive")
	}
	if c.Curator.RequestsPerMinute < 1 {
		return fmt.Errorf("CURATOR_RPM must be at least 1")
	}
	if c.Curator.MaxRetries < 0 || c.Curator.MaxRetries > 10 {
		return fmt.Errorf("CURATOR_MAX_RETRIES must be between 0 and 10")
	}
	if c.Curator.CacheEnabled && c.Curator.CacheTTL <= 0 {
		return fmt.Errorf("CURATOR_CACHE_TTL must be positive when the curator cache is enabled")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.SearchSize < 0 {
		return fmt.Errorf("SEARCH_CACHE_SIZE must be non-negative (0 disables the cache)")
	}
	if c.Cache.SearchSize > 0 && c.Cache.SearchTTL <= 0 {
		return fmt.Errorf("SEARCH_CACHE_TTL must be positive")
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if !c.NATS.EmbeddedServer {
		if err := validateEndpoint(c.NATS.URL, "NATS_URL", natsSchemes...); err != nil {
			return err
		}
	}
	if c.NATS.EmbeddedServer && (c.NATS.EmbeddedPort < 1 || c.NATS.EmbeddedPort > 65535) {
		return fmt.Errorf("NATS_EMBEDDED_PORT must be between 1 and 65535")
	}
	if strings.TrimSpace(c.NATS.Topic) == "" {
		return fmt.Errorf("NATS_TOPIC is required when NATS_ENABLED=true")
	}
	return nil
}

const maxIngestBatchSize = 50000

func (c *Config) validateIngest() error {
	if c.Ingest.BatchSize < 1 || c.Ingest.BatchSize > maxIngestBatchSize {
		return fmt.Errorf("INGEST_BATCH_SIZE must be between 1 and %d", maxIngestBatchSize)
	}
	return nil
}

// validLogLevels defines the allowed logging levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}
