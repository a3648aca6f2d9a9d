// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Logging   LoggingConfig   `koanf:"logging"`
	Security  SecurityConfig  `koanf:"security"`
	Retrieval RetrievalConfig `koanf:"retrieval"`
	Curator   CuratorConfig   `koanf:"curator"`
	Cache     CacheConfig     `koanf:"cache"`
	NATS      NATSConfig      `koanf:"nats"`
	Ingest    IngestConfig    `koanf:"ingest"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	StaticDir       string        `koanf:"static_dir"`  // Optional frontend build served at "/"
	Environment     string        `koanf:"environment"` // development, staging, production
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = use NumCPU
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SecurityConfig holds inbound HTTP protection settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// RetrievalConfig controls the similarity engine and its corpus snapshot.
//
// Environment Variables:
//   - EMBEDDING_DIM: vector dimensionality (default: 384)
//   - RETRIEVAL_TOP_N: candidates handed to the curator (default: 20)
//   - RETRIEVAL_MAX_TOP_N: upper bound for client-supplied top_n (default: 100)
//   - SNAPSHOT_ENABLED: keep the decoded corpus in memory (default: true)
//   - SNAPSHOT_MAX_AGE: rebuild in the background after this age (default: 1h)
//   - SNAPSHOT_REFRESH_INTERVAL: periodic refresh interval (default: 15m)
//   - SNAPSHOT_BUILD_TIMEOUT: deadline for one rebuild (default: 2m)
type RetrievalConfig struct {
	EmbeddingDim            int           `koanf:"embedding_dim"`
	TopN                    int           `koanf:"top_n"`
	MaxTopN                 int           `koanf:"max_top_n"`
	SnapshotEnabled         bool          `koanf:"snapshot_enabled"`
	SnapshotMaxAge          time.Duration `koanf:"snapshot_max_age"`
	SnapshotRefreshInterval time.Duration `koanf:"snapshot_refresh_interval"`
	SnapshotBuildTimeout    time.Duration `koanf:"snapshot_build_timeout"`
}

// CuratorConfig configures the Gemini-backed recommendation curator.
//
// An empty APIKey leaves the curator disabled; the recommend endpoints then
// answer 503.
type CuratorConfig struct {
	APIKey            string        `koanf:"api_key"`
	Model             string        `koanf:"model"`
	BaseURL           string        `koanf:"base_url"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerMinute int           `koanf:"requests_per_minute"`
	MaxRetries        int           `koanf:"max_retries"`
	CacheEnabled      bool          `koanf:"cache_enabled"`
	CachePath         string        `koanf:"cache_path"` // Empty = in-memory Badger
	CacheTTL          time.Duration `koanf:"cache_ttl"`
}

// Enabled reports whether an API key is configured.
func (c CuratorConfig) Enabled() bool {
	return c.APIKey != ""
}

// CacheConfig sizes the in-process LRU caches
type CacheConfig struct {
	SearchSize int           `koanf:"search_size"`
	SearchTTL  time.Duration `koanf:"search_ttl"`
}

// NATSConfig holds the corpus-change messaging settings.
type NATSConfig struct {
	Enabled        bool          `koanf:"enabled"`
	URL            string        `koanf:"url"`
	EmbeddedServer bool          `koanf:"embedded_server"`
	EmbeddedPort   int           `koanf:"embedded_port"`
	Topic          string        `koanf:"topic"`
	QueueGroup     string        `koanf:"queue_group"` // Empty = every server instance receives each event
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	CloseTimeout   time.Duration `koanf:"close_timeout"`
}

// IngestConfig configures the offline corpus loader (cmd/ingest).
type IngestConfig struct {
	Source    string `koanf:"source"`
	BatchSize int    `koanf:"batch_size"`
	Publish   bool   `koanf:"publish"` // Publish CorpusChanged when NATS is enabled
}

// Load reads configuration using Koanf v2 (defaults, file, env).
func Load() (*Config, error) {
	return LoadWithKoanf()
}
