// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/nextgame/config.yaml",
	"/etc/nextgame/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultCorpusTopic is the subject corpus-change events are published on.
const DefaultCorpusTopic = "nextgame.corpus.changed"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			StaticDir:       "",
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/nextgame.duckdb",
			MaxMemory: "2GB",
			Threads:   0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			TrustedProxies:    []string{},
		},
		Retrieval: RetrievalConfig{
			EmbeddingDim:            384,
			TopN:                    20,
			MaxTopN:                 100,
			SnapshotEnabled:         true,
			SnapshotMaxAge:          time.Hour,
			SnapshotRefreshInterval: 15 * time.Minute,
			SnapshotBuildTimeout:    2 * time.Minute,
		},
		Curator: CuratorConfig{
			APIKey:            "",
			Model:             "gemini-2.5-flash",
			BaseURL:           "https://generativelanguage.googleapis.com",
			Timeout:           60 * time.Second,
			RequestsPerMinute: 60,
			MaxRetries:        5,
			CacheEnabled:      true,
			CachePath:         "/data/curator-cache",
			CacheTTL:          24 * time.Hour,
		},
		Cache: CacheConfig{
			SearchSize: 1000,
			SearchTTL:  5 * time.Minute,
		},
		NATS: NATSConfig{
			Enabled:        false,
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: false,
			EmbeddedPort:   4222,
			Topic:          DefaultCorpusTopic,
			QueueGroup:     "",
			ConnectTimeout: 10 * time.Second,
			CloseTimeout:   30 * time.Second,
		},
		Ingest: IngestConfig{
			Source:    "",
			BatchSize: 500,
			Publish:   true,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// GEMINI_API_KEY -> curator.api_key, HTTP_PORT -> server.port, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"static_dir":            "server.static_dir",
	"environment":           "server.environment",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"trusted_proxies":     "security.trusted_proxies",

	// Retrieval
	"embedding_dim":             "retrieval.embedding_dim",
	"retrieval_top_n":           "retrieval.top_n",
	"retrieval_max_top_n":       "retrieval.max_top_n",
	"snapshot_enabled":          "retrieval.snapshot_enabled",
	"snapshot_max_age":          "retrieval.snapshot_max_age",
	"snapshot_refresh_interval": "retrieval.snapshot_refresh_interval",
	"snapshot_build_timeout":    "retrieval.snapshot_build_timeout",

	// Curator
	"gemini_api_key":        "curator.api_key",
	"curator_model":         "curator.model",
	"curator_base_url":      "curator.base_url",
	"curator_timeout":       "curator.timeout",
	"curator_rpm":           "curator.requests_per_minute",
	"curator_max_retries":   "curator.max_retries",
	"curator_cache_enabled": "curator.cache_enabled",
	"curator_cache_path":    "curator.cache_path",
	"curator_cache_ttl":     "curator.cache_ttl",

	// In-process caches
	"search_cache_size": "cache.search_size",
	"search_cache_ttl":  "cache.search_ttl",

	// NATS
	"nats_enabled":         "nats.enabled",
	"nats_url":             "nats.url",
	"nats_embedded":        "nats.embedded_server",
	"nats_embedded_port":   "nats.embedded_port",
	"nats_topic":           "nats.topic",
	"nats_queue_group":     "nats.queue_group",
	"nats_connect_timeout": "nats.connect_timeout",
	"nats_close_timeout":   "nats.close_timeout",

	// Ingest
	"ingest_source":     "ingest.source",
	"ingest_batch_size": "ingest.batch_size",
	"ingest_publish":    "ingest.publish",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - GEMINI_API_KEY -> curator.api_key
//   - SNAPSHOT_MAX_AGE -> retrieval.snapshot_max_age
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
