// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package config provides centralized configuration management for NextGame.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file (CONFIG_PATH, ./config.yaml or /etc/nextgame/config.yaml), then
environment variables. Only mapped environment variables are read.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:3000)
  - HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - STATIC_DIR: optional frontend build served at /

Database:
  - DUCKDB_PATH (default: /data/nextgame.duckdb)
  - DUCKDB_MAX_MEMORY, DUCKDB_THREADS

Retrieval:
  - EMBEDDING_DIM (default: 384)
  - RETRIEVAL_TOP_N (default: 20), RETRIEVAL_MAX_TOP_N (default: 100)
  - SNAPSHOT_ENABLED, SNAPSHOT_MAX_AGE, SNAPSHOT_REFRESH_INTERVAL,
    SNAPSHOT_BUILD_TIMEOUT

Curator:
  - GEMINI_API_KEY: enables the curator
  - CURATOR_MODEL (default: gemini-2.5-flash), CURATOR_BASE_URL
  - CURATOR_RPM, CURATOR_MAX_RETRIES, CURATOR_TIMEOUT
  - CURATOR_CACHE_ENABLED, CURATOR_CACHE_PATH, CURATOR_CACHE_TTL

Messaging:
  - NATS_ENABLED, NATS_URL, NATS_EMBEDDED, NATS_EMBEDDED_PORT, NATS_TOPIC

Ingest:
  - INGEST_SOURCE, INGEST_BATCH_SIZE (default: 500), INGEST_PUBLISH

Logging and security:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS, TRUSTED_PROXIES (comma-separated)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	db, err := database.New(&cfg.Database)
*/
package config
