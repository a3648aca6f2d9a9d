// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package main is the entry point for the NextGame server.

NextGame recommends games similar to one the user names. The server looks
the game up in DuckDB, ranks every other game by cosine similarity of their
stored embeddings and hands the closest descriptions to a language model
curator, which writes the final picks.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("nextgame")
	├── DataSupervisor ("data-layer")
	│   └── Corpus refresh (warms and periodically rebuilds the snapshot)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Embedded NATS server (optional, NATS_EMBEDDED=true)
	│   └── Corpus events (invalidates caches after an ingest)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment
 2. Database: DuckDB holding the games table
 3. Retrieval engine with its in-memory corpus snapshot
 4. Curator: Gemini client behind a circuit breaker and a Badger cache
 5. HTTP router: chi with CORS, rate limits and Prometheus metrics
 6. NATS (optional): corpus change notifications from cmd/ingest

# Configuration

Common environment variables:

	DUCKDB_PATH        database file (default: /data/nextgame.duckdb)
	HTTP_PORT          listen port (default: 3000)
	GEMINI_API_KEY     Gemini API key; unset disables /recommend
	NATS_ENABLED       subscribe to corpus changes
	STATIC_DIR         frontend build served at "/"

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests within HTTP_SHUTDOWN_TIMEOUT, then the subscriber, the
curator cache and the database are closed.

# Example Usage

	export GEMINI_API_KEY=...
	./nextgame-ingest -source games.parquet
	./nextgame
*/
package main
