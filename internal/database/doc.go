// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

// Package database is the DuckDB data layer for NextGame.
//
// # Overview
//
// A single table, games, holds every game's metadata, the text used to build
// its embedding, and the embedding itself as a little-endian float32 BLOB.
// The package exposes the three boundary operations the retrieval engine
// needs (GetVector, GetAllVectors, GetTexts) plus the lookups used by the
// HTTP API and the writer used by the ingest job.
//
// # Architecture
//
//   - database.go: connection lifecycle (open, initialize, close)
//   - database_connection.go: pool configuration and error classification
//   - database_schema.go: table creation
//   - database_utils.go: context defaults, CHECKPOINT, counts
//   - games.go: reads and batched upserts on the games table
//   - source.go: streaming Parquet/JSON/CSV files through DuckDB table functions
//   - retrieval_store.go: adapter implementing retrieval.Store
//   - query/: parameterized WHERE-clause helpers
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to open database")
//	}
//	defer db.Close()
//
//	engine, err := retrieval.NewEngine(database.NewRetrievalStore(db), retrievalCfg, logger)
//
// # Thread Safety
//
// DB is safe for concurrent use; database/sql pools the DuckDB connections.
package database
