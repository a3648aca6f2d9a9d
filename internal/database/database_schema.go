// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the games table
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the table creation SQL statements.
// games carries no secondary index: DuckDB rejects ON CONFLICT DO UPDATE
// on indexed columns, and name lookups scan a single column quickly.
func getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS games (
			appid BIGINT PRIMARY KEY,
			name VARCHAR NOT NULL,
			release_date DATE,
			required_age INTEGER DEFAULT 0,
			price DOUBLE DEFAULT 0,
			dlc_count INTEGER DEFAULT 0,
			header_image VARCHAR,
			website VARCHAR,
			windows BOOLEAN,
			mac BOOLEAN,
			linux BOOLEAN,
			supported_languages VARCHAR DEFAULT '',
			genres VARCHAR DEFAULT '',
			tags VARCHAR DEFAULT '',
			categories VARCHAR DEFAULT '',
			developers VARCHAR DEFAULT '',
			publishers VARCHAR DEFAULT '',
			text_for_embedding VARCHAR NOT NULL,
			embedding BLOB NOT NULL,
			updated_at TIMESTAMP
		);`,
	}
}
