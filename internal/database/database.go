// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/nextgame/internal/config"
	"github.com/tomtom215/nextgame/internal/logging"
	"github.com/tomtom215/nextgame/internal/metrics"
)

const (
	memoryPath       = ":memory:"
	defaultMaxMemory = "2GB"

	// defaultQueryTimeout applies when the caller's context has no deadline.
	defaultQueryTimeout = 30 * time.Second
	closeTimeout        = 30 * time.Second
)

// DB is the games store. The server only reads from it; cmd/ingest is
// the single writer.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the DuckDB file named by cfg.Path (":memory:" for tests),
// creates the schema if needed and flushes the WAL.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = defaultMaxMemory
	}

	if err := ensureParentDir(cfg.Path); err != nil {
		return nil, err
	}

	conn, err := sql.Open("duckdb", duckDBDSN(cfg.Path, threads, maxMemory))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Lookups are short and the snapshot load is a single long scan, so a
	// handful of connections per core is plenty. Idle ones are kept around
	// because request traffic arrives in bursts.
	conn.SetMaxOpenConns(threads * 2)
	conn.SetMaxIdleConns(threads)
	conn.SetConnMaxIdleTime(10 * time.Minute)

	db := &DB{conn: conn, cfg: cfg}
	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", threads).
		Str("max_memory", maxMemory).
		Msg("Database opened")

	return db, nil
}

// duckDBDSN keeps extension autoload off so a restricted network cannot
// hang startup. The Parquet, JSON and CSV readers are built into the driver.
func duckDBDSN(path string, threads int, maxMemory string) string {
	params := url.Values{}
	params.Set("access_mode", "read_write")
	params.Set("threads", strconv.Itoa(threads))
	params.Set("max_memory", maxMemory)
	params.Set("autoinstall_known_extensions", "false")
	params.Set("autoload_known_extensions", "false")
	return path + "?" + params.Encode()
}

func ensureParentDir(path string) error {
	if path == memoryPath {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	// 0750 per gosec G301
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}

// Conn exposes the pool for the query builder.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path is the configured database location.
func (db *DB) Path() string {
	return db.cfg.Path
}

// Close checkpoints and closes. Safe on a zero DB.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
	}
	cancel()

	return db.conn.Close()
}

// Ping backs the readiness probe.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return errors.New("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Checkpoint folds the WAL into the main file. Ingest calls it after the
// last batch so serving processes see a compact file on their next open.
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// CountGames returns the number of rows in the games table.
func (db *DB) CountGames(ctx context.Context) (count int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("count", "games", time.Since(start), err) }()

	if err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM games").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}

func (db *DB) initialize() error {
	if err := db.createTables(); err != nil {
		return err
	}

	ctx, cancel := schemaContext()
	defer cancel()
	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint after schema initialization")
	}
	return nil
}

// ensureContext bounds queries issued with a deadline-free context.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultQueryTimeout)
}
