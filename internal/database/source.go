// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package database

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/nextgame/internal/metrics"
)

// SourceRow is one row of a source file keyed by column name. Nested
// DuckDB maps are converted to map[string]any.
type SourceRow map[string]any

// sourceFunctions maps file extensions to DuckDB table functions.
var sourceFunctions = map[string]string{
	".parquet": "read_parquet",
	".json":    "read_json_auto",
	".jsonl":   "read_json_auto",
	".ndjson":  "read_json_auto",
	".csv":     "read_csv_auto",
}

// SourceFunction returns the table function that reads path, or
// ErrUnsupportedSource.
func SourceFunction(path string) (string, error) {
	fn, ok := sourceFunctions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, ErrUnsupportedSource)
	}
	return fn, nil
}

// ScanSource streams every row of the file at path through fn, in file
// order. It stops at the first error returned by fn and returns the number
// of rows delivered.
//
// Scans are not bounded by the default query timeout; use ctx to cancel.
func (db *DB) ScanSource(ctx context.Context, path string, fn func(SourceRow) error) (count int, err error) {
	tableFn, err := SourceFunction(path)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("scan_source", tableFn, time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s(?)", tableFn), path)
	if err != nil {
		return 0, fmt.Errorf("failed to open source %s: %w", path, err)
	}
	defer closeWithLog(rows, "source rows")

	columns, err := rows.Columns()
	if err != nil {
		return 0, fmt.Errorf("failed to read source columns: %w", err)
	}

	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		if err = rows.Scan(pointers...); err != nil {
			return count, fmt.Errorf("failed to scan source row %d: %w", count+1, err)
		}
		row := make(SourceRow, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		if err = fn(row); err != nil {
			return count, err
		}
		count++
	}
	if err = rows.Err(); err != nil {
		return count, fmt.Errorf("failed to iterate source rows: %w", err)
	}
	return count, nil
}

// normalizeValue converts DuckDB maps (keyed by any) into string-keyed maps,
// recursing into lists and structs.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case duckdb.Map:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeValue(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = normalizeValue(item)
		}
		return val
	default:
		return v
	}
}
