// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package database

import (
	"errors"
	"io"
	"strings"

	"github.com/tomtom215/nextgame/internal/logging"
)

var (
	// ErrGameNotFound is returned when no row matches an appid or name.
	ErrGameNotFound = errors.New("game not found")

	// ErrUnsupportedSource is returned by ScanSource for unknown file types.
	ErrUnsupportedSource = errors.New("unsupported source file type")

	// ErrWriteConflict wraps upsert failures caused by a concurrent writer.
	// The transaction was rolled back, so the batch can be retried as is.
	ErrWriteConflict = errors.New("write conflict")
)

// writeConflictMarkers are the DuckDB messages raised when two writers
// touch the same rows. Two ingest runs against one file is the usual cause.
var writeConflictMarkers = []string{
	"Transaction conflict",
	"Conflict on update",
	"cannot update a table that has been altered",
}

func isWriteConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range writeConflictMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
