// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package ingest

import "time"

// Stats holds counters for one ingest run.
type Stats struct {
	Source string

	// Scanned counts source rows read, Written rows upserted and Skipped
	// rows rejected by normalization.
	Scanned int
	Written int
	Skipped int
	Batches int
	// Retries counts batch upserts repeated after a write conflict.
	Retries int

	Published bool
	DryRun    bool

	StartTime time.Time
	EndTime   time.Time
}

// Duration returns the run time so far, or the total once finished.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// RowsPerSecond returns the scan rate.
func (s *Stats) RowsPerSecond() float64 {
	seconds := s.Duration().Seconds()
	if seconds == 0 {
		return 0
	}
	return float64(s.Scanned) / seconds
}
