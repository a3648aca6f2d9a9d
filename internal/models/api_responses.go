// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package models

import (
	"time"
)

// Envelope status values. Health probes use their own ("ready", "not_ready").
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse wraps every /api/v1 body:
//
//	{
//	  "status": "success",
//	  "data": [{"appid": 400, "score": 0.93, "text": "Portal. ..."}],
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z", "query_time_ms": 4, "snapshot_version": 3}
//	}
//
// Errors carry "data": null and an "error" object instead.
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata describes how a response was produced. SnapshotVersion names
// the corpus snapshot that ranked the result so clients can tell when a
// re-ingest changed the answer.
type Metadata struct {
	Timestamp       time.Time `json:"timestamp"`
	QueryTimeMS     int64     `json:"query_time_ms,omitempty"`
	Cached          bool      `json:"cached,omitempty"`
	SnapshotVersion uint64    `json:"snapshot_version,omitempty"`
}

// APIError is the "error" object. Code is stable and meant for clients;
// Message is for humans. See the api package for the list of codes.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// MetadataSince stamps the current time and the milliseconds since start.
func MetadataSince(start time.Time) Metadata {
	now := time.Now()
	return Metadata{Timestamp: now, QueryTimeMS: now.Sub(start).Milliseconds()}
}

// Success wraps data.
func Success(data any, meta Metadata) *APIResponse {
	return &APIResponse{Status: StatusSuccess, Data: data, Metadata: meta}
}

// Failure wraps apiErr with a fresh timestamp.
func Failure(apiErr *APIError) *APIResponse {
	return &APIResponse{
		Status:   StatusError,
		Metadata: Metadata{Timestamp: time.Now()},
		Error:    apiErr,
	}
}
