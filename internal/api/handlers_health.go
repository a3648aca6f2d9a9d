// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/nextgame/internal/models"
)

// readinessPingTimeout bounds the database check of a readiness probe.
const readinessPingTimeout = 2 * time.Second

// HealthLive handles liveness probe requests. It never touches
// dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, models.Success(map[string]any{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, models.Metadata{Timestamp: time.Now()}))
}

// HealthReady handles readiness probe requests. The service is ready when
// the database answers and, with snapshots enabled, a corpus snapshot has
// been built. Returns 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessPingTimeout)
	defer cancel()

	dbConnected := h.games != nil && h.games.Ping(ctx) == nil

	data := map[string]any{
		"database_connected": dbConnected,
		"uptime":             time.Since(h.startTime).Seconds(),
	}

	snapshotReady := true
	var version uint64
	if h.snapshots != nil {
		snap := h.snapshots.Status()
		snapshotReady = snap.Ready
		version = snap.Version
		data["snapshot"] = snap
	}

	ready := dbConnected && snapshotReady
	data["ready_to_serve"] = ready

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:       time.Now(),
			SnapshotVersion: version,
		},
	})
}
