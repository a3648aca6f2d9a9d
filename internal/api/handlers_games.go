// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/nextgame/internal/models"
)

// SearchGames handles autocomplete requests.
//
// Method: GET
// Path: /api/v1/games/search
//
// Query Parameters:
//   - q: name prefix, matched case-insensitively (blank returns [])
//   - limit: 1-50, default 10
//
// Response: []models.GameSummary ordered by name.
func (h *Handler) SearchGames(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := SearchRequest{
		Query: r.URL.Query().Get("q"),
		Limit: getIntParam(r, "limit", defaultSearchLimit),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	games, cached, err := h.search(r.Context(), req.Query, req.Limit)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	meta := models.MetadataSince(start)
	meta.Cached = cached
	respondJSON(w, http.StatusOK, models.Success(games, meta))
}

// SimilarGames returns the games most similar to {appid}, best first, with
// their cosine scores. The target itself is never included.
//
// Method: GET
// Path: /api/v1/games/{appid}/similar
//
// Query Parameters:
//   - top_n: 1-100, default retrieval.top_n; clamped to retrieval.max_top_n
func (h *Handler) SimilarGames(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	appid, err := strconv.ParseInt(chi.URLParam(r, "appid"), 10, 64)
	if err != nil {
		appid = 0 // rejected by validation below
	}
	req := SimilarRequest{
		AppID: appid,
		TopN:  getIntParam(r, "top_n", h.topN),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	matches, version, err := h.retriever.Similar(r.Context(), req.AppID, req.TopN)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	games := make([]models.SimilarGame, len(matches))
	for i, m := range matches {
		games[i] = models.SimilarGame{AppID: m.AppID, Score: m.Score, Text: m.Text}
	}

	meta := models.MetadataSince(start)
	meta.SnapshotVersion = version
	respondJSON(w, http.StatusOK, models.Success(games, meta))
}
