// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/nextgame/internal/curator"
	"github.com/tomtom215/nextgame/internal/database"
	"github.com/tomtom215/nextgame/internal/logging"
	"github.com/tomtom215/nextgame/internal/models"
	"github.com/tomtom215/nextgame/internal/retrieval"
)

// legacyError is the error body of the legacy routes.
type legacyError struct {
	Detail string `json:"detail"`
}

// LegacySearch serves GET /search/?q= for the bundled frontend.
// A missing q is 422; a blank q returns an empty list.
func (h *Handler) LegacySearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("q") {
		respondRaw(w, http.StatusUnprocessableEntity, legacyError{Detail: "query parameter 'q' is required"})
		return
	}

	games, _, err := h.search(r.Context(), query.Get("q"), defaultSearchLimit)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Legacy search failed")
		respondRaw(w, http.StatusInternalServerError, legacyError{Detail: "search failed"})
		return
	}

	list := make([]models.LegacyGame, len(games))
	for i, g := range games {
		list[i] = models.LegacyGame{Name: g.Name, HeaderImage: g.HeaderImage}
	}
	respondRaw(w, http.StatusOK, models.LegacySearchResponse{GameList: list})
}

// LegacyRecommend serves GET /recommend/?game_name=&lang= for the bundled
// frontend. Any retrieval failure is reported as 404 and any curator
// failure as 500.
func (h *Handler) LegacyRecommend(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name := strings.TrimSpace(query.Get("game_name"))
	if name == "" {
		respondRaw(w, http.StatusUnprocessableEntity, legacyError{Detail: "query parameter 'game_name' is required"})
		return
	}
	lang := query.Get("lang")
	if lang == "" {
		lang = curator.LanguageEnglish
	}
	if lang != curator.LanguageEnglish && lang != curator.LanguageTurkish {
		respondRaw(w, http.StatusUnprocessableEntity, legacyError{Detail: "lang must be one of: en, tr"})
		return
	}

	rec, err := h.recommend(r.Context(), name, lang)
	if err != nil {
		status, detail := legacyFailure(name, err)
		logging.Ctx(r.Context()).Warn().Err(err).Int("status", status).Msg("Legacy recommend failed")
		respondRaw(w, status, legacyError{Detail: detail})
		return
	}

	respondRaw(w, http.StatusOK, models.LegacyRecommendResponse{Recommendations: rec.response.Recommendations})
}

// legacyFailure maps errors onto the two failure statuses the legacy
// frontend understands.
func legacyFailure(name string, err error) (int, string) {
	switch {
	case errors.Is(err, database.ErrGameNotFound),
		errors.Is(err, retrieval.ErrNotFound),
		errors.Is(err, retrieval.ErrEmptyCorpus),
		errors.Is(err, ErrNoCandidates):
		return http.StatusNotFound, fmt.Sprintf("'%s' was not found or no similar games could be computed.", name)
	default:
		return http.StatusInternalServerError, "An error occurred while processing recommendations."
	}
}
