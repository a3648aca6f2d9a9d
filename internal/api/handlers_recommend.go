// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/nextgame/internal/curator"
	"github.com/tomtom215/nextgame/internal/logging"
	"github.com/tomtom215/nextgame/internal/models"
)

// recommendation is the outcome of one recommend pipeline run.
type recommendation struct {
	response models.RecommendResponse
	version  uint64
}

// recommend resolves name to an appid, retrieves the top candidates and
// asks the curator to pick from them.
func (h *Handler) recommend(ctx context.Context, name, lang string) (*recommendation, error) {
	name = strings.TrimSpace(name)
	lang = curator.NormalizeLanguage(lang)

	appid, err := h.games.GetAppIDByName(ctx, name)
	if err != nil {
		return nil, err
	}

	// Read before ranking so the reported version never claims a newer
	// corpus than the candidates came from.
	version := h.retriever.CorpusVersion()

	candidates, err := h.retriever.FindSimilar(ctx, appid, h.topN)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("appid %d: %w", appid, ErrNoCandidates)
	}

	recs, err := h.curator.Curate(ctx, curator.Request{
		AppID:      appid,
		TargetName: name,
		Candidates: candidates,
		Language:   lang,
	})
	if err != nil {
		return nil, fmt.Errorf("curate appid %d: %w", appid, err)
	}

	logging.Ctx(ctx).Debug().
		Int64("appid", appid).
		Int("candidates", len(candidates)).
		Int("recommendations", len(recs)).
		Str("lang", lang).
		Msg("Recommendation served")

	return &recommendation{
		response: models.RecommendResponse{
			TargetAppID:     appid,
			TargetName:      name,
			Language:        lang,
			Recommendations: recs,
		},
		version: version,
	}, nil
}

// Recommend returns curated recommendations for a game name.
//
// Method: GET
// Path: /api/v1/recommend
//
// Query Parameters:
//   - game_name: exact name, falling back to a case-insensitive match (required)
//   - lang: en or tr, default en
//
// Errors: 404 GAME_NOT_FOUND or NO_SIMILAR_GAMES, 503 SIMILARITY_UNAVAILABLE
// or CURATOR_UNAVAILABLE, 502 CURATOR_ERROR.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := RecommendRequest{
		GameName: strings.TrimSpace(r.URL.Query().Get("game_name")),
		Lang:     r.URL.Query().Get("lang"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	rec, err := h.recommend(r.Context(), req.GameName, req.Lang)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	// Clients must revalidate curated answers.
	w.Header().Set("Cache-Control", "private, no-cache")
	meta := models.MetadataSince(start)
	meta.SnapshotVersion = rec.version
	respondJSON(w, http.StatusOK, models.Success(rec.response, meta))
}
