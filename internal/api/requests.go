// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package api

// defaultSearchLimit is also the fixed limit of the legacy /search/ route.
const defaultSearchLimit = 10

// SearchRequest holds the query parameters of /api/v1/games/search.
type SearchRequest struct {
	Query string `query:"q" validate:"max=100,nocontrol"`
	Limit int    `query:"limit" validate:"min=1,max=50"`
}

// SimilarRequest holds the parameters of /api/v1/games/{appid}/similar.
// TopN above the engine's cap is clamped, not rejected.
type SimilarRequest struct {
	AppID int64 `query:"appid" validate:"gt=0"`
	TopN  int   `query:"top_n" validate:"min=1,max=100"`
}

// RecommendRequest holds the query parameters of /api/v1/recommend.
type RecommendRequest struct {
	GameName string `query:"game_name" validate:"required,max=200,nocontrol"`
	Lang     string `query:"lang" validate:"omitempty,oneof=en tr"`
}
