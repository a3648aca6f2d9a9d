// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package models

// Recommendation types returned by the curator.
const (
	RecommendationSimilar     = "Similar"
	RecommendationAlternative = "Alternative"
)

// Recommendation is one curated pick.
type Recommendation struct {
	GameName    string `json:"game_name"`
	Type        string `json:"type"`
	MatchReason string `json:"match_reason"`
	UserNote    string `json:"user_note"`
}

// RecommendResponse is returned by GET /api/v1/recommend.
type RecommendResponse struct {
	TargetAppID     int64            `json:"target_appid"`
	TargetName      string           `json:"target_name"`
	Language        string           `json:"lang"`
	Recommendations []Recommendation `json:"recommendations"`
}

// LegacyRecommendResponse is the /recommend/ compatibility body.
type LegacyRecommendResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}
