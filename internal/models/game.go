// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package models

import "time"

// Game is one normalized row of the games table. List-like source fields
// are stored comma-joined; Embedding holds the little-endian float32 blob.
type Game struct {
	AppID              int64      `json:"appid"`
	Name               string     `json:"name"`
	ReleaseDate        *time.Time `json:"release_date,omitempty"`
	RequiredAge        int        `json:"required_age"`
	Price              float64    `json:"price"`
	DLCCount           int        `json:"dlc_count"`
	HeaderImage        string     `json:"header_image,omitempty"`
	Website            string     `json:"website,omitempty"`
	Windows            *bool      `json:"windows,omitempty"`
	Mac                *bool      `json:"mac,omitempty"`
	Linux              *bool      `json:"linux,omitempty"`
	SupportedLanguages string     `json:"supported_languages"`
	Genres             string     `json:"genres"`
	Tags               string     `json:"tags"`
	Categories         string     `json:"categories"`
	Developers         string     `json:"developers"`
	Publishers         string     `json:"publishers"`
	TextForEmbedding   string     `json:"text_for_embedding"`
	Embedding          []byte     `json:"-"`
}

// GameSummary is the search result shape.
type GameSummary struct {
	AppID       int64  `json:"appid"`
	Name        string `json:"name"`
	HeaderImage string `json:"header_image,omitempty"`
}

// SimilarGame is one ranked neighbour returned by the similar endpoint.
type SimilarGame struct {
	AppID int64   `json:"appid"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// LegacyGame is an entry of the /search/ compatibility response.
type LegacyGame struct {
	Name        string `json:"name"`
	HeaderImage string `json:"header_image"`
}

// LegacySearchResponse is the /search/ compatibility body.
type LegacySearchResponse struct {
	GameList []LegacyGame `json:"game_list"`
}
