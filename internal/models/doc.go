// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package models defines the data structures shared between the store, the
HTTP API and the curator.

Key Components:

  - Game: one normalized row of the games table
  - GameSummary, SimilarGame: search and similarity result shapes
  - Recommendation, RecommendResponse: curated picks
  - APIResponse, APIError, Metadata: the /api/v1 envelope
  - LegacySearchResponse, LegacyRecommendResponse: bodies of the
    /search/ and /recommend/ compatibility routes

All JSON field names are snake_case.
*/
package models
