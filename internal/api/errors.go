// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/nextgame/internal/curator"
	"github.com/tomtom215/nextgame/internal/database"
	"github.com/tomtom215/nextgame/internal/embedding"
	"github.com/tomtom215/nextgame/internal/retrieval"
)

// Error codes returned in APIError.Code.
const (
	ErrCodeGameNotFound          = "GAME_NOT_FOUND"
	ErrCodeNoSimilarGames        = "NO_SIMILAR_GAMES"
	ErrCodeSimilarityUnavailable = "SIMILARITY_UNAVAILABLE"
	ErrCodeCuratorUnavailable    = "CURATOR_UNAVAILABLE"
	ErrCodeCuratorError          = "CURATOR_ERROR"
	ErrCodeInvalidEmbedding      = "INVALID_EMBEDDING"
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeTimeout               = "TIMEOUT"
	ErrCodeRateLimited           = "RATE_LIMITED"
	ErrCodeInternal              = "INTERNAL_ERROR"
)

// ErrNoCandidates means the target exists but nothing else in the corpus
// could be ranked against it.
var ErrNoCandidates = errors.New("no similar games found")

// apiFailure is the HTTP rendering of an error.
type apiFailure struct {
	status  int
	code    string
	message string
}

// classifyError maps domain errors onto status codes and error codes.
func classifyError(err error) apiFailure {
	switch {
	case errors.Is(err, database.ErrGameNotFound), errors.Is(err, retrieval.ErrNotFound):
		return apiFailure{http.StatusNotFound, ErrCodeGameNotFound, "Game not found"}
	case errors.Is(err, ErrNoCandidates):
		return apiFailure{http.StatusNotFound, ErrCodeNoSimilarGames, "No similar games could be computed for this game"}
	case errors.Is(err, retrieval.ErrInvalidTopN):
		return apiFailure{http.StatusBadRequest, ErrCodeValidation, "top_n must be positive"}
	case errors.Is(err, retrieval.ErrEmptyCorpus):
		return apiFailure{http.StatusServiceUnavailable, ErrCodeSimilarityUnavailable, "Similarity search is unavailable: no usable embeddings are loaded"}
	case errors.Is(err, embedding.ErrShape):
		return apiFailure{http.StatusInternalServerError, ErrCodeInvalidEmbedding, "The stored embedding for this game is invalid"}
	case errors.Is(err, curator.ErrUnavailable),
		errors.Is(err, curator.ErrDisabled),
		errors.Is(err, curator.ErrRateLimited):
		return apiFailure{http.StatusServiceUnavailable, ErrCodeCuratorUnavailable, "The recommendation curator is temporarily unavailable"}
	case errors.Is(err, curator.ErrInvalidResponse), errors.Is(err, curator.ErrNoRecommendations):
		return apiFailure{http.StatusBadGateway, ErrCodeCuratorError, "The recommendation curator returned an unusable answer"}
	case errors.Is(err, context.DeadlineExceeded):
		return apiFailure{http.StatusGatewayTimeout, ErrCodeTimeout, "The request timed out"}
	default:
		return apiFailure{http.StatusInternalServerError, ErrCodeInternal, "An internal error occurred"}
	}
}
