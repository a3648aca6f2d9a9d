// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package retrieval

import (
	"errors"

	"github.com/tomtom215/nextgame/internal/embedding"
	"github.com/tomtom215/nextgame/internal/similarity"
)

var (
	// ErrNotFound indicates the target appid has no stored embedding.
	// Store implementations must return an error matching it.
	ErrNotFound = errors.New("game not found")

	// ErrEmptyCorpus indicates that no stored embedding could be decoded.
	ErrEmptyCorpus = similarity.ErrEmptyCorpus

	// ErrInvalidTopN indicates a non-positive result count.
	ErrInvalidTopN = errors.New("top_n must be positive")
)

// failureReason classifies err for metrics labels.
func failureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrEmptyCorpus):
		return "empty_corpus"
	case errors.Is(err, embedding.ErrShape):
		return "shape"
	case errors.Is(err, ErrInvalidTopN):
		return "invalid_request"
	default:
		return "store"
	}
}
