// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package curator

import (
	"context"
	"errors"

	"github.com/tomtom215/nextgame/internal/models"
)

// Supported response languages.
const (
	LanguageEnglish = "en"
	LanguageTurkish = "tr"
)

// PickCount is the number of recommendations the model is asked for.
const PickCount = 3

var (
	// ErrDisabled is returned when no API key is configured.
	ErrDisabled = errors.New("curator: disabled (no API key configured)")

	// ErrInvalidResponse means the model answer was not the expected JSON document.
	ErrInvalidResponse = errors.New("curator: invalid model response")

	// ErrNoRecommendations means the model answered with an empty list.
	ErrNoRecommendations = errors.New("curator: no recommendations returned")

	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("curator: temporarily unavailable")

	// ErrRateLimited is returned when HTTP 429 persists through every retry.
	ErrRateLimited = errors.New("curator: rate limit exceeded")
)

// Recommendation is one curated pick.
type Recommendation = models.Recommendation

// Request describes one curation call.
type Request struct {
	AppID      int64
	TargetName string
	Candidates []string
	Language   string
}

// Curator selects recommendations from an ordered candidate list.
type Curator interface {
	Curate(ctx context.Context, req Request) ([]Recommendation, error)
}

// NormalizeLanguage maps anything other than a supported code to English.
func NormalizeLanguage(lang string) string {
	if lang == LanguageTurkish {
		return LanguageTurkish
	}
	return LanguageEnglish
}

// Disabled is a Curator that always fails with ErrDisabled.
type Disabled struct{}

// Curate implements Curator.
func (Disabled) Curate(context.Context, Request) ([]Recommendation, error) {
	return nil, ErrDisabled
}

func errorsIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
