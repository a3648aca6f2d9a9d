// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package curator

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

type curatedDocument struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// stripCodeFence removes a ```json (or bare ```) wrapper some model
// versions still emit despite the JSON response MIME type.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimSpace(text[len("```json"):])
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimSpace(text[len("```"):])
	}
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSpace(text[:len(text)-len("```")])
	}
	return text
}

// parseRecommendations decodes the model's answer. Entries without a game
// name are dropped.
func parseRecommendations(text string) ([]Recommendation, error) {
	body := stripCodeFence(text)
	if body == "" {
		return nil, fmt.Errorf("%w: empty answer", ErrInvalidResponse)
	}

	var doc curatedDocument
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	recs := make([]Recommendation, 0, len(doc.Recommendations))
	for _, r := range doc.Recommendations {
		r.GameName = strings.TrimSpace(r.GameName)
		if r.GameName == "" {
			continue
		}
		recs = append(recs, r)
	}
	if len(recs) == 0 {
		return nil, ErrNoRecommendations
	}
	return recs, nil
}
