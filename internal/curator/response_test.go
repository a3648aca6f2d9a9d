// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package curator

import (
	"errors"
	"testing"
)

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json {\"a\":1} ```  ", `{"a":1}`},
		{"trailing fence only", "{\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := stripCodeFence(tt.in); got != tt.want {
				t.Errorf("stripCodeFence() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseRecommendations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    int
		wantErr error
	}{
		{"three picks", curatedAnswer, 3, nil},
		{"fenced", "```json\n" + curatedAnswer + "\n```", 3, nil},
		{"empty list", `{"recommendations":[]}`, 0, ErrNoRecommendations},
		{"missing key", `{"picks":[]}`, 0, ErrNoRecommendations},
		{"nameless entries dropped", `{"recommendations":[{"game_name":"  ","type":"Similar"}]}`, 0, ErrNoRecommendations},
		{"not json", "Sure! Here are three games you might like.", 0, ErrInvalidResponse},
		{"empty", "   ", 0, ErrInvalidResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			recs, err := parseRecommendations(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(recs) != tt.want {
				t.Errorf("got %d recommendations, want %d", len(recs), tt.want)
			}
		})
	}
}
