// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/nextgame/internal/curator"
	"github.com/tomtom215/nextgame/internal/database"
	"github.com/tomtom215/nextgame/internal/embedding"
	"github.com/tomtom215/nextgame/internal/logging"
	"github.com/tomtom215/nextgame/internal/models"
	"github.com/tomtom215/nextgame/internal/retrieval"
)

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Portal 2":            "Portal 2",
		"line\nbreak":         "line\\x0abreak",
		"tab\there":           "tab\\x09here",
		"del\x7f":             "del\\x7f",
		"Çay Oyunu":           "Çay Oyunu",
		"\r\nINFO forged log": "\\x0d\\x0aINFO forged log",
	}
	for in, want := range tests {
		if got := sanitizeLogValue(in); got != want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateETag(t *testing.T) {
	t.Parallel()

	if got := generateETag(nil); got != "811c9dc5" {
		t.Errorf("empty ETag = %q, want FNV-1a offset basis", got)
	}
	if got := generateETag([]byte("a")); got != "e40c292c" {
		t.Errorf(`ETag("a") = %q`, got)
	}
	if generateETag([]byte(`{"x":1}`)) == generateETag([]byte(`{"x":2}`)) {
		t.Error("different bodies should not share an ETag")
	}
}

func TestGetIntParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query string
		want  int
	}{
		{"", 20},
		{"top_n=5", 5},
		{"top_n=-3", -3},
		{"top_n=abc", 20},
		{"top_n=", 20},
		{"other=9", 20},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/x?"+tt.query, nil)
		if got := getIntParam(r, "top_n", 20); got != tt.want {
			t.Errorf("getIntParam(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestRespondJSON_CacheControl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		preset string
		want   string
	}{
		{"ok", http.StatusOK, "", "public, max-age=60"},
		{"error", http.StatusNotFound, "", "no-store"},
		{"handler choice kept", http.StatusOK, "private, no-cache", "private, no-cache"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		if tt.preset != "" {
			rec.Header().Set("Cache-Control", tt.preset)
		}
		respondJSON(rec, tt.status, &models.APIResponse{Status: "success"})

		if got := rec.Header().Get("Cache-Control"); got != tt.want {
			t.Errorf("%s: Cache-Control = %q, want %q", tt.name, got, tt.want)
		}
		if rec.Code != tt.status || rec.Header().Get("ETag") == "" {
			t.Errorf("%s: status = %d, ETag = %q", tt.name, rec.Code, rec.Header().Get("ETag"))
		}
	}
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("lookup: %w", database.ErrGameNotFound), http.StatusNotFound, ErrCodeGameNotFound},
		{retrieval.ErrNotFound, http.StatusNotFound, ErrCodeGameNotFound},
		{fmt.Errorf("appid 620: %w", ErrNoCandidates), http.StatusNotFound, ErrCodeNoSimilarGames},
		{retrieval.ErrInvalidTopN, http.StatusBadRequest, ErrCodeValidation},
		{retrieval.ErrEmptyCorpus, http.StatusServiceUnavailable, ErrCodeSimilarityUnavailable},
		{&embedding.ShapeError{Bytes: 10, Got: 2, Want: 384}, http.StatusInternalServerError, ErrCodeInvalidEmbedding},
		{curator.ErrUnavailable, http.StatusServiceUnavailable, ErrCodeCuratorUnavailable},
		{curator.ErrDisabled, http.StatusServiceUnavailable, ErrCodeCuratorUnavailable},
		{curator.ErrRateLimited, http.StatusServiceUnavailable, ErrCodeCuratorUnavailable},
		{curator.ErrInvalidResponse, http.StatusBadGateway, ErrCodeCuratorError},
		{curator.ErrNoRecommendations, http.StatusBadGateway, ErrCodeCuratorError},
		{fmt.Errorf("curate: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, ErrCodeTimeout},
		{errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tt := range tests {
		got := classifyError(tt.err)
		if got.status != tt.status || got.code != tt.code {
			t.Errorf("classifyError(%v) = %d %s, want %d %s", tt.err, got.status, got.code, tt.status, tt.code)
		}
		if got.message == "" {
			t.Errorf("classifyError(%v) has no message", tt.err)
		}
	}
}

func TestRespondFailure_RequestIDDetails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		wantID bool
	}{
		{"server error echoes id", errors.New("disk on fire"), true},
		{"client error omits id", retrieval.ErrNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/games/620/similar", nil)
			req = req.WithContext(logging.ContextWithRequestID(req.Context(), "req-42"))
			rec := httptest.NewRecorder()

			respondFailure(rec, req, tt.err)

			env := decodeEnvelope(t, rec)
			if env.Error == nil {
				t.Fatal("missing error object")
			}
			id, ok := env.Error.Details["request_id"]
			if ok != tt.wantID || (ok && id != "req-42") {
				t.Errorf("details = %v, want request_id present=%v", env.Error.Details, tt.wantID)
			}
		})
	}
}
