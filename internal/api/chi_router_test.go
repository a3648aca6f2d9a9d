// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package api

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRouter_GlobalHeaders(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.get(t, "/api/v1/games/search?q=por")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must only be sent over TLS")
	}
}

func TestRouter_HSTSBehindTLSProxy(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games/search?q=por", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	if !strings.HasPrefix(rec.Header().Get("Strict-Transport-Security"), "max-age=") {
		t.Errorf("Strict-Transport-Security = %q", rec.Header().Get("Strict-Transport-Security"))
	}
}

func TestRouter_Gzip(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games/620/similar", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q", rec.Header().Get("Content-Encoding"))
	}
	gz, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(gz)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), `"Portal. Puzzle."`) {
		t.Errorf("body = %s", body)
	}
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	ts.get(t, "/api/v1/games/620/similar")
	rec := ts.get(t, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `endpoint="/api/v1/games/{appid}/similar"`) {
		t.Error("metrics should label requests by route pattern")
	}
	if strings.Contains(body, `endpoint="/api/v1/games/620/similar"`) {
		t.Error("raw paths must not become metric labels")
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	wantError(t, ts.get(t, "/api/v2/nothing"), http.StatusNotFound, "NOT_FOUND")

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/recommend", nil))
	wantError(t, rec, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recommend", nil)
	req.Header.Set("Origin", "https://nextgame.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Errorf("preflight not answered: status %d, headers %v", rec.Code, rec.Header())
	}
}

func TestRouter_StaticDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>NextGame</h1>"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHandler(newFakeGames(), newFakeRetriever(), newFakeCurator(), testConfig())
	router := NewRouter(h, NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true}), dir).SetupChi()
	ts := &testServer{router: router}

	rec := ts.get(t, "/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "NextGame") {
		t.Errorf("GET / = %d %q", rec.Code, rec.Body.String())
	}

	// API routes still win over the catch-all.
	rec = ts.get(t, "/search/?q=half")
	if !strings.Contains(rec.Body.String(), "game_list") {
		t.Errorf("legacy search shadowed by static files: %s", rec.Body.String())
	}
}
