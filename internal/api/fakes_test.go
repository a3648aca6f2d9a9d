// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/nextgame/internal/config"
	"github.com/tomtom215/nextgame/internal/curator"
	"github.com/tomtom215/nextgame/internal/database"
	"github.com/tomtom215/nextgame/internal/models"
	"github.com/tomtom215/nextgame/internal/retrieval"
)

type fakeGames struct {
	mu          sync.Mutex
	names       map[string]int64
	catalog     []models.GameSummary
	searchCalls int
	searchErr   error
	pingErr     error
}

func newFakeGames() *fakeGames {
	return &fakeGames{
		names: map[string]int64{"Portal 2": 620, "Half-Life": 70},
		catalog: []models.GameSummary{
			{AppID: 400, Name: "Portal", HeaderImage: "https://cdn.example/400.jpg"},
			{AppID: 620, Name: "Portal 2", HeaderImage: "https://cdn.example/620.jpg"},
			{AppID: 70, Name: "Half-Life"},
		},
	}
}

func (f *fakeGames) GetAppIDByName(_ context.Context, name string) (int64, error) {
	if id, ok := f.names[name]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("game %q: %w", name, database.ErrGameNotFound)
}

func (f *fakeGames) SearchByNamePrefix(_ context.Context, prefix string, limit int) ([]models.GameSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	out := []models.GameSummary{}
	for _, g := range f.catalog {
		if strings.HasPrefix(strings.ToLower(g.Name), strings.ToLower(prefix)) && len(out) < limit {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGames) Ping(context.Context) error { return f.pingErr }

func (f *fakeGames) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchCalls
}

type fakeRetriever struct {
	mu       sync.Mutex
	matches  []retrieval.Match
	version  uint64
	err      error
	gotAppID int64
	gotTopN  int
}

func newFakeRetriever() *fakeRetriever {
	return &fakeRetriever{
		matches: []retrieval.Match{
			{AppID: 400, Score: 0.97, Text: "Portal. Puzzle."},
			{AppID: 70, Score: 0.41, Text: "Half-Life. Shooter."},
		},
		version: 7,
	}
}

func (f *fakeRetriever) record(appid int64, topN int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotAppID, f.gotTopN = appid, topN
}

func (f *fakeRetriever) FindSimilar(_ context.Context, appid int64, topN int) ([]string, error) {
	f.record(appid, topN)
	if f.err != nil {
		return nil, f.err
	}
	texts := make([]string, len(f.matches))
	for i, m := range f.matches {
		texts[i] = m.Text
	}
	return texts, nil
}

func (f *fakeRetriever) Similar(_ context.Context, appid int64, topN int) ([]retrieval.Match, uint64, error) {
	f.record(appid, topN)
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.matches, f.version, nil
}

func (f *fakeRetriever) CorpusVersion() uint64 { return f.version }

type fakeCurator struct {
	mu    sync.Mutex
	recs  []curator.Recommendation
	err   error
	got   curator.Request
	calls int
}

func newFakeCurator() *fakeCurator {
	return &fakeCurator{recs: []curator.Recommendation{
		{GameName: "Portal", Type: models.RecommendationSimilar, MatchReason: "Portals.", UserNote: "Classic."},
		{GameName: "Half-Life", Type: models.RecommendationAlternative, MatchReason: "Same world.", UserNote: "Shooter."},
	}}
}

func (f *fakeCurator) Curate(_ context.Context, req curator.Request) ([]curator.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return f.recs, nil
}

type fakeSnapshots struct {
	status retrieval.SnapshotStatus
}

func (f fakeSnapshots) Status() retrieval.SnapshotStatus { return f.status }

func testConfig() *config.Config {
	return &config.Config{
		Retrieval: config.RetrievalConfig{TopN: 20, MaxTopN: 100},
		Cache:     config.CacheConfig{SearchSize: 100, SearchTTL: time.Minute},
	}
}

// testServer bundles a handler, its fakes and a router without rate limits.
type testServer struct {
	handler   *Handler
	games     *fakeGames
	retriever *fakeRetriever
	curator   *fakeCurator
	router    http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		games:     newFakeGames(),
		retriever: newFakeRetriever(),
		curator:   newFakeCurator(),
	}
	ts.handler = NewHandler(ts.games, ts.retriever, ts.curator, testConfig())
	ts.router = NewRouter(ts.handler, NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitDisabled:  true,
	}), "").SetupChi()
	return ts
}

func (ts *testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

// envelope mirrors models.APIResponse with a raw data field.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return env
}

func decodeData(t *testing.T, env envelope, v any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v\ndata: %s", err, env.Data)
	}
}

func wantError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Status != "error" || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
}

func urlEscape(s string) string {
	return url.QueryEscape(s)
}
