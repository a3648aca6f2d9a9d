// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package curator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// stubCurator returns a fixed answer and counts calls.
type stubCurator struct {
	mu    sync.Mutex
	calls int
	recs  []Recommendation
	err   error
}

func (s *stubCurator) Curate(context.Context, Request) ([]Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.recs, s.err
}

func (s *stubCurator) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *stubCurator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

var stubRecs = []Recommendation{{GameName: "Portal", Type: "Similar"}}

func TestCircuitBreakerCurator_Passthrough(t *testing.T) {
	t.Parallel()

	stub := &stubCurator{recs: stubRecs}
	cb := newCircuitBreakerCurator(stub, "test-passthrough", time.Minute)

	recs, err := cb.Curate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Curate() error = %v", err)
	}
	if len(recs) != 1 || recs[0].GameName != "Portal" {
		t.Errorf("recs = %+v", recs)
	}
	if cb.State() != "closed" {
		t.Errorf("state = %s, want closed", cb.State())
	}
}

func TestCircuitBreakerCurator_OpensAndRecovers(t *testing.T) {
	t.Parallel()

	stub := &stubCurator{recs: stubRecs, err: errors.New("connection refused")}
	cb := newCircuitBreakerCurator(stub, "test-opens", 20*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if _, err := cb.Curate(ctx, testRequest()); err == nil {
			t.Fatal("expected failure")
		}
	}
	if cb.State() != "open" {
		t.Fatalf("state = %s, want open after 10 failures", cb.State())
	}

	_, err := cb.Curate(ctx, testRequest())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	if got := stub.callCount(); got != 10 {
		t.Errorf("wrapped curator calls = %d, want 10 (open breaker must not call through)", got)
	}

	time.Sleep(40 * time.Millisecond)
	stub.setErr(nil)

	for i := 0; i < 3; i++ {
		if _, err := cb.Curate(ctx, testRequest()); err != nil {
			t.Fatalf("half-open call %d: %v", i, err)
		}
	}
	if cb.State() != "closed" {
		t.Errorf("state = %s, want closed after successful probes", cb.State())
	}
}

func TestCircuitBreakerCurator_BadAnswersDoNotTrip(t *testing.T) {
	t.Parallel()

	stub := &stubCurator{err: ErrNoRecommendations}
	cb := newCircuitBreakerCurator(stub, "test-bad-answers", time.Minute)

	for i := 0; i < 15; i++ {
		_, err := cb.Curate(context.Background(), testRequest())
		if !errors.Is(err, ErrNoRecommendations) {
			t.Fatalf("error = %v, want ErrNoRecommendations", err)
		}
	}
	if cb.State() != "closed" {
		t.Errorf("state = %s, want closed", cb.State())
	}
}
