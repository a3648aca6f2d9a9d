// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package metrics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "games_err", "connection"))

	RecordDBQuery("select", "games", 10*time.Millisecond, nil)
	RecordDBQuery("upsert", "games", 5*time.Millisecond, nil)
	RecordDBQuery("select", "games_err", 100*time.Millisecond, errors.New("dial: connection refused"))

	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "games_err", "connection")) - before; got != 1 {
		t.Errorf("DBQueryErrors delta = %v, want 1", got)
	}
}

func TestErrorClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{context.DeadlineExceeded, "timeout"},
		{fmt.Errorf("count games: %w", context.Canceled), "canceled"},
		{sql.ErrNoRows, "no_rows"},
		{sql.ErrConnDone, "connection"},
		{errors.New("TransactionContext Error: Transaction conflict on table games"), "conflict"},
		{errors.New(strings.Repeat("x", 500)), "other"},
	}
	for _, tt := range tests {
		if got := errorClass(tt.err); got != tt.want {
			t.Errorf("errorClass(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRecordBuildInfo(t *testing.T) {
	RecordBuildInfo("v1.2.3")
	if got := testutil.ToFloat64(BuildInfo.WithLabelValues("v1.2.3", runtime.Version())); got != 1 {
		t.Errorf("BuildInfo = %v, want 1", got)
	}
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/games/search", "200"))
	RecordAPIRequest("GET", "/api/v1/games/search", "200", 25*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/games/search", "200"))

	if after-before != 1 {
		t.Errorf("APIRequestsTotal delta = %v, want 1", after-before)
	}
}

// TestTrackActiveRequest tests the in-flight gauge
func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests) - base; got != 2 {
		t.Errorf("active requests = %v, want 2", got)
	}

	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests) - base; got != 0 {
		t.Errorf("active requests = %v, want 0", got)
	}
}

func TestRecordRetrieval(t *testing.T) {
	beforeErr := testutil.ToFloat64(RetrievalErrors.WithLabelValues("find_similar", "not_found"))

	RecordRetrieval("find_similar", 2*time.Millisecond, 20, "")
	RecordRetrieval("find_similar", time.Millisecond, 0, "not_found")

	if got := testutil.ToFloat64(RetrievalErrors.WithLabelValues("find_similar", "not_found")) - beforeErr; got != 1 {
		t.Errorf("RetrievalErrors delta = %v, want 1", got)
	}
}

func TestRecordSnapshotRebuild(t *testing.T) {
	beforeOK := testutil.ToFloat64(SnapshotRebuilds.WithLabelValues("success"))
	beforeErr := testutil.ToFloat64(SnapshotRebuilds.WithLabelValues("error"))

	RecordSnapshotRebuild(time.Second, 7, 1200, 3, nil)
	RecordSnapshotRebuild(time.Second, 8, 0, 0, errors.New("boom"))

	if got := testutil.ToFloat64(SnapshotVersion); got != 7 {
		t.Errorf("SnapshotVersion = %v, want 7 (failed rebuild must not move it)", got)
	}
	if got := testutil.ToFloat64(CorpusRows); got != 1200 {
		t.Errorf("CorpusRows = %v, want 1200", got)
	}
	if got := testutil.ToFloat64(CorpusRowsSkipped); got != 3 {
		t.Errorf("CorpusRowsSkipped = %v, want 3", got)
	}
	if got := testutil.ToFloat64(SnapshotRebuilds.WithLabelValues("success")) - beforeOK; got != 1 {
		t.Errorf("success rebuilds delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(SnapshotRebuilds.WithLabelValues("error")) - beforeErr; got != 1 {
		t.Errorf("error rebuilds delta = %v, want 1", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("search"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("search"))

	RecordCacheLookup("search", true)
	RecordCacheLookup("search", false)
	RecordCacheLookup("search", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("search")) - hits; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("search")) - misses; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestRecordCuratorRequest(t *testing.T) {
	before := testutil.ToFloat64(CuratorRequests.WithLabelValues("cached"))
	RecordCuratorRequest("cached", 0)
	RecordCuratorRequest("success", 1500*time.Millisecond)

	if got := testutil.ToFloat64(CuratorRequests.WithLabelValues("cached")) - before; got != 1 {
		t.Errorf("cached delta = %v, want 1", got)
	}
}

func TestRecordIngestRows(t *testing.T) {
	written := testutil.ToFloat64(IngestRows.WithLabelValues("written"))
	RecordIngestRows(500, 2)

	if got := testutil.ToFloat64(IngestRows.WithLabelValues("written")) - written; got != 500 {
		t.Errorf("written delta = %v, want 500", got)
	}
}

func TestNATSMetrics(t *testing.T) {
	pub := testutil.ToFloat64(NATSMessagesPublished)
	con := testutil.ToFloat64(NATSMessagesConsumed)

	RecordNATSPublish()
	RecordNATSConsume()
	RecordNATSParseFailed()

	if testutil.ToFloat64(NATSMessagesPublished)-pub != 1 || testutil.ToFloat64(NATSMessagesConsumed)-con != 1 {
		t.Error("NATS counters did not advance")
	}
}

// TestConcurrentMetricRecording tests thread-safety of metric recording
func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordDBQuery("select", "games", time.Millisecond, nil)
			RecordRetrieval("similar", time.Millisecond, 5, "")
			RecordCacheLookup("search", true)
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()
}

// TestMetricsRegistration verifies every collector can be described
func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		DBQueryDuration,
		DBQueryErrors,
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		RetrievalDuration,
		RetrievalResults,
		RetrievalErrors,
		CorpusRows,
		CorpusRowsSkipped,
		SnapshotVersion,
		SnapshotRebuilds,
		SnapshotRebuildDuration,
		CuratorRequests,
		CuratorDuration,
		CacheHits,
		CacheMisses,
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerConsecutiveFailures,
		CircuitBreakerTransitions,
		NATSMessagesPublished,
		NATSMessagesConsumed,
		NATSMessagesParseFailed,
		IngestRows,
		BuildInfo,
	}

	for _, m := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		m.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	RecordDBQuery("test", "test_table", time.Millisecond, nil)
	RecordAPIRequest("GET", "/test", "200", time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}

func BenchmarkRecordDBQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordDBQuery("select", "games", 10*time.Millisecond, nil)
	}
}

func BenchmarkRecordRetrieval(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordRetrieval("find_similar", time.Millisecond, 20, "")
	}
}
