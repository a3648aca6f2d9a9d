// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package metrics

import (
	"context"
	"database/sql"
	"errors"
	"runtime"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nextgame"

// Database
var (
	DBQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "query_duration_seconds",
		Help:      "DuckDB query latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "table"})

	DBQueryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "query_errors_total",
		Help:      "Failed DuckDB queries by error class.",
	}, []string{"operation", "table", "error_class"})
)

// HTTP API
var (
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern and status.",
	}, []string{"method", "endpoint", "status_code"})

	// Upper buckets cover recommend, which waits on the curator.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "endpoint"})

	APIActiveRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "active_requests",
		Help:      "Requests currently being served.",
	})
)

// Retrieval and corpus snapshots
var (
	RetrievalDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "retrieval",
		Name:      "duration_seconds",
		Help:      "Similarity retrieval latency, including corpus and text loads.",
		Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"operation"})

	RetrievalResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "retrieval",
		Name:      "results",
		Help:      "Matches returned per successful retrieval.",
		Buckets:   []float64{0, 1, 3, 5, 10, 20, 50, 100},
	}, []string{"operation"})

	// reason: not_found, empty_corpus, shape, store, other
	RetrievalErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "retrieval",
		Name:      "errors_total",
		Help:      "Failed retrievals by reason.",
	}, []string{"operation", "reason"})

	CorpusRows = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "corpus",
		Name:      "rows",
		Help:      "Vectors in the served snapshot.",
	})

	CorpusRowsSkipped = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "corpus",
		Name:      "rows_skipped",
		Help:      "Rows rejected while building the served snapshot.",
	})

	SnapshotVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "corpus",
		Name:      "snapshot_version",
		Help:      "Version of the served snapshot.",
	})

	SnapshotRebuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "corpus",
		Name:      "snapshot_rebuilds_total",
		Help:      "Snapshot rebuilds by result (success, error).",
	}, []string{"result"})

	SnapshotRebuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "corpus",
		Name:      "snapshot_rebuild_duration_seconds",
		Help:      "Time to load and validate a full snapshot.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})
)

// Curator and its circuit breaker
var (
	// result: success, error, cached, rate_limited, timeout, invalid_response
	CuratorRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "curator",
		Name:      "requests_total",
		Help:      "Curator calls by outcome.",
	}, []string{"result"})

	CuratorDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "curator",
		Name:      "request_duration_seconds",
		Help:      "Model call latency, retries included.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
	})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "circuit_breaker",
		Name:      "state",
		Help:      "0=closed, 1=half-open, 2=open.",
	}, []string{"name"})

	// result: success, failure, rejected
	CircuitBreakerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "circuit_breaker",
		Name:      "requests_total",
		Help:      "Calls through the breaker by result.",
	}, []string{"name", "result"})

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "circuit_breaker",
		Name:      "consecutive_failures",
		Help:      "Failures since the last success.",
	}, []string{"name"})

	CircuitBreakerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "circuit_breaker",
		Name:      "transitions_total",
		Help:      "Breaker state changes.",
	}, []string{"name", "from", "to"})
)

// Caches, messaging and ingest
var (
	// cache_type: search, curator
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Cache hits.",
	}, []string{"cache_type"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Cache misses, expired entries included.",
	}, []string{"cache_type"})

	NATSMessagesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "nats",
		Name:      "messages_published_total",
		Help:      "Corpus-changed events published.",
	})

	NATSMessagesConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "nats",
		Name:      "messages_consumed_total",
		Help:      "Corpus-changed events received.",
	})

	NATSMessagesParseFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "nats",
		Name:      "messages_parse_failed_total",
		Help:      "Received events with an unreadable payload.",
	})

	// result: written, skipped
	IngestRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "rows_total",
		Help:      "Source rows processed by cmd/ingest.",
	}, []string{"result"})

	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Always 1; labels carry the build.",
	}, []string{"version", "go_version"})
)

// RecordDBQuery observes one query. Failures are counted by class, not
// message, to keep label cardinality bounded.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table, errorClass(err)).Inc()
	}
}

func errorClass(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, sql.ErrNoRows):
		return "no_rows"
	case errors.Is(err, sql.ErrConnDone), strings.Contains(err.Error(), "connection"):
		return "connection"
	case strings.Contains(strings.ToLower(err.Error()), "conflict"):
		return "conflict"
	default:
		return "other"
	}
}

// RecordAPIRequest counts a finished request. endpoint is the route
// pattern, never the raw path.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge up (true) or down (false).
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordRetrieval records one retrieval operation. A non-empty reason
// marks a failure and results is ignored.
func RecordRetrieval(operation string, duration time.Duration, results int, reason string) {
	RetrievalDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if reason != "" {
		RetrievalErrors.WithLabelValues(operation, reason).Inc()
		return
	}
	RetrievalResults.WithLabelValues(operation).Observe(float64(results))
}

// RecordSnapshotRebuild records a rebuild. The corpus gauges only move on
// success so they always describe the snapshot being served.
func RecordSnapshotRebuild(duration time.Duration, version uint64, rows, skipped int, err error) {
	SnapshotRebuildDuration.Observe(duration.Seconds())
	if err != nil {
		SnapshotRebuilds.WithLabelValues("error").Inc()
		return
	}
	SnapshotRebuilds.WithLabelValues("success").Inc()
	SnapshotVersion.Set(float64(version))
	CorpusRows.Set(float64(rows))
	CorpusRowsSkipped.Set(float64(skipped))
}

// RecordCuratorRequest counts an outcome; a zero duration (cache hit) is
// not observed.
func RecordCuratorRequest(result string, duration time.Duration) {
	CuratorRequests.WithLabelValues(result).Inc()
	if duration > 0 {
		CuratorDuration.Observe(duration.Seconds())
	}
}

func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

func RecordNATSPublish()     { NATSMessagesPublished.Inc() }
func RecordNATSConsume()     { NATSMessagesConsumed.Inc() }
func RecordNATSParseFailed() { NATSMessagesParseFailed.Inc() }

// RecordIngestRows adds one run's totals.
func RecordIngestRows(written, skipped int) {
	IngestRows.WithLabelValues("written").Add(float64(written))
	IngestRows.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordBuildInfo publishes the running version once at startup.
func RecordBuildInfo(version string) {
	BuildInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
