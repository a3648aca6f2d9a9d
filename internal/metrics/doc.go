// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and are
exposed at /metrics by the API router:

	curl http://localhost:3000/metrics

# Available Metrics

Every name carries the nextgame_ prefix.

Database:
  - db_query_duration_seconds{operation,table}
  - db_query_errors_total{operation,table,error_class}

API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests

Retrieval:
  - retrieval_duration_seconds{operation}
  - retrieval_results{operation}
  - retrieval_errors_total{operation,reason}
  - corpus_rows, corpus_rows_skipped, corpus_snapshot_version
  - corpus_snapshot_rebuilds_total{result}
  - corpus_snapshot_rebuild_duration_seconds

Curator:
  - curator_requests_total{result}
  - curator_request_duration_seconds
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name,result},
    circuit_breaker_consecutive_failures{name},
    circuit_breaker_transitions_total{name,from,to}

Caches, messaging and ingest:
  - cache_hits_total{cache_type}, cache_misses_total{cache_type}
  - nats_messages_published_total, nats_messages_consumed_total,
    nats_messages_parse_failed_total
  - ingest_rows_total{result}
  - build_info{version,go_version}

# Helpers

Call sites use the Record* helpers rather than touching collectors directly:

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	metrics.RecordDBQuery("select", "games", time.Since(start), err)
*/
package metrics
