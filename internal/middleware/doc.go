// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package middleware provides HTTP middleware for the NextGame API.

Every middleware has the shape func(http.HandlerFunc) http.HandlerFunc and
is adapted onto chi route groups by the api package.

Key Components:

  - RequestID: X-Request-ID propagation plus request and correlation IDs
    in the logging context
  - AccessLog: one zerolog line per request, level chosen by outcome
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled
    by chi route pattern
  - Compression: pooled gzip writers for clients that accept gzip

Middleware Stack:

The API route group is assembled as:

	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(rateLimit)
	    r.Use(APISecurityHeaders())
	    r.Use(chiMiddleware(middleware.PrometheusMetrics))
	    r.Use(chiMiddleware(middleware.AccessLog))
	    r.Use(chiMiddleware(middleware.Compression))
	    ...
	})

RequestID runs globally so health probes and /metrics also carry an ID.

Compression must not wrap promhttp, which negotiates gzip on its own.

See Also:

  - internal/api: router and handlers
  - internal/metrics: Prometheus metric definitions
  - internal/logging: context-aware zerolog helpers
*/
package middleware
