// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package curator turns the ranked candidate texts produced by the retrieval
engine into three user-facing recommendations by asking a Gemini model.

The package is layered as decorators around the Curator interface:

	client := curator.NewClient(&cfg.Curator, logger)      // Gemini REST call
	guarded := curator.NewCircuitBreakerCurator(client)    // gobreaker
	cached, err := curator.NewBadgerCache(guarded, &cfg.Curator, logger)

Client talks to the generateContent endpoint with a fixed generation config
(temperature 0.2, JSON output) and retries HTTP 429 with exponential backoff
honouring Retry-After. Outbound calls pass through a token bucket sized from
curator.requests_per_minute.

CircuitBreakerCurator opens after at least 10 requests with a failure ratio of
60% or more and rejects calls with ErrUnavailable for two minutes.

BadgerCache stores results keyed by target appid, language and a SHA-256
digest of the target name and ordered candidate texts. A re-ingest that
changes the candidates misses the cache even after a restart. Entries
expire through Badger's native TTL.
*/
package curator
