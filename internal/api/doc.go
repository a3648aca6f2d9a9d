// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package api provides the HTTP layer of NextGame on a chi router.

Routes:

	GET /api/v1/games/search?q=&limit=         name prefix autocomplete
	GET /api/v1/games/{appid}/similar?top_n=   ranked similar games with scores
	GET /api/v1/recommend?game_name=&lang=     curated recommendations
	GET /health/live, /health/ready            probes
	GET /metrics                               Prometheus exposition
	GET /search/?q=                            legacy {"game_list": [...]}
	GET /recommend/?game_name=&lang=           legacy {"recommendations": [...]}

The /api/v1 routes answer with the models.APIResponse envelope:

	{
	  "status": "success",
	  "data": [...],
	  "metadata": {"timestamp": "...", "query_time_ms": 3, "snapshot_version": 7}
	}

Errors carry a machine-readable code:

	404 GAME_NOT_FOUND, NO_SIMILAR_GAMES
	400 VALIDATION_ERROR
	503 SIMILARITY_UNAVAILABLE, CURATOR_UNAVAILABLE
	502 CURATOR_ERROR
	500 INVALID_EMBEDDING, INTERNAL_ERROR
	429 RATE_LIMITED

The legacy routes keep the bare shapes the bundled frontend expects and
report failures as {"detail": "..."}.

Middleware:

Global: request ID, trusted-proxy RealIP, panic recovery, CORS. Data
routes add security headers, Prometheus metrics, an access log, gzip and
a per-client httprate limit chosen per route (search, recommend, default).

Search results are cached in an in-memory LRU keyed by lowercased prefix
and limit. Handler.OnCorpusChanged clears it when an ingest run lands.
*/
package api
