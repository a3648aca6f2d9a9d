// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package cache provides a thread-safe, generic in-memory LRU cache with TTL.

The API server keeps name-search responses here so that type-ahead traffic
does not reach DuckDB for every keystroke. The cache is cleared whenever a
corpus-changed event arrives.

# Usage

	searches := cache.NewLRU[string, []models.GameSummary](1000, 5*time.Minute)

	if games, ok := searches.Get(key); ok {
	    return games
	}
	games := load()
	searches.Add(key, games)

# Semantics

  - Get and Add are O(1); the least recently used entry is evicted when
    capacity is exceeded.
  - Expiration is lazy: an expired entry is dropped on the Get that finds it.
  - Add on an existing key replaces the value and restarts its TTL.
*/
package cache
