// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package similarity ranks games by cosine similarity of their embeddings.

The package is pure computation with no I/O. It has three parts:

  - Load builds a Corpus (dense row-major matrix plus parallel IDs) from raw
    (appid, blob) records, skipping rows that fail to decode.
  - Rank scores a query vector against every corpus row and returns the best
    matches excluding the query's own appid.
  - ResolveTexts maps ranked appids to their descriptive text.

# Ordering

Corpus row order is the order the records were supplied in. Rank sorts
stably by descending score, so rows with identical scores keep their corpus
order. The store returns records ordered by appid, which makes results
reproducible across restarts.

# Similarity

	sim(a, b) = dot(a, b) / (|a| * |b|)

A zero-norm vector on either side yields 0. Scores are accumulated in
float64.
*/
package similarity
