// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package retrieval finds the games most similar to a target game.

Engine is the single entry point used by the HTTP layer. FindSimilar runs a
linear pipeline:

 1. Fetch the target's embedding from the Store and decode it. A missing
    appid fails with ErrNotFound; a malformed blob fails with an error that
    matches embedding.ErrShape.
 2. Obtain the corpus, either from the SnapshotCache or by loading every
    vector from the Store. No usable vectors fails with ErrEmptyCorpus.
 3. Rank the corpus against the target, excluding the target itself.
 4. Fetch descriptive texts for the ranked appids and return them in rank
    order, dropping any that could not be resolved.

An empty result is not an error; it means there is nothing to recommend.

# Snapshots

Loading every vector on each request is wasteful at tens of thousands of
games. SnapshotCache keeps an immutable, versioned Corpus and swaps it
atomically:

  - at most one rebuild runs at a time; concurrent demands share it
  - readers keep the snapshot they already hold while a rebuild runs
  - Invalidate marks the snapshot stale; the next read triggers a
    background rebuild and is served the stale snapshot meanwhile
  - Refresh rebuilds and waits (used by the scheduled refresh service)
  - a failed background rebuild leaves the previous snapshot in place

The ingest job signals corpus changes over NATS; the server's event
listener calls Invalidate.
*/
package retrieval
