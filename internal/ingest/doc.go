// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package ingest loads a games source file into the DuckDB games table.

A run scans the source (Parquet, JSON, JSON Lines or CSV) through DuckDB,
normalizes every row once, upserts rows in batches, checkpoints the
database and finally announces the new corpus on NATS so that API servers
drop their similarity snapshots.

Normalization rules:
  - list fields (genres, categories, supported_languages, developers,
    publishers) are joined with ", "
  - tags given as a name -> votes map are joined most voted first
  - release dates accept ISO and the common storefront formats; anything
    else is stored as NULL
  - embeddings may be a packed float32 blob or a numeric list and must have
    the configured dimensionality

Rows without appid, name, text_for_embedding or a valid embedding are
skipped and logged; the run continues.
*/
package ingest
