// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package events carries the corpus-changed signal from the ingest job to the
API servers over NATS.

The ingest job publishes a CorpusChanged message after a successful load.
Each API server runs a Subscriber whose handler invalidates the similarity
snapshot and clears the search cache, so the next request rebuilds from the
fresh corpus.

Messaging is core NATS through Watermill's NATS adapter with JetStream
disabled: the signal is idempotent and a missed message is covered by the
periodic snapshot refresh, so no durable stream is provisioned.

EmbeddedServer runs nats-server in process for single-binary deployments
and tests.
*/
package events
