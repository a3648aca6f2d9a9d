// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package services adapts NextGame components to suture.Service.

  - HTTPServerService: *http.Server with graceful shutdown
  - CorpusRefreshService: warms the corpus snapshot and refreshes it on a ticker
  - CorpusEventService: consumes corpus-changed signals and runs the reload hooks
  - EmbeddedNATSService: owns the lifetime of an in-process NATS server

Every wrapper implements fmt.Stringer so suture logs a readable name.
*/
package services
