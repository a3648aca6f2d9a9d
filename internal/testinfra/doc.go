// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

// Package testinfra provides container-backed infrastructure for
// integration tests. Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/testinfra/...
//
// # NATS Container
//
// NATSContainer runs the official NATS image so the corpus change
// publisher and subscriber can be exercised against a real broker rather
// than the in-process server the unit tests use:
//
//	nats, err := testinfra.NewNATSContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	testinfra.CleanupContainer(t, nats.Container)
//
// # CI Considerations
//
// Tests are skipped when Docker is unavailable or with -short. The first
// run pulls the image.
package testinfra
