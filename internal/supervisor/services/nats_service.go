// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// EmbeddedServer is the lifecycle of an in-process NATS server.
// *events.EmbeddedServer implements it.
type EmbeddedServer interface {
	IsRunning() bool
	Shutdown(ctx context.Context) error
}

// ErrEmbeddedServerStopped is returned when the server stops on its own.
var ErrEmbeddedServerStopped = errors.New("embedded NATS server stopped")

// EmbeddedNATSService shuts the embedded server down with the tree. The
// server is started by its constructor so clients can connect before the
// tree runs. Restarting the service does not restart a dead server; the
// error only surfaces through supervisor events.
type EmbeddedNATSService struct {
	server          EmbeddedServer
	shutdownTimeout time.Duration
	pollInterval    time.Duration
	name            string
}

// NewEmbeddedNATSService wraps server.
func NewEmbeddedNATSService(server EmbeddedServer, shutdownTimeout time.Duration) *EmbeddedNATSService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EmbeddedNATSService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		pollInterval:    5 * time.Second,
		name:            "nats-embedded-server",
	}
}

// Serve implements suture.Service.
func (s *EmbeddedNATSService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			if err := s.server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("embedded NATS shutdown: %w", err)
			}
			return ctx.Err()
		case <-ticker.C:
			if !s.server.IsRunning() {
				return ErrEmbeddedServerStopped
			}
		}
	}
}

func (s *EmbeddedNATSService) String() string {
	return s.name
}
