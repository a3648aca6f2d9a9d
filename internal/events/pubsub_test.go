// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/nextgame/internal/config"
	"github.com/tomtom215/nextgame/internal/logging"
)

func startEmbeddedServer(t *testing.T) *EmbeddedServer {
	t.Helper()
	srv, err := NewEmbeddedServer("127.0.0.1", -1)
	if err != nil {
		t.Fatalf("NewEmbeddedServer() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	return srv
}

func testNATSConfig(url string) *config.NATSConfig {
	return &config.NATSConfig{
		Enabled:        true,
		URL:            url,
		Topic:          "nextgame.corpus.changed",
		ConnectTimeout: 2 * time.Second,
		CloseTimeout:   2 * time.Second,
	}
}

func TestEmbeddedServer(t *testing.T) {
	srv := startEmbeddedServer(t)

	if !srv.IsRunning() {
		t.Fatal("server should be running")
	}
	nc, err := natsgo.Connect(srv.ClientURL())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	nc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if srv.IsRunning() {
		t.Error("server should be stopped")
	}
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	srv := startEmbeddedServer(t)
	cfg := testNATSConfig(srv.ClientURL())
	logger := logging.NewWatermillAdapter(zerolog.Nop())

	sub, err := NewSubscriber(cfg, logger)
	if err != nil {
		t.Fatalf("NewSubscriber() error = %v", err)
	}
	defer sub.Close()

	pub, err := NewPublisher(cfg, logger)
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}
	defer pub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	received := make(chan *CorpusChanged, 16)
	go func() {
		sub.Run(ctx, func(ctx context.Context, e *CorpusChanged) error {
			select {
			case received <- e:
			case <-ctx.Done():
			}
			return nil
		})
	}()

	// Core NATS drops messages published before the subscription is
	// registered, so keep publishing until one arrives.
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case e := <-received:
			if e.Source != "games.parquet" || e.Rows != 100 || e.Skipped != 3 {
				t.Errorf("event = %+v", e)
			}
			if e.EventID == "" || e.At.IsZero() {
				t.Error("publisher should fill EventID and At")
			}
			return
		case <-ticker.C:
			if err := pub.PublishCorpusChanged(ctx, CorpusChanged{Source: "games.parquet", Rows: 100, Skipped: 3}); err != nil {
				t.Fatalf("PublishCorpusChanged() error = %v", err)
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for corpus event")
		}
	}
}

func TestPublisherClose(t *testing.T) {
	srv := startEmbeddedServer(t)
	pub, err := NewPublisher(testNATSConfig(srv.ClientURL()), nil)
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}

	if err := pub.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := pub.PublishCorpusChanged(context.Background(), CorpusChanged{}); !errors.Is(err, ErrPublisherClosed) {
		t.Errorf("publish after close error = %v, want ErrPublisherClosed", err)
	}
}

func TestSubscriberRunStopsOnCancel(t *testing.T) {
	srv := startEmbeddedServer(t)
	sub, err := NewSubscriber(testNATSConfig(srv.ClientURL()), nil)
	if err != nil {
		t.Fatalf("NewSubscriber() error = %v", err)
	}
	defer sub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sub.Run(ctx, func(context.Context, *CorpusChanged) error { return nil })
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
