// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/nextgame/internal/config"
	"github.com/tomtom215/nextgame/internal/metrics"
)

// Publisher sends corpus-changed signals.
type Publisher struct {
	publisher message.Publisher
	topic     string
	mu        sync.RWMutex
	closed    bool
	logger    watermill.LoggerAdapter
}

// NewPublisher connects a Watermill NATS publisher to cfg.URL.
func NewPublisher(cfg *config.NATSConfig, logger watermill.LoggerAdapter) (*Publisher, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: connectionOptions(cfg, "nextgame-publisher", logger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return &Publisher{
		publisher: pub,
		topic:     cfg.Topic,
		logger:    logger,
	}, nil
}

// PublishCorpusChanged sends e on the configured topic. Missing EventID and
// At are filled in.
func (p *Publisher) PublishCorpusChanged(ctx context.Context, e CorpusChanged) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if e.EventID == "" {
		e.EventID = watermill.NewUUID()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	data, err := marshalCorpusChanged(&e)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(e.EventID, data)
	msg.Metadata.Set(MetadataEventType, EventTypeCorpusChanged)
	msg.Metadata.Set(MetadataSource, e.Source)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}

	metrics.RecordNATSPublish()
	p.logger.Info("Published corpus change", watermill.LogFields{
		"event_id": e.EventID,
		"topic":    p.topic,
		"rows":     e.Rows,
	})
	return nil
}

// Close shuts the publisher down. It is safe to call more than once.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}
