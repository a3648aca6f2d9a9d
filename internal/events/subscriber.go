// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/nextgame/internal/config"
	"github.com/tomtom215/nextgame/internal/metrics"
)

const defaultCloseTimeout = 10 * time.Second

// CorpusChangedHandler reacts to one corpus-changed signal. A returned
// error nacks the message.
type CorpusChangedHandler func(ctx context.Context, e *CorpusChanged) error

// Subscriber consumes corpus-changed signals.
type Subscriber struct {
	subscriber message.Subscriber
	topic      string
	logger     watermill.LoggerAdapter
}

// NewSubscriber connects a Watermill NATS subscriber to cfg.URL. With an
// empty cfg.QueueGroup every subscriber receives every signal.
func NewSubscriber(cfg *config.NATSConfig, logger watermill.LoggerAdapter) (*Subscriber, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	closeTimeout := cfg.CloseTimeout
	if closeTimeout <= 0 {
		closeTimeout = defaultCloseTimeout
	}

	wmConfig := wmNats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: 1,
		CloseTimeout:     closeTimeout,
		AckWaitTimeout:   30 * time.Second,
		NatsOptions:      connectionOptions(cfg, "nextgame-subscriber", logger),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}

	sub, err := wmNats.NewSubscriber(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	return &Subscriber{subscriber: sub, topic: cfg.Topic, logger: logger}, nil
}

// Run delivers signals to handler until ctx is canceled or the subscriber
// is closed. Undecodable payloads are acked and dropped.
func (s *Subscriber) Run(ctx context.Context, handler CorpusChangedHandler) error {
	messages, err := s.subscriber.Subscribe(ctx, s.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			s.processMessage(ctx, msg, handler)
		}
	}
}

func (s *Subscriber) processMessage(ctx context.Context, msg *message.Message, handler CorpusChangedHandler) {
	metrics.RecordNATSConsume()

	event, err := unmarshalCorpusChanged(msg.Payload)
	if err != nil {
		metrics.RecordNATSParseFailed()
		s.logger.Error("Dropping undecodable corpus event", err, watermill.LogFields{
			"message_uuid": msg.UUID,
			"topic":        s.topic,
		})
		msg.Ack()
		return
	}

	if err := handler(ctx, event); err != nil {
		s.logger.Error("Corpus event handler failed", err, watermill.LogFields{
			"event_id": event.EventID,
			"topic":    s.topic,
		})
		msg.Nack()
		return
	}

	msg.Ack()
}

// Close shuts the subscriber down.
func (s *Subscriber) Close() error {
	return s.subscriber.Close()
}
