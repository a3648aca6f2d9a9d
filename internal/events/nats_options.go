// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/nextgame/internal/config"
)

const (
	reconnectWait     = 2 * time.Second
	defaultConnectTTL = 5 * time.Second
)

// connectionOptions returns nats.go options shared by publishers and
// subscribers: unlimited reconnects with disconnect and reconnect logging.
func connectionOptions(cfg *config.NATSConfig, name string, logger watermill.LoggerAdapter) []natsgo.Option {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTTL
	}

	return []natsgo.Option{
		natsgo.Name(name),
		natsgo.Timeout(timeout),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(reconnectWait),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, watermill.LogFields{"client": name})
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"client": name,
				"url":    nc.ConnectedUrl(),
			})
		}),
		natsgo.ErrorHandler(func(nc *natsgo.Conn, sub *natsgo.Subscription, err error) {
			fields := watermill.LogFields{"client": name}
			if sub != nil {
				fields["subject"] = sub.Subject
			}
			logger.Error("NATS error", err, fields)
		}),
	}
}
