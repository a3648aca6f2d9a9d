// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package logging provides the process-wide zerolog logger and adapters.

# Quick Start

	logging.Init(logging.Config{Level: "info", Format: "json"})

	logging.Info().Msg("server starting")
	logging.Ctx(ctx).Warn().Int64("appid", id).Msg("no text for game")

Long-lived components take a zerolog.Logger by value and tag a child:

	logger = logger.With().Str("component", "curator").Logger()

# Request Context

The request ID middleware calls ContextWithRequestID, which stores the
request ID and mints an 8-character correlation ID. Ctx returns a logger
carrying both.

# Adapters

  - SlogHandler routes log/slog records into zerolog; suture reports
    service restarts through it via sutureslog.
  - WatermillAdapter implements watermill.LoggerAdapter so the NATS
    publisher and subscriber log through the same sink.

# Configuration

Environment Variables:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_CALLER: true/false (default: false)
*/
package logging
