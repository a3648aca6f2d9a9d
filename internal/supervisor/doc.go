// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package supervisor runs the long-lived parts of the NextGame server under a
suture v4 supervisor tree.

	RootSupervisor ("nextgame")
	├── DataSupervisor ("data-layer")
	│   └── CorpusRefreshService
	├── MessagingSupervisor ("messaging-layer")
	│   ├── EmbeddedNATSService (if NATS_EMBEDDED)
	│   └── CorpusEventService (if NATS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer restarts its own children with exponential backoff. Supervisor
events are logged through sutureslog into the zerolog pipeline
(logging.NewSlogLogger).

DuckDB is not supervised: it is an embedded library whose handle lives for
the whole process.

# Service Interface

	type Service interface {
	    Serve(ctx context.Context) error
	}

Returning an error restarts the service. Returning after ctx is canceled
ends it.

# Shutdown

The root context is canceled on SIGINT or SIGTERM. Services that miss
TreeConfig.ShutdownTimeout are listed by UnstoppedServiceReport.
*/
package supervisor
