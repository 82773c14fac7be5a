// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package main is the entry point for the Marquee server.

Marquee serves recommendations and engagement insights from the viewing
signals of a streaming catalog, and records playback reports back into the
same DuckDB signal store.

# Application Architecture

	RootSupervisor ("marquee")
	├── DataSupervisor ("data-layer")
	│   └── store-maintenance (ping and CHECKPOINT)
	├── MessagingSupervisor ("messaging-layer")
	│   └── recorder-consumer (Watermill router, gochannel or NATS JetStream)
	└── APISupervisor ("api-layer")
	    └── http-server (chi router)

Initialization order:

 1. Configuration: koanf v2 defaults, optional config.yaml, environment
 2. Logging: zerolog, JSON or console
 3. Database: DuckDB signal store, optionally seeded with demo data
 4. Recommendation engine with all scorers, engagement and churn, reading
    through the optional circuit breaker
 5. Playback recorder, its transport and consumer
 6. HTTP handlers and router
 7. Supervisor tree, run until SIGINT or SIGTERM

On shutdown the tree stops every service, then the recorder and its
transport are closed and the database is checkpointed and closed.

# Build Tags

	go build ./cmd/server             # in-process gochannel transport
	go build -tags nats ./cmd/server  # adds the NATS JetStream backend

# Environment

See internal/config for the full list. Common settings:

	HTTP_PORT=3870
	DUCKDB_PATH=/data/marquee.duckdb
	SEED_DEMO_DATA=true
	RECORDER_BACKEND=gochannel
	LOG_LEVEL=info
*/
package main
