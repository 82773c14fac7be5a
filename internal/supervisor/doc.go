// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package supervisor runs Marquee's long-lived services under a suture v4 tree.

	RootSupervisor ("marquee")
	├── DataSupervisor ("data-layer")
	│   └── StoreMaintenanceService (DuckDB ping and checkpoint)
	├── MessagingSupervisor ("messaging-layer")
	│   └── recorder.Consumer (Watermill router persisting playback reports)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer restarts its own children with backoff, so a consumer crash
loop never takes the HTTP server down with it. Supervisor events are
logged through sutureslog into the zerolog-backed slog handler.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewStoreMaintenanceService(db, cfg.Database.CheckpointInterval, logger))
	tree.AddMessagingService(consumer)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}
*/
package supervisor
