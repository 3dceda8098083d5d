// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

/*
Package supervisor provides process supervision for MeepleRank using suture v4.

The tree organizes long-running services into three layers:

	RootSupervisor ("meeplerank")
	├── CatalogSupervisor ("catalog-layer")
	│   └── CatalogGCService
	├── EngineSupervisor ("engine-layer")
	│   └── SnapshotService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer counts failures independently. A snapshot service that keeps
failing is restarted with backoff while the HTTP server keeps answering
from the last good snapshot.

# Usage

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddCatalogService(services.NewCatalogGCService(store, gcCfg, logger))
	tree.AddEngineService(services.NewSnapshotService(engine, events, snapCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

# Service Contract

	nil         -> stopped cleanly, not restarted
	error       -> crashed, restarted by the layer supervisor
	ctx.Err()   -> shutdown requested

Supervisor events (starts, failures, backoff) are logged through sutureslog
into the slog logger bridged to zerolog by internal/logging.

If services do not stop within TreeConfig.ShutdownTimeout,
UnstoppedServiceReport names them.
*/
package supervisor
