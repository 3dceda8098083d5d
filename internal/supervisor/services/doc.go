// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

/*
Package services provides suture.Service wrappers for MeepleRank components.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server; ListenAndServe runs until the context ends
  - Graceful Shutdown with a configurable drain timeout

Snapshot (SnapshotService):
  - Builds the recommendation snapshot on start
  - Rebuilds when the refresh ticker finds the catalog version or the
    calendar day changed
  - Rebuilds on catalog change events from the watermill bus, spaced by an
    x/time/rate limiter so bursts of writes coalesce
  - Runs every rebuild through a gobreaker circuit breaker

Catalog GC (CatalogGCService):
  - Periodic badger value log garbage collection

# Error Handling

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

Every service implements fmt.Stringer so suture log lines name it.
*/
package services
