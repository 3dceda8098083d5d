// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

/*
Package api provides the HTTP interface of MeepleRank on the chi router.

# Endpoints

Health (lenient rate limit):

	GET    /api/v1/health              liveness and catalog reachability
	GET    /api/v1/health/ready        200 once a recommendation snapshot exists

Catalog:

	GET    /api/v1/games               list games in catalog order (?owned=true)
	POST   /api/v1/games/batch         upsert additions and updates in one write
	GET    /api/v1/games/{id}          one game
	PUT    /api/v1/games/{id}          create or replace a game
	DELETE /api/v1/games/{id}          remove a game and its plays
	POST   /api/v1/games/{id}/plays    record a play
	GET    /api/v1/games/{id}/plays    play history

Recommendations:

	POST   /api/v1/recommendations         rank games for favorites and player counts
	GET    /api/v1/recommendations/status  snapshot version, size and build history
	GET    /api/v1/recommendations/config  active weights and thresholds

Metrics:

	GET    /metrics                    Prometheus exposition

Every JSON response uses the models.APIResponse envelope.
*/
package api
