// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

/*
Package metrics provides Prometheus collectors for the recommendation service.

All collectors are registered on the default registry through promauto and
exposed by the HTTP router at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

API:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Ranking:
  - recommend_rank_requests_total{result}
  - recommend_rank_duration_seconds
  - recommend_rank_result_size

Snapshots:
  - recommend_snapshot_builds_total{result}
  - recommend_snapshot_build_duration_seconds
  - recommend_snapshot_catalog_games, recommend_snapshot_owned_games
  - recommend_snapshot_catalog_version, recommend_snapshot_last_build_timestamp

Catalog:
  - catalog_operations_total{operation, result}
  - catalog_operation_duration_seconds{operation}
  - catalog_play_activities_recorded_total{location}
  - catalog_events_total{direction}

Circuit breaker:
  - circuit_breaker_state{name}
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_transitions_total{name, from, to}

Use the Record* helpers rather than touching collectors directly so label
values stay consistent.
*/
package metrics
