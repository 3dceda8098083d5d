// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values shared by the counters below.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Ranking Metrics
	RankRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_rank_requests_total",
			Help: "Total number of ranking requests by outcome",
		},
		[]string{"result"},
	)

	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_rank_duration_seconds",
			Help:    "Time spent ranking candidates for one request",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)

	RankResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_rank_result_size",
			Help:    "Number of games returned by a ranking request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// Snapshot Metrics
	SnapshotBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_snapshot_builds_total",
			Help: "Total number of snapshot builds by outcome",
		},
		[]string{"result"},
	)

	SnapshotBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_snapshot_build_duration_seconds",
			Help:    "Time spent loading the catalog and precomputing a snapshot",
			Buckets: prometheus.DefBuckets,
		},
	)

	SnapshotCatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_catalog_games",
			Help: "Number of games in the current snapshot",
		},
	)

	SnapshotOwnedGames = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_owned_games",
			Help: "Number of club-owned games in the current snapshot",
		},
	)

	SnapshotVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_catalog_version",
			Help: "Catalog version the current snapshot was built from",
		},
	)

	SnapshotLastBuild = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_last_build_timestamp",
			Help: "Unix timestamp of the last successful snapshot build",
		},
	)

	// Catalog Metrics
	CatalogOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_operations_total",
			Help: "Total number of catalog store operations",
		},
		[]string{"operation", "result"},
	)

	CatalogOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_operation_duration_seconds",
			Help:    "Duration of catalog store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	PlayActivitiesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_play_activities_recorded_total",
			Help: "Total number of recorded plays by location",
		},
		[]string{"location"},
	)

	CatalogEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_events_total",
			Help: "Catalog change events by direction (published, consumed, dropped)",
		},
		[]string{"direction"},
	)

	CatalogCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_requests_total",
			Help: "Catalog game cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through the circuit breaker by result",
		},
		[]string{"name", "result"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application build information",
		},
		[]string{"version", "go_version"},
	)
)

func resultLabel(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements active request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordRank records the outcome of one ranking request.
func RecordRank(duration time.Duration, resultSize int, err error) {
	RankRequestsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		return
	}
	RankDuration.Observe(duration.Seconds())
	RankResultSize.Observe(float64(resultSize))
}

// RecordSnapshotBuild records a snapshot build. Gauges are only updated on success.
func RecordSnapshotBuild(duration time.Duration, catalogSize, owned int, version uint64, err error) {
	SnapshotBuildsTotal.WithLabelValues(resultLabel(err)).Inc()
	SnapshotBuildDuration.Observe(duration.Seconds())
	if err != nil {
		return
	}
	SnapshotCatalogSize.Set(float64(catalogSize))
	SnapshotOwnedGames.Set(float64(owned))
	SnapshotVersion.Set(float64(version))
	SnapshotLastBuild.SetToCurrentTime()
}

// RecordCatalogOperation records a catalog store operation.
func RecordCatalogOperation(operation string, duration time.Duration, err error) {
	CatalogOperations.WithLabelValues(operation, resultLabel(err)).Inc()
	CatalogOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordPlayActivity counts a recorded play.
func RecordPlayActivity(location string) {
	PlayActivitiesRecorded.WithLabelValues(location).Inc()
}

// RecordCatalogCache counts a catalog cache lookup.
func RecordCatalogCache(hit bool) {
	if hit {
		CatalogCacheRequests.WithLabelValues("hit").Inc()
		return
	}
	CatalogCacheRequests.WithLabelValues("miss").Inc()
}

// RecordCatalogEvent counts a catalog change event.
func RecordCatalogEvent(direction string) {
	CatalogEvents.WithLabelValues(direction).Inc()
}

// RecordCircuitBreakerRequest counts a request through the named breaker.
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordCircuitBreakerTransition updates the state gauge and transition counter.
func RecordCircuitBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(state)
}
