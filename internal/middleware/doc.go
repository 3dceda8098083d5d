// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

/*
Package middleware provides HTTP instrumentation middleware.

  - PrometheusMetrics: request counts, latency and in-flight gauge, labelled
    by the chi route pattern so that game ids do not explode cardinality
  - AccessLog: one zerolog entry per request, escalated for slow requests
    and server errors

Both are plain http.HandlerFunc wrappers; the api package adapts them to
chi's r.Use.
*/
package middleware
