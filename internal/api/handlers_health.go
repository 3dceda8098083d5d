// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/meeplerank/internal/models"
)

// Health reports liveness. The service is "degraded" when the catalog
// store cannot be read or no snapshot has been built yet.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	version, err := h.store.Version(r.Context())
	catalogOK := err == nil
	ready := h.engine.Ready()

	status := "healthy"
	if !catalogOK || !ready {
		status = "degraded"
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"catalog_reachable": catalogOK,
			"catalog_version":   version,
			"snapshot_ready":    ready,
			"uptime":            h.clock.Now().Sub(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady returns 200 once recommendations can be served, 503 before.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()

	statusCode := http.StatusOK
	status := "ready"
	if !st.Ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"snapshot_ready":  st.Ready,
			"catalog_version": st.CatalogVersion,
			"failed_builds":   st.FailedBuilds,
		},
		Metadata: models.Metadata{
			Timestamp:       time.Now(),
			SnapshotVersion: st.CatalogVersion,
		},
	})
}
