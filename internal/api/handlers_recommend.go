// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/meeplerank/internal/logging"
	"github.com/tomtom215/meeplerank/internal/models"
)

// Recommend handles POST /api/v1/recommendations.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RecommendRequest
	if err := decodeJSONBody(w, r, &req, maxBodyBytes); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.rankTimeout)
	defer cancel()

	result, err := h.engine.Rank(ctx, req.toRankRequest())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if len(result.UnknownCandidates) > 0 {
		logging.Ctx(r.Context()).Warn().
			Strs("game_ids", result.UnknownCandidates).
			Msg("recommendation request named unknown candidates")
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			Timestamp:       h.clock.Now(),
			QueryTimeMS:     time.Since(start).Milliseconds(),
			SnapshotVersion: result.SnapshotVersion,
		},
	})
}

// RecommendStatus handles GET /api/v1/recommendations/status.
func (h *Handler) RecommendStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, h.engine.Status(), time.Now())
}

// RecommendConfig handles GET /api/v1/recommendations/config.
func (h *Handler) RecommendConfig(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, h.engine.Config(), time.Now())
}
