// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/meeplerank/internal/logging"
	"github.com/tomtom215/meeplerank/internal/models"
)

// RecordPlay handles POST /api/v1/games/{id}/plays.
func (h *Handler) RecordPlay(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req PlayRequest
	if err := decodeJSONBody(w, r, &req, maxBodyBytes); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	now := h.clock.Now()
	day := models.Day(req.Day)
	if day.IsZero() {
		day = models.DayOf(now.In(h.location))
	}

	play := models.PlayActivity{
		ID:         uuid.NewString(),
		GameID:     chi.URLParam(r, "id"),
		Day:        day,
		Location:   models.PlayLocation(req.Location),
		RecordedAt: now.UTC(),
	}

	game, err := h.store.RecordPlay(r.Context(), play)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("game_id", play.GameID).
		Str("day", play.Day.String()).
		Str("location", string(play.Location)).
		Msg("play recorded")

	respondSuccess(w, http.StatusCreated, PlayResponse{Game: game, Play: play}, start)
}

// ListPlays handles GET /api/v1/games/{id}/plays.
func (h *Handler) ListPlays(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	plays, err := h.store.PlayActivities(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, plays, start)
}
