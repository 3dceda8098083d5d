// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/meeplerank/internal/logging"
	"github.com/tomtom215/meeplerank/internal/models"
)

// ListGames handles GET /api/v1/games. ?owned=true keeps club-owned games only.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ownedOnly := false
	if v := r.URL.Query().Get("owned"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "owned must be true or false", nil)
			return
		}
		ownedOnly = parsed
	}

	games, err := h.store.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make([]*models.Game, 0, len(games))
	for _, g := range games {
		if ownedOnly && !g.OwnedByClub {
			continue
		}
		out = append(out, g)
	}

	respondSuccess(w, http.StatusOK, out, start)
}

// GetGame handles GET /api/v1/games/{id}.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	game, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, game, start)
}

// PutGame handles PUT /api/v1/games/{id}. The body's id, when set, must
// match the path. Responds 201 for new games and 200 for replacements.
func (h *Handler) PutGame(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	var game models.Game
	if err := decodeJSONBody(w, r, &game, maxBodyBytes); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if game.ID == "" {
		game.ID = id
	}
	if game.ID != id {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "id in body does not match path", nil)
		return
	}
	if apiErr := validateRequest(&game); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	created, err := h.store.Put(r.Context(), &game)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("game_id", game.ID).Bool("created", created).Msg("game stored")

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondSuccess(w, status, &game, start)
}

// DeleteGame handles DELETE /api/v1/games/{id}.
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("game_id", id).Msg("game deleted")
	w.WriteHeader(http.StatusNoContent)
}

// BatchGames handles POST /api/v1/games/batch. Additions and updates are
// written in one transaction; updates are applied after additions.
func (h *Handler) BatchGames(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BatchRequest
	if err := decodeJSONBody(w, r, &req, maxBatchBodyBytes); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	games := make([]*models.Game, 0, len(req.Additions)+len(req.Updates))
	games = append(games, req.Additions...)
	games = append(games, req.Updates...)

	result, err := h.store.PutBatch(r.Context(), games)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("added", result.Added).
		Int("updated", result.Updated).
		Uint64("version", result.Version).
		Msg("catalog batch applied")

	respondSuccess(w, http.StatusOK, result, start)
}
