// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package api

import (
	"github.com/tomtom215/meeplerank/internal/models"
	"github.com/tomtom215/meeplerank/internal/recommend"
)

// RecommendRequest is the body of POST /api/v1/recommendations.
type RecommendRequest struct {
	// FavoriteIDs may be empty; then the favorite-match signal stays at zero
	// and no game is excluded for lacking shared terms.
	FavoriteIDs []string `json:"favorite_ids" validate:"max=100,dive,required,numeric"`

	// CandidateIDs restricts ranking to these games. Omit to rank the catalog.
	CandidateIDs []string `json:"candidate_ids,omitempty" validate:"max=10000,dive,required,numeric"`

	PlayerCounts []int `json:"player_counts" validate:"required,min=1,max=20,dive,min=1,max=100"`

	PlayTime *PlayTimeRequest `json:"play_time,omitempty"`

	Limit int `json:"limit,omitempty" validate:"min=0,max=1000"`
}

// PlayTimeRequest is the requested play time window in minutes.
type PlayTimeRequest struct {
	Low  int `json:"low" validate:"min=0"`
	High int `json:"high" validate:"min=0,gtefield=Low"`
}

// toRankRequest converts the validated body to an engine request.
func (r *RecommendRequest) toRankRequest() recommend.RankRequest {
	req := recommend.RankRequest{
		FavoriteIDs:  r.FavoriteIDs,
		CandidateIDs: r.CandidateIDs,
		PlayerCounts: r.PlayerCounts,
		Limit:        r.Limit,
	}
	if r.PlayTime != nil {
		req.PlayTime = &recommend.PlayTimeWindow{Low: r.PlayTime.Low, High: r.PlayTime.High}
	}
	return req
}

// PlayRequest is the body of POST /api/v1/games/{id}/plays.
type PlayRequest struct {
	// Day defaults to today in the configured timezone.
	Day      string `json:"day,omitempty" validate:"omitempty,day"`
	Location string `json:"location" validate:"required,playlocation"`
}

// BatchRequest is the body of POST /api/v1/games/batch.
type BatchRequest struct {
	Additions []*models.Game `json:"additions" validate:"max=10000,dive,required"`
	Updates   []*models.Game `json:"updates" validate:"max=10000,dive,required"`
}

// PlayResponse is returned after recording a play.
type PlayResponse struct {
	Game *models.Game        `json:"game"`
	Play models.PlayActivity `json:"play"`
}
