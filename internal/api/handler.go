// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package api

import (
	"time"

	"github.com/tomtom215/meeplerank/internal/catalog"
	"github.com/tomtom215/meeplerank/internal/recommend"
)

// HandlerConfig holds optional handler settings.
type HandlerConfig struct {
	// Location is the timezone for "today" when a play omits its day.
	// Default: UTC
	Location *time.Location

	// RankTimeout bounds one ranking request.
	// Default: 10s
	RankTimeout time.Duration

	// Clock defaults to the system clock.
	Clock recommend.Clock
}

// Handler serves the catalog, play and recommendation endpoints.
type Handler struct {
	store       catalog.Store
	engine      *recommend.Engine
	location    *time.Location
	rankTimeout time.Duration
	clock       recommend.Clock
	startTime   time.Time
}

// NewHandler creates a handler over the catalog store and ranking engine.
func NewHandler(store catalog.Store, engine *recommend.Engine, cfg HandlerConfig) *Handler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.RankTimeout <= 0 {
		cfg.RankTimeout = 10 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = recommend.SystemClock
	}

	return &Handler{
		store:       store,
		engine:      engine,
		location:    cfg.Location,
		rankTimeout: cfg.RankTimeout,
		clock:       cfg.Clock,
		startTime:   cfg.Clock.Now(),
	}
}
