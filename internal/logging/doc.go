// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

// Package logging wraps zerolog for the whole service.
//
// A single global logger is configured once from main with Init. Long-lived
// components take a zerolog.Logger at construction and derive their own
// child logger with a "component" field:
//
//	logger := logging.WithComponent("catalog")
//	logger.Info().Str("game_id", id).Msg("game stored")
//
// Request handlers use Ctx, which adds the request id stored by the HTTP
// middleware:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("rank failed")
//
// # Configuration
//
// Config is filled from the logging section of the service configuration
// (LOG_LEVEL, LOG_FORMAT, LOG_CALLER):
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//
// # Adapters
//
// Two adapters route third-party logging through zerolog:
//
//   - SlogHandler, for libraries that accept a *slog.Logger (the suture
//     supervisor event hook)
//   - WatermillLogger, for the catalog event bus
//
// Always finish an event with Msg or Send, otherwise nothing is written.
package logging
