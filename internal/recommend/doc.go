// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

// Package recommend ranks the club catalog for a requester.
//
// # Architecture
//
// Ranking is split in two phases:
//
//   - BuildSnapshot precomputes everything that depends only on the catalog:
//     tag weights, the rating range, player-count poll summaries and the
//     daily promotion. A Snapshot is immutable and shared by concurrent
//     requests.
//   - Snapshot.Rank evaluates the candidates against one request (favorites,
//     player counts, optional play time window) and returns them ordered by
//     an explainable weighted score.
//
// The aggregate score is
//
//	score = Σ signal_i × weight_i
//
// over the six signals in AllSignals. A signal a scorer did not produce for
// a game contributes 0. When favorites are given, games with no favorite
// overlap are dropped from the result.
//
// Each result also lists the signals that stand out: a signal is relevant
// when its value is strictly above the value at the configured percentile
// of that signal across the result, or when the scorer flagged it itself.
//
// # Engine
//
// Engine wraps the snapshot lifecycle for the server: it loads the catalog
// through a CatalogSource, swaps the snapshot atomically, and resolves game
// ids in API requests.
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), store, recommend.SystemClock, logger)
//	if err := engine.Rebuild(ctx); err != nil { ... }
//	res, err := engine.Rank(ctx, recommend.RankRequest{
//	    FavoriteIDs:  []string{"13", "822"},
//	    PlayerCounts: []int{4},
//	})
package recommend
