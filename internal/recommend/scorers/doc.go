// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

// Package scorers implements the individual ranking signals.
//
// Each scorer is split in two phases. The constructor precomputes whatever
// depends only on the catalog (term weights, rating range, poll summaries,
// the daily selection) and the Score method evaluates a set of candidate
// games against the request. Scorers are immutable after construction and
// safe for concurrent use.
//
// A scorer reports its output as a Signal: a score per game id, and the set
// of game ids for which the scorer itself considers the signal notable.
// Games missing from Signal.Scores contribute nothing to the aggregate.
//
// Signals:
//
//	rating         community rating, min-max normalized over owned games
//	favoriteMatch  IDF-weighted tag overlap with the requester's favorites
//	playTime       estimated duration fit for the requested player counts
//	players        community "best/recommended" poll fit
//	randomDaily    deterministic daily promotion of ~10% of owned games
//	recency        recently acquired or recently played games
package scorers
