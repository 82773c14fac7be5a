// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package recommend implements the rule-based recommendation engine.
//
// # Architecture
//
// Five independent scorers (see the algorithms subpackage) read viewing
// signals through signalstore.Reader and each produce an ordered list of
// CandidateItem values:
//
//   - collaborative: items watched by users who share a title with the target
//   - content: attribute overlap with a source item
//   - personalized: genre preference learned from positive ratings
//   - trending: play counts inside a time window
//   - cold_start: average rating plus catalog age, for users with no history
//
// The Engine owns the scorer registry and the hybrid combiner, which blends
// collaborative, personalized and trending output by rank decay.
//
// # Determinism
//
// Scoring is deterministic. Ties keep store read order, which the store
// contract fixes per method, so identical inputs always give identical lists.
//
// # Failure Model
//
// Recommendations are advisory. Store errors, malformed rows and scorer
// panics are logged at Warn with the source tag and become an empty list.
// An empty list is a valid answer; ForUser branches to cold-start on it.
//
// # Usage
//
//	engine, err := recommend.NewEngine(store, recommend.DefaultConfig(), logging.Logger())
//	if err != nil {
//	    return err
//	}
//	algorithms.RegisterAll(engine)
//
//	items := engine.ForUser(ctx, "alice", 10)
//
// # Thread Safety
//
// The engine is safe for concurrent use. Scorers hold no mutable state.
package recommend
