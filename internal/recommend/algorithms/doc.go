// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package algorithms implements the scorers behind the recommendation engine.
//
// Each scorer implements recommend.Scorer, reads signals through
// signalstore.Reader on every call and keeps no state between calls.
//
// # Scorers
//
// Collaborative: the target's watched titles form the seed set; users who
// watched any seed title are neighbors; their other titles are returned in
// first-seen order (neighbors by user id, titles by content id).
//
// ContentBased: additive attribute points against a source item:
//
//	score = genre·[genres overlap] + director·[same director] +
//	        cast·[cast overlap] + studio·[same studio]
//
// Personalized: the top genres of titles rated at or above the star
// threshold earn (top - rank)·step points per matching genre. Requires at
// least one completed title and one positive rating.
//
// Trending: play events inside the window, most plays first, most recent
// play breaking ties.
//
// ColdStart: newest titles oversampled, then
//
//	score = avg_rating·ratingWeight + age_years·ageWeight
//
// # Rows
//
// Rows are validated as they are read. A malformed catalog or progress row
// fails the whole call with signalstore.ErrMalformedRecord, which the engine
// turns into an empty result.
package algorithms
