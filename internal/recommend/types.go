// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/marquee/internal/signalstore"
)

// Source tags which scorer produced a candidate.
type Source string

const (
	// SourceCollaborative is neighbor-based collaborative filtering.
	SourceCollaborative Source = "collaborative"
	// SourceContent is attribute similarity to a source item.
	SourceContent Source = "content"
	// SourcePersonalized is genre preference from positive ratings.
	SourcePersonalized Source = "personalized"
	// SourceTrending is play counts inside a time window.
	SourceTrending Source = "trending"
	// SourceColdStart is catalog quality for users without history.
	SourceColdStart Source = "cold_start"
	// SourceHybrid is the rank-decayed blend of collaborative, personalized and trending.
	SourceHybrid Source = "hybrid"
)

// String returns the tag as used in logs, metrics and JSON.
func (s Source) String() string {
	return string(s)
}

// CandidateItem is one ranked suggestion. Every scorer produces the same shape.
type CandidateItem struct {
	// ContentID identifies the recommended item.
	ContentID string `json:"content_id"`

	// Score is finite and non-negative. Higher ranks first.
	Score float64 `json:"score"`

	// Source is the scorer that produced the item.
	Source Source `json:"source"`

	// Contributions breaks a hybrid score down per input source.
	Contributions map[Source]float64 `json:"contributions,omitempty"`
}

// Query carries the inputs of one scorer invocation.
type Query struct {
	// UserID is the target user. Optional for content-based scoring and
	// ignored by trending and cold-start.
	UserID string

	// ContentID is the source item for content-based scoring.
	ContentID string

	// Limit is the maximum number of candidates to return. The engine
	// normalizes it before any scorer sees it.
	Limit int

	// WindowDays is the trending window.
	WindowDays int

	// Now is the evaluation time.
	Now time.Time
}

// Scorer produces a ranked candidate list from signal store reads.
//
// Implementations are stateless between calls and must return at most
// q.Limit items, ordered best first. An empty slice with a nil error means
// there was nothing to recommend. Errors are reported to the engine, which
// logs them and degrades to an empty result.
type Scorer interface {
	// Source returns the tag stamped on every produced candidate.
	Source() Source

	// Score runs the algorithm.
	Score(ctx context.Context, store signalstore.Reader, q Query) ([]CandidateItem, error)
}

// ContentIDs returns the ids of items in order.
func ContentIDs(items []CandidateItem) []string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ContentID
	}
	return ids
}
