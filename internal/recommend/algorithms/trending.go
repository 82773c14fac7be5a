// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package algorithms

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/signalstore"
)

// Trending ranks published items by play events in the last WindowDays days.
//
//	score(item) = count(play events for item since now - window)
//
// Ties go to the item played most recently, then to content id order.
type Trending struct {
	baseScorer
}

// NewTrending creates the trending scorer.
func NewTrending() *Trending {
	return &Trending{baseScorer{source: recommend.SourceTrending}}
}

// Score implements recommend.Scorer.
//
//nolint:gocritic // hugeParam: q passed by value per Scorer interface
func (t *Trending) Score(ctx context.Context, store signalstore.Reader, q recommend.Query) ([]recommend.CandidateItem, error) {
	since := q.Now.Add(-time.Duration(q.WindowDays) * 24 * time.Hour)

	counts, err := store.PlayCountsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("read play counts: %w", err)
	}
	if len(counts) == 0 {
		return nil, nil
	}

	ids := make([]string, len(counts))
	for i := range counts {
		ids[i] = counts[i].ContentID
	}
	published, err := keepPublished(ctx, store, ids)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]struct{}, len(published))
	for _, id := range published {
		keep[id] = struct{}{}
	}

	rows := make([]signalstore.PlayCount, 0, len(published))
	for i := range counts {
		if _, ok := keep[counts[i].ContentID]; ok && counts[i].Plays > 0 {
			rows = append(rows, counts[i])
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Plays != rows[j].Plays {
			return rows[i].Plays > rows[j].Plays
		}
		return rows[i].LastPlayed.After(rows[j].LastPlayed)
	})

	if len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	out := make([]recommend.CandidateItem, len(rows))
	for i := range rows {
		out[i] = recommend.CandidateItem{
			ContentID: rows[i].ContentID,
			Score:     float64(rows[i].Plays),
			Source:    t.source,
		}
	}
	return out, nil
}
