// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package algorithms

import (
	"context"
	"fmt"

	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/signalstore"
)

// Collaborative recommends what neighbors watched. A neighbor is any other
// user with a progress row on one of the target's titles.
//
// The result carries no similarity weighting: candidates are returned in
// first-seen order and scored by rank, (N - idx) / N.
type Collaborative struct {
	baseScorer
}

// NewCollaborative creates the collaborative scorer.
func NewCollaborative() *Collaborative {
	return &Collaborative{baseScorer{source: recommend.SourceCollaborative}}
}

// Score implements recommend.Scorer.
//
//nolint:gocritic // hugeParam: q passed by value per Scorer interface
func (c *Collaborative) Score(ctx context.Context, store signalstore.Reader, q recommend.Query) ([]recommend.CandidateItem, error) {
	if q.UserID == "" {
		return nil, nil
	}

	seedRows, err := progressFor(ctx, store, q.UserID)
	if err != nil {
		return nil, err
	}
	if len(seedRows) == 0 {
		return nil, nil
	}

	seed := make(map[string]struct{}, len(seedRows))
	seedIDs := make([]string, 0, len(seedRows))
	for i := range seedRows {
		if _, dup := seed[seedRows[i].ContentID]; !dup {
			seed[seedRows[i].ContentID] = struct{}{}
			seedIDs = append(seedIDs, seedRows[i].ContentID)
		}
	}

	shared, err := store.ProgressForContents(ctx, seedIDs)
	if err != nil {
		return nil, fmt.Errorf("read progress for seed set: %w", err)
	}
	if err := signalstore.ValidateProgress(shared...); err != nil {
		return nil, err
	}

	neighbors := make([]string, 0)
	seenNeighbor := make(map[string]struct{})
	for i := range shared {
		u := shared[i].UserID
		if u == q.UserID {
			continue
		}
		if _, ok := seenNeighbor[u]; !ok {
			seenNeighbor[u] = struct{}{}
			neighbors = append(neighbors, u)
		}
	}
	if len(neighbors) == 0 {
		return nil, nil
	}

	var ordered []string
	seen := make(map[string]struct{})
	for _, n := range neighbors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := progressFor(ctx, store, n)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			id := rows[i].ContentID
			if _, inSeed := seed[id]; inSeed {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ordered = append(ordered, id)
		}
	}

	ordered, err = keepPublished(ctx, store, ordered)
	if err != nil {
		return nil, err
	}
	if len(ordered) > q.Limit {
		ordered = ordered[:q.Limit]
	}

	out := make([]recommend.CandidateItem, len(ordered))
	for idx, id := range ordered {
		out[idx] = recommend.CandidateItem{
			ContentID: id,
			Score:     float64(q.Limit-idx) / float64(q.Limit),
			Source:    c.source,
		}
	}
	return out, nil
}
