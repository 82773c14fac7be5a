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

// ColdStart ranks catalog titles for users without history. It takes the
// Oversample*limit newest published titles and scores them:
//
//	score = avg_rating * RatingWeight + (current_year - release_year) * AgeWeight
//
// With a positive AgeWeight older titles gain points, so the list is not
// only new releases. Unrated titles score on age alone; titles without a
// release year score on rating alone.
type ColdStart struct {
	baseScorer
	cfg recommend.ColdStartConfig
}

// NewColdStart creates the cold-start scorer.
func NewColdStart(cfg recommend.ColdStartConfig) *ColdStart {
	return &ColdStart{
		baseScorer: baseScorer{source: recommend.SourceColdStart},
		cfg:        cfg,
	}
}

// Score implements recommend.Scorer.
//
//nolint:gocritic // hugeParam: q passed by value per Scorer interface
func (c *ColdStart) Score(ctx context.Context, store signalstore.Reader, q recommend.Query) ([]recommend.CandidateItem, error) {
	oversample := c.cfg.Oversample
	if oversample < 1 {
		oversample = 1
	}

	items, err := store.PublishedByReleaseYear(ctx, q.Limit*oversample)
	if err != nil {
		return nil, fmt.Errorf("read newest titles: %w", err)
	}
	if err := signalstore.ValidateContent(items...); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	avg, err := store.AverageRatings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("read average ratings: %w", err)
	}

	year := q.Now.Year()
	cands := make([]candidate, len(items))
	for i := range items {
		score := avg[items[i].ID] * c.cfg.RatingWeight
		if items[i].ReleaseYear > 0 {
			if age := year - items[i].ReleaseYear; age > 0 {
				score += float64(age) * c.cfg.AgeWeight
			}
		}
		cands[i] = candidate{id: items[i].ID, score: score}
	}
	return rank(cands, c.source, q.Limit), nil
}
