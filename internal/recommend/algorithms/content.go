// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package algorithms

import (
	"context"
	"fmt"

	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/signalstore"
)

// ContentBased implements content-based filtering against one source item.
// Every other published item earns fixed points per shared attribute:
//
//	score = w_genre    * [any genre in common] +
//	        w_director * [same director] +
//	        w_cast     * [any cast member in common] +
//	        w_studio   * [same studio]
//
// With the default 40/30/20/10 weights a perfect match scores 100. Ties keep
// catalog order. When the query names a user, titles on that user's
// watchlist are removed before the list is cut to the limit.
type ContentBased struct {
	baseScorer
	weights recommend.ContentWeights
}

// NewContentBased creates a content-based scorer.
func NewContentBased(weights recommend.ContentWeights) *ContentBased {
	return &ContentBased{
		baseScorer: baseScorer{source: recommend.SourceContent},
		weights:    weights,
	}
}

// Score implements recommend.Scorer.
//
//nolint:gocritic // hugeParam: q passed by value per Scorer interface
func (c *ContentBased) Score(ctx context.Context, store signalstore.Reader, q recommend.Query) ([]recommend.CandidateItem, error) {
	if q.ContentID == "" {
		return nil, nil
	}

	sources, err := contentByIDs(ctx, store, []string{q.ContentID})
	if err != nil {
		return nil, err
	}
	src, ok := sources[q.ContentID]
	if !ok {
		return nil, nil
	}

	catalog, err := publishedCatalog(ctx, store)
	if err != nil {
		return nil, err
	}

	exclude := make(map[string]struct{})
	if q.UserID != "" {
		entries, err := store.WatchlistForUser(ctx, q.UserID)
		if err != nil {
			return nil, fmt.Errorf("read watchlist for %s: %w", q.UserID, err)
		}
		for i := range entries {
			exclude[entries[i].ContentID] = struct{}{}
		}
	}

	srcGenres := toSet(src.Genres)
	srcCast := toSet(src.Cast)

	cands := make([]candidate, 0, len(catalog))
	for i := range catalog {
		item := &catalog[i]
		if item.ID == src.ID {
			continue
		}
		if _, skip := exclude[item.ID]; skip {
			continue
		}
		if score := c.similarity(srcGenres, srcCast, &src, item); score > 0 {
			cands = append(cands, candidate{id: item.ID, score: score})
		}
	}
	return rank(cands, c.source, q.Limit), nil
}

func (c *ContentBased) similarity(srcGenres, srcCast map[string]struct{}, src, item *models.ContentItem) float64 {
	var score float64
	if overlaps(srcGenres, item.Genres) {
		score += c.weights.Genre
	}
	if sameLabel(src.Director, item.Director) {
		score += c.weights.Director
	}
	if overlaps(srcCast, item.Cast) {
		score += c.weights.Cast
	}
	if sameLabel(src.Studio, item.Studio) {
		score += c.weights.Studio
	}
	return score
}
