// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package algorithms

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/signalstore"
)

// Personalized scores unwatched titles by the user's preferred genres.
//
// Preferred genres are the TopGenres most frequent genres among titles the
// user rated MinStars or higher, ranked by frequency with first-rated
// winning ties. A candidate earns (TopGenres - rank) * RankStep for each
// preferred genre it carries.
//
// A user without completed titles, or without positive ratings, gets an
// empty list. Comments without stars never count.
type Personalized struct {
	baseScorer
	cfg recommend.PersonalizedConfig
}

// NewPersonalized creates a personalized scorer.
func NewPersonalized(cfg recommend.PersonalizedConfig) *Personalized {
	return &Personalized{
		baseScorer: baseScorer{source: recommend.SourcePersonalized},
		cfg:        cfg,
	}
}

// Score implements recommend.Scorer.
//
//nolint:gocritic // hugeParam: q passed by value per Scorer interface
func (p *Personalized) Score(ctx context.Context, store signalstore.Reader, q recommend.Query) ([]recommend.CandidateItem, error) {
	if q.UserID == "" {
		return nil, nil
	}

	progress, err := progressFor(ctx, store, q.UserID)
	if err != nil {
		return nil, err
	}
	watched := make(map[string]struct{}, len(progress))
	completed := 0
	for i := range progress {
		watched[progress[i].ContentID] = struct{}{}
		if progress[i].Completed {
			completed++
		}
	}
	if completed == 0 {
		return nil, nil
	}

	preferred, err := p.preferredGenres(ctx, store, q.UserID)
	if err != nil {
		return nil, err
	}
	if len(preferred) == 0 {
		return nil, nil
	}

	catalog, err := publishedCatalog(ctx, store)
	if err != nil {
		return nil, err
	}

	cands := make([]candidate, 0, len(catalog))
	for i := range catalog {
		item := &catalog[i]
		if _, seen := watched[item.ID]; seen {
			continue
		}
		var score float64
		for g := range toSet(item.Genres) {
			if r, ok := preferred[g]; ok {
				score += float64(p.cfg.TopGenres-r) * p.cfg.RankStep
			}
		}
		if score > 0 {
			cands = append(cands, candidate{id: item.ID, score: score})
		}
	}
	return rank(cands, p.source, q.Limit), nil
}

// preferredGenres returns genre -> rank for the user's top genres.
func (p *Personalized) preferredGenres(ctx context.Context, store signalstore.Reader, userID string) (map[string]int, error) {
	ratings, err := store.RatingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read ratings for %s: %w", userID, err)
	}

	var liked []string
	for i := range ratings {
		if ratings[i].HasRating() && *ratings[i].Stars >= p.cfg.MinStars {
			liked = append(liked, ratings[i].ContentID)
		}
	}
	if len(liked) == 0 {
		return nil, nil
	}

	items, err := contentByIDs(ctx, store, liked)
	if err != nil {
		return nil, err
	}

	type tally struct {
		genre string
		count int
		first int
	}
	counts := make(map[string]*tally)
	order := 0
	for _, id := range liked {
		item, ok := items[id]
		if !ok {
			continue
		}
		for _, g := range item.Genres {
			key := normalize(g)
			if key == "" {
				continue
			}
			t, ok := counts[key]
			if !ok {
				t = &tally{genre: key, first: order}
				counts[key] = t
				order++
			}
			t.count++
		}
	}

	tallies := make([]*tally, 0, len(counts))
	for _, t := range counts {
		tallies = append(tallies, t)
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].count != tallies[j].count {
			return tallies[i].count > tallies[j].count
		}
		return tallies[i].first < tallies[j].first
	})

	preferred := make(map[string]int, p.cfg.TopGenres)
	for r, t := range tallies {
		if r == p.cfg.TopGenres {
			break
		}
		preferred[t.genre] = r
	}
	return preferred, nil
}
