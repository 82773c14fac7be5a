// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package algorithms

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/signalstore"
)

// RegisterAll registers the five scorers on engine using its configuration.
func RegisterAll(engine *recommend.Engine) {
	cfg := engine.Config()
	engine.RegisterScorer(NewCollaborative())
	engine.RegisterScorer(NewContentBased(cfg.Content))
	engine.RegisterScorer(NewPersonalized(cfg.Personalized))
	engine.RegisterScorer(NewTrending())
	engine.RegisterScorer(NewColdStart(cfg.ColdStart))
}

// baseScorer carries the source tag shared by every scorer.
type baseScorer struct {
	source recommend.Source
}

// Source returns the scorer's tag.
func (b baseScorer) Source() recommend.Source {
	return b.source
}

// candidate is a scored item. Slice order is read order, which settles ties.
type candidate struct {
	id    string
	score float64
}

// rank sorts by score descending, keeping input order on ties, and
// truncates to limit.
func rank(cands []candidate, src recommend.Source, limit int) []recommend.CandidateItem {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].score > cands[j].score
	})
	out := make([]recommend.CandidateItem, 0, min(len(cands), limit))
	for _, c := range cands {
		if len(out) == limit {
			break
		}
		out = append(out, recommend.CandidateItem{ContentID: c.id, Score: c.score, Source: src})
	}
	return out
}

// progressFor reads and validates a user's progress rows.
func progressFor(ctx context.Context, store signalstore.Reader, userID string) ([]models.WatchProgress, error) {
	rows, err := store.ProgressForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read progress for %s: %w", userID, err)
	}
	if err := signalstore.ValidateProgress(rows...); err != nil {
		return nil, err
	}
	return rows, nil
}

// publishedCatalog reads and validates the published catalog.
func publishedCatalog(ctx context.Context, store signalstore.Reader) ([]models.ContentItem, error) {
	items, err := store.PublishedContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if err := signalstore.ValidateContent(items...); err != nil {
		return nil, err
	}
	return items, nil
}

// contentByIDs reads and validates the requested items.
func contentByIDs(ctx context.Context, store signalstore.Reader, ids []string) (map[string]models.ContentItem, error) {
	if len(ids) == 0 {
		return map[string]models.ContentItem{}, nil
	}
	items, err := store.ContentByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	for id := range items {
		if err := signalstore.ValidateContent(items[id]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// keepPublished filters ids to published items, preserving order.
func keepPublished(ctx context.Context, store signalstore.Reader, ids []string) ([]string, error) {
	items, err := contentByIDs(ctx, store, ids)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if item, ok := items[id]; ok && item.IsPublished() {
			out = append(out, id)
		}
	}
	return out, nil
}

// normalize folds attribute values so "Drama" and " drama" compare equal.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if n := normalize(v); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func overlaps(a map[string]struct{}, b []string) bool {
	for _, v := range b {
		if _, ok := a[normalize(v)]; ok {
			return true
		}
	}
	return false
}

func sameLabel(a, b string) bool {
	na := normalize(a)
	return na != "" && na == normalize(b)
}
