// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/signalstore"
)

// Engine routes requests to the registered scorers and blends their output.
// It holds no per-request state and is safe for concurrent use.
//
// Every read method returns a possibly empty list and never an error: store
// failures, malformed rows and panicking scorers are logged, counted and
// turned into an empty result.
type Engine struct {
	config *Config
	store  signalstore.Reader
	logger zerolog.Logger

	scorers map[Source]Scorer
	mu      sync.RWMutex

	now func() time.Time
}

// NewEngine creates a recommendation engine reading from store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(store signalstore.Reader, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("signal store is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:  cfg,
		store:   store,
		logger:  logger.With().Str("component", "recommend").Logger(),
		scorers: make(map[Source]Scorer),
		now:     time.Now,
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// SetClock overrides the time source used for trending windows, release
// year ages and query timestamps.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// RegisterScorer adds or replaces the scorer for its source tag.
func (e *Engine) RegisterScorer(s Scorer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.scorers[s.Source()] = s
	e.logger.Info().
		Str("source", s.Source().String()).
		Msg("registered scorer")
}

// Sources returns the registered source tags in sorted order.
func (e *Engine) Sources() []Source {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Source, 0, len(e.scorers))
	for src := range e.scorers {
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Collaborative returns unseen items watched by users who share at least one
// item with userID.
func (e *Engine) Collaborative(ctx context.Context, userID string, limit int) []CandidateItem {
	return e.run(ctx, SourceCollaborative, Query{UserID: userID, Limit: limit})
}

// ContentBased returns items sharing attributes with contentID. When userID
// is set, items on that user's watchlist are left out.
func (e *Engine) ContentBased(ctx context.Context, contentID, userID string, limit int) []CandidateItem {
	return e.run(ctx, SourceContent, Query{ContentID: contentID, UserID: userID, Limit: limit})
}

// Personalized returns unseen items matching the genres of the user's
// positively rated titles.
func (e *Engine) Personalized(ctx context.Context, userID string, limit int) []CandidateItem {
	return e.run(ctx, SourcePersonalized, Query{UserID: userID, Limit: limit})
}

// Trending returns the most played items of the last windowDays days.
// A non-positive window uses the configured default.
func (e *Engine) Trending(ctx context.Context, windowDays, limit int) []CandidateItem {
	return e.run(ctx, SourceTrending, Query{WindowDays: windowDays, Limit: limit})
}

// ColdStart returns catalog-quality picks for users without history.
func (e *Engine) ColdStart(ctx context.Context, limit int) []CandidateItem {
	return e.run(ctx, SourceColdStart, Query{Limit: limit})
}

// hybridSources is the fixed blend order. Accumulation follows it so that
// sums are reproducible and ties keep first-appearance order.
var hybridSources = []Source{SourceCollaborative, SourcePersonalized, SourceTrending}

// Hybrid runs collaborative, personalized and trending concurrently and
// merges them by rank decay:
//
//	contribution = weight[source] * (1 - idx/N) * 100
//
// An item present in several lists receives the sum of its contributions.
func (e *Engine) Hybrid(ctx context.Context, userID string, limit int) []CandidateItem {
	start := time.Now()
	n := e.config.NormalizeLimit(limit)
	now := e.clock()

	results := make([][]CandidateItem, len(hybridSources))
	var g errgroup.Group
	for i, src := range hybridSources {
		q := Query{UserID: userID, Limit: n, Now: now}
		if src == SourceTrending {
			q.WindowDays = e.config.TrendingWindowDays
		}
		g.Go(func() error {
			results[i] = e.run(ctx, src, q)
			return nil
		})
	}
	// run never returns an error; failures are already empty slots.
	_ = g.Wait()

	merged := e.combine(results, n)

	outcome := metrics.OutcomeOK
	if len(merged) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.RecordScorer(SourceHybrid.String(), outcome, time.Since(start), len(merged))
	return merged
}

// combine accumulates rank-decayed contributions per content id.
func (e *Engine) combine(results [][]CandidateItem, n int) []CandidateItem {
	totals := make(map[string]*CandidateItem)
	order := make([]string, 0)

	for i, src := range hybridSources {
		weight := e.config.Hybrid.For(src)
		for idx, item := range results[i] {
			contribution := weight * (1 - float64(idx)/float64(n)) * 100
			acc, ok := totals[item.ContentID]
			if !ok {
				acc = &CandidateItem{
					ContentID:     item.ContentID,
					Source:        SourceHybrid,
					Contributions: make(map[Source]float64, len(hybridSources)),
				}
				totals[item.ContentID] = acc
				order = append(order, item.ContentID)
			}
			acc.Score += contribution
			acc.Contributions[src] += contribution
		}
	}

	merged := make([]CandidateItem, len(order))
	for i, id := range order {
		merged[i] = *totals[id]
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > n {
		merged = merged[:n]
	}
	return merged
}

// ForUser serves the hybrid blend and falls back to cold-start picks when
// the user has no usable history.
func (e *Engine) ForUser(ctx context.Context, userID string, limit int) []CandidateItem {
	if items := e.Hybrid(ctx, userID, limit); len(items) > 0 {
		return items
	}
	metrics.ColdStartFallbacks.Inc()
	e.logger.Debug().Str("user_id", userID).Msg("no hybrid candidates, serving cold-start")
	return e.ColdStart(ctx, limit)
}

func (e *Engine) clock() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.now()
}

func (e *Engine) scorer(src Source) (Scorer, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.scorers[src]
	return s, ok
}

// run invokes one scorer with normalized inputs and degrades every failure
// to an empty list.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (e *Engine) run(ctx context.Context, src Source, q Query) (items []CandidateItem) {
	start := time.Now()
	items = []CandidateItem{}

	s, ok := e.scorer(src)
	if !ok {
		e.logger.Warn().Str("source", src.String()).Msg("no scorer registered")
		metrics.RecordScorer(src.String(), metrics.OutcomeNoScorer, time.Since(start), 0)
		return items
	}

	q.Limit = e.config.NormalizeLimit(q.Limit)
	q.WindowDays = e.config.NormalizeWindow(q.WindowDays)
	if q.Now.IsZero() {
		q.Now = e.clock()
	}

	defer func() {
		if r := recover(); r != nil {
			e.fail(src, fmt.Errorf("scorer panic: %v", r), start)
			items = []CandidateItem{}
		}
	}()

	out, err := s.Score(ctx, e.store, q)
	if err != nil {
		e.fail(src, err, start)
		return items
	}

	out = sanitize(out, src, q.Limit)
	outcome := metrics.OutcomeOK
	if len(out) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.RecordScorer(src.String(), outcome, time.Since(start), len(out))
	return out
}

func (e *Engine) fail(src Source, err error, start time.Time) {
	e.logger.Warn().
		Str("source", src.String()).
		Err(err).
		Msg("scorer failed, returning empty result")
	metrics.RecordScorer(src.String(), metrics.OutcomeFailed, time.Since(start), 0)
	for _, h := range hybridSources {
		if h == src {
			metrics.HybridSourceFailures.WithLabelValues(src.String()).Inc()
			break
		}
	}
}

// sanitize enforces the output contract: at most limit items, unique ids,
// finite non-negative scores and the source tag.
func sanitize(items []CandidateItem, src Source, limit int) []CandidateItem {
	out := make([]CandidateItem, 0, min(len(items), limit))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if len(out) == limit {
			break
		}
		if it.ContentID == "" {
			continue
		}
		if _, dup := seen[it.ContentID]; dup {
			continue
		}
		seen[it.ContentID] = struct{}{}
		if math.IsNaN(it.Score) || math.IsInf(it.Score, 0) || it.Score < 0 {
			it.Score = 0
		}
		it.Source = src
		out = append(out, it)
	}
	return out
}
