// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/signalstore"
)

// mockScorer implements Scorer for testing.
type mockScorer struct {
	source Source
	items  []CandidateItem
	err    error
	panics bool
	delay  time.Duration
	// raw returns items untruncated
	raw bool

	calls   atomic.Int32
	mu      sync.Mutex
	lastQry Query
}

func newMockScorer(src Source, ids ...string) *mockScorer {
	items := make([]CandidateItem, len(ids))
	for i, id := range ids {
		items[i] = CandidateItem{ContentID: id, Score: float64(len(ids) - i)}
	}
	return &mockScorer{source: src, items: items}
}

func (m *mockScorer) Source() Source {
	return m.source
}

func (m *mockScorer) Score(ctx context.Context, _ signalstore.Reader, q Query) ([]CandidateItem, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.lastQry = q
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.panics {
		panic("boom")
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.raw {
		return m.items, nil
	}
	out := make([]CandidateItem, 0, len(m.items))
	for _, it := range m.items {
		if len(out) == q.Limit {
			break
		}
		out = append(out, it)
	}
	return out, nil
}

func (m *mockScorer) query() Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastQry
}

// testLogger returns a zerolog logger for testing.
func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newTestEngine(t *testing.T, scorers ...Scorer) *Engine {
	t.Helper()
	e, err := NewEngine(signalstore.NewMemoryStore(), DefaultConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	for _, s := range scorers {
		e.RegisterScorer(s)
	}
	return e
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	store := signalstore.NewMemoryStore()
	tests := []struct {
		name    string
		store   signalstore.Reader
		cfg     *Config
		wantErr bool
	}{
		{"nil config uses defaults", store, nil, false},
		{"valid default config", store, DefaultConfig(), false},
		{"nil store", nil, nil, true},
		{
			name:  "content weights above 100",
			store: store,
			cfg: func() *Config {
				c := DefaultConfig()
				c.Content.Studio = 11
				return c
			}(),
			wantErr: true,
		},
		{
			name:  "negative hybrid weight",
			store: store,
			cfg: func() *Config {
				c := DefaultConfig()
				c.Hybrid.Trending = -1
				return c
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine, err := NewEngine(tt.store, tt.cfg, testLogger())
			if tt.wantErr {
				if err == nil {
					t.Error("NewEngine() = nil error, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEngine() error = %v, want nil", err)
			}
			if engine.Config() == nil {
				t.Error("engine.Config() = nil, want non-nil")
			}
		})
	}
}

func TestEngine_RegisterScorer(t *testing.T) {
	t.Parallel()

	first := newMockScorer(SourceTrending, "a")
	second := newMockScorer(SourceTrending, "b")
	e := newTestEngine(t, first, newMockScorer(SourceColdStart, "c"), second)

	got := e.Sources()
	if len(got) != 2 || got[0] != SourceColdStart || got[1] != SourceTrending {
		t.Fatalf("Sources() = %v", got)
	}

	items := e.Trending(context.Background(), 7, 10)
	if len(items) != 1 || items[0].ContentID != "b" {
		t.Errorf("re-registering should replace the scorer, got %v", items)
	}
}

func TestEngine_LimitNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, 10},
		{"negative uses default", -5, 10},
		{"within range", 25, 25},
		{"capped", 500, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newMockScorer(SourceColdStart)
			e := newTestEngine(t, s)
			e.ColdStart(context.Background(), tt.limit)
			if got := s.query().Limit; got != tt.want {
				t.Errorf("scorer saw limit %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEngine_QueryDefaults(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newMockScorer(SourceTrending)
	e := newTestEngine(t, s)
	e.SetClock(func() time.Time { return fixed })

	e.Trending(context.Background(), 0, 5)
	q := s.query()
	if q.WindowDays != 7 {
		t.Errorf("WindowDays = %d, want 7", q.WindowDays)
	}
	if !q.Now.Equal(fixed) {
		t.Errorf("Now = %v, want %v", q.Now, fixed)
	}

	e.Trending(context.Background(), 30, 5)
	if got := s.query().WindowDays; got != 30 {
		t.Errorf("WindowDays = %d, want 30", got)
	}

	// Large windows are capped before they reach the scorer.
	e.Trending(context.Background(), math.MaxInt, 5)
	if got := s.query().WindowDays; got != MaxTrendingWindowDays {
		t.Errorf("WindowDays = %d, want %d", got, MaxTrendingWindowDays)
	}
}

func TestEngine_FailuresDegradeToEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scorer *mockScorer
	}{
		{"store unavailable", &mockScorer{source: SourceCollaborative, err: signalstore.ErrStoreUnavailable}},
		{"malformed record", &mockScorer{source: SourceCollaborative, err: &signalstore.RecordError{Record: "watch_progress", ID: "u/c", Err: errors.New("missing")}}},
		{"panic", &mockScorer{source: SourceCollaborative, panics: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newTestEngine(t, tt.scorer)
			got := e.Collaborative(context.Background(), "alice", 10)
			if got == nil {
				t.Fatal("result should be an empty slice, not nil")
			}
			if len(got) != 0 {
				t.Errorf("got %d items, want 0", len(got))
			}
		})
	}
}

func TestEngine_FailureIsLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e, err := NewEngine(signalstore.NewMemoryStore(), nil, zerolog.New(&buf))
	if err != nil {
		t.Fatal(err)
	}
	e.RegisterScorer(&mockScorer{source: SourcePersonalized, err: errors.New("disk on fire")})

	e.Personalized(context.Background(), "alice", 5)

	out := buf.String()
	for _, want := range []string{`"component":"recommend"`, `"source":"personalized"`, `"error":"disk on fire"`, `"level":"warn"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
}

func TestEngine_MissingScorer(t *testing.T) {
	before := testutil.ToFloat64(metrics.ScorerRequests.WithLabelValues("content", metrics.OutcomeNoScorer))

	e := newTestEngine(t)
	if got := e.ContentBased(context.Background(), "m-001", "", 5); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}

	after := testutil.ToFloat64(metrics.ScorerRequests.WithLabelValues("content", metrics.OutcomeNoScorer))
	if after-before != 1 {
		t.Errorf("no_scorer counter delta = %v, want 1", after-before)
	}
}

func TestEngine_Sanitize(t *testing.T) {
	t.Parallel()

	s := &mockScorer{source: SourceTrending, raw: true, items: []CandidateItem{
		{ContentID: "a", Score: 3},
		{ContentID: "a", Score: 2},
		{ContentID: "", Score: 9},
		{ContentID: "b", Score: math.NaN()},
		{ContentID: "c", Score: -4},
		{ContentID: "d", Score: math.Inf(1)},
		{ContentID: "e", Score: 1},
	}}
	e := newTestEngine(t, s)

	got := e.Trending(context.Background(), 7, 4)
	wantIDs := []string{"a", "b", "c", "d"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d items, want %d", len(got), len(wantIDs))
	}
	for i, it := range got {
		if it.ContentID != wantIDs[i] {
			t.Errorf("item[%d] = %q, want %q", i, it.ContentID, wantIDs[i])
		}
		if it.Source != SourceTrending {
			t.Errorf("item[%d].Source = %q", i, it.Source)
		}
		if it.Score < 0 || math.IsNaN(it.Score) || math.IsInf(it.Score, 0) {
			t.Errorf("item[%d].Score = %v, want finite non-negative", i, it.Score)
		}
	}
}

func TestEngine_Hybrid(t *testing.T) {
	t.Parallel()

	collab := newMockScorer(SourceCollaborative, "a", "b", "c")
	personal := newMockScorer(SourcePersonalized, "c", "d")
	trending := newMockScorer(SourceTrending, "e", "a")
	e := newTestEngine(t, collab, personal, trending)

	const n = 4
	got := e.Hybrid(context.Background(), "alice", n)

	contrib := func(w float64, idx int) float64 {
		return w * (1 - float64(idx)/float64(n)) * 100
	}
	want := map[string]float64{
		"a": contrib(0.4, 0) + contrib(0.2, 1),
		"b": contrib(0.4, 1),
		"c": contrib(0.4, 2) + contrib(0.4, 0),
		"d": contrib(0.4, 1),
		"e": contrib(0.2, 0),
	}

	if len(got) != n {
		t.Fatalf("got %d items, want %d", len(got), n)
	}
	for i, it := range got {
		if it.Source != SourceHybrid {
			t.Errorf("item %s Source = %q, want hybrid", it.ContentID, it.Source)
		}
		w, ok := want[it.ContentID]
		if !ok {
			t.Errorf("unexpected id %q absent from all inputs", it.ContentID)
			continue
		}
		if it.Score != w {
			t.Errorf("score[%s] = %v, want exactly %v", it.ContentID, it.Score, w)
		}
		if i > 0 && got[i-1].Score < it.Score {
			t.Errorf("scores not descending at %d", i)
		}
	}

	// c (60) > a (55) > b (30) = d (30); b was seen first.
	wantOrder := []string{"c", "a", "b", "d"}
	for i, id := range wantOrder {
		if got[i].ContentID != id {
			t.Errorf("order[%d] = %q, want %q", i, got[i].ContentID, id)
		}
	}

	c := got[0]
	if c.Contributions[SourceCollaborative] != contrib(0.4, 2) || c.Contributions[SourcePersonalized] != contrib(0.4, 0) {
		t.Errorf("contributions = %v", c.Contributions)
	}
	if trending.query().WindowDays != 7 {
		t.Errorf("trending window = %d, want 7", trending.query().WindowDays)
	}
}

func TestEngine_Hybrid_PartialFailure(t *testing.T) {
	t.Parallel()

	collab := &mockScorer{source: SourceCollaborative, err: errors.New("read failed")}
	personal := newMockScorer(SourcePersonalized, "x", "y")
	trending := newMockScorer(SourceTrending, "y")
	e := newTestEngine(t, collab, personal, trending)

	got := e.Hybrid(context.Background(), "alice", 10)
	if len(got) != 2 {
		t.Fatalf("got %v, want 2 items", got)
	}
	if got[0].ContentID != "y" {
		t.Errorf("y should lead with two contributions, got %q", got[0].ContentID)
	}
}

func TestEngine_Hybrid_RunsConcurrently(t *testing.T) {
	t.Parallel()

	delay := 150 * time.Millisecond
	e := newTestEngine(t,
		&mockScorer{source: SourceCollaborative, delay: delay},
		&mockScorer{source: SourcePersonalized, delay: delay},
		&mockScorer{source: SourceTrending, delay: delay},
	)

	start := time.Now()
	e.Hybrid(context.Background(), "alice", 5)
	if elapsed := time.Since(start); elapsed >= 3*delay {
		t.Errorf("hybrid took %v, sources did not run concurrently", elapsed)
	}
}

func TestEngine_ForUser(t *testing.T) {
	t.Parallel()

	t.Run("hybrid has results", func(t *testing.T) {
		t.Parallel()
		cold := newMockScorer(SourceColdStart, "z")
		e := newTestEngine(t,
			newMockScorer(SourceCollaborative, "a"),
			newMockScorer(SourcePersonalized),
			newMockScorer(SourceTrending),
			cold,
		)
		got := e.ForUser(context.Background(), "alice", 5)
		if len(got) != 1 || got[0].Source != SourceHybrid {
			t.Errorf("got %v, want one hybrid item", got)
		}
		if cold.calls.Load() != 0 {
			t.Error("cold-start should not run when hybrid has results")
		}
	})

	t.Run("falls back to cold-start", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(t,
			newMockScorer(SourceCollaborative),
			newMockScorer(SourcePersonalized),
			newMockScorer(SourceTrending),
			newMockScorer(SourceColdStart, "z", "y"),
		)
		got := e.ForUser(context.Background(), "newbie", 5)
		if len(got) != 2 || got[0].Source != SourceColdStart {
			t.Errorf("got %v, want cold-start items", got)
		}
	})
}

func TestEngine_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t,
		newMockScorer(SourceCollaborative, "a", "b"),
		newMockScorer(SourcePersonalized, "b", "c"),
		newMockScorer(SourceTrending, "c", "d"),
	)

	var wg sync.WaitGroup
	results := make([][]CandidateItem, 20)
	for i := range results {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = e.Hybrid(context.Background(), "alice", 3)
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if len(results[i]) != len(results[0]) {
			t.Fatalf("result %d differs in length", i)
		}
		for j := range results[i] {
			if results[i][j].ContentID != results[0][j].ContentID || results[i][j].Score != results[0][j].Score {
				t.Errorf("result %d differs at %d", i, j)
			}
		}
	}
}
