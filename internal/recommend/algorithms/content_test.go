// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package algorithms

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/signalstore"
)

func contentFixture() *signalstore.MemoryStore {
	s := signalstore.NewMemoryStore()
	s.PutContent(
		models.ContentItem{ID: "src", Genres: []string{"Drama", "Romance"}, Director: "X", Cast: []string{"Ann"}, Studio: "North", Status: models.StatusPublished},
		models.ContentItem{ID: "b", Genres: []string{"romance"}, Director: "Y", Status: models.StatusPublished},
		models.ContentItem{ID: "a", Genres: []string{"Drama"}, Director: "X", Status: models.StatusPublished},
		models.ContentItem{ID: "full", Genres: []string{"Drama"}, Director: "X", Cast: []string{"Ann", "Bo"}, Studio: "North", Status: models.StatusPublished},
		models.ContentItem{ID: "none", Genres: []string{"Horror"}, Director: "Z", Status: models.StatusPublished},
		models.ContentItem{ID: "cast", Cast: []string{"ann"}, Status: models.StatusPublished},
		models.ContentItem{ID: "studio", Studio: "north", Status: models.StatusPublished},
		models.ContentItem{ID: "b2", Genres: []string{"Drama"}, Status: models.StatusPublished},
		models.ContentItem{ID: "hidden", Genres: []string{"Drama"}, Director: "X", Status: models.StatusArchived},
	)
	return s
}

func TestContentBased_Score(t *testing.T) {
	t.Parallel()

	c := NewContentBased(recommend.DefaultConfig().Content)
	got, err := c.Score(context.Background(), contentFixture(), recommend.Query{ContentID: "src", Limit: 10})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	want := []struct {
		id    string
		score float64
	}{
		{"full", 100},
		{"a", 70},
		{"b", 40}, // catalog order breaks the 40-point tie
		{"b2", 40},
		{"cast", 20},
		{"studio", 10},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %d items", got, len(want))
	}
	for i, w := range want {
		if got[i].ContentID != w.id || got[i].Score != w.score {
			t.Errorf("item[%d] = %s/%v, want %s/%v", i, got[i].ContentID, got[i].Score, w.id, w.score)
		}
	}
	assertSource(t, got, recommend.SourceContent)
}

func TestContentBased_MonotonicScores(t *testing.T) {
	t.Parallel()

	c := NewContentBased(recommend.DefaultConfig().Content)
	got, err := c.Score(context.Background(), contentFixture(), recommend.Query{ContentID: "src", Limit: 100})
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("score increased at %d: %v > %v", i, got[i].Score, got[i-1].Score)
		}
	}
}

func TestContentBased_WatchlistFilter(t *testing.T) {
	t.Parallel()

	s := contentFixture()
	s.AddWatchlistEntry(models.WatchlistEntry{UserID: "alice", ContentID: "full", AddedAt: testNow})
	s.AddWatchlistEntry(models.WatchlistEntry{UserID: "alice", ContentID: "b", AddedAt: testNow})
	c := NewContentBased(recommend.DefaultConfig().Content)

	got, err := c.Score(context.Background(), s, recommend.Query{ContentID: "src", UserID: "alice", Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	// Filtering happens before the cut, so the list is still full.
	assertIDs(t, ids(got), []string{"a", "b2", "cast"})

	anon, err := c.Score(context.Background(), s, recommend.Query{ContentID: "src", Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, ids(anon), []string{"full", "a", "b"})
}

func TestContentBased_Empty(t *testing.T) {
	t.Parallel()

	c := NewContentBased(recommend.DefaultConfig().Content)
	for _, id := range []string{"", "missing"} {
		got, err := c.Score(context.Background(), contentFixture(), recommend.Query{ContentID: id, Limit: 10})
		if err != nil {
			t.Fatalf("Score(%q) error = %v", id, err)
		}
		if len(got) != 0 {
			t.Errorf("Score(%q) = %v, want empty", id, got)
		}
	}
}

func TestContentBased_Errors(t *testing.T) {
	t.Parallel()

	c := NewContentBased(recommend.DefaultConfig().Content)

	r := &failingReader{MemoryStore: contentFixture(), failOn: "WatchlistForUser"}
	if _, err := c.Score(context.Background(), r, recommend.Query{ContentID: "src", UserID: "alice", Limit: 5}); !errors.Is(err, errBroken) {
		t.Errorf("watchlist failure: error = %v", err)
	}

	s := contentFixture()
	s.PutContent(models.ContentItem{ID: "  ", Status: models.StatusPublished})
	if _, err := c.Score(context.Background(), s, recommend.Query{ContentID: "src", Limit: 5}); !errors.Is(err, signalstore.ErrMalformedRecord) {
		t.Errorf("malformed catalog: error = %v, want ErrMalformedRecord", err)
	}
}
