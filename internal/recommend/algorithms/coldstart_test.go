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

func TestColdStart_Score(t *testing.T) {
	t.Parallel()

	s := signalstore.NewMemoryStore()
	s.PutContent(
		models.ContentItem{ID: "new", ReleaseYear: 2026, Status: models.StatusPublished},
		models.ContentItem{ID: "recent", ReleaseYear: 2024, Status: models.StatusPublished},
		models.ContentItem{ID: "classic", ReleaseYear: 2006, Status: models.StatusPublished},
		models.ContentItem{ID: "undated", ReleaseYear: 0, Status: models.StatusPublished},
		models.ContentItem{ID: "future-draft", ReleaseYear: 2027, Status: models.StatusDraft},
	)
	rate(s, "u1", "new", 5, 0)
	rate(s, "u2", "new", 4, 0)
	rate(s, "u1", "recent", 2, 0)
	rate(s, "u1", "undated", 1, 0)

	got, err := NewColdStart(recommend.DefaultConfig().ColdStart).Score(context.Background(), s, query("", 2))
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	// Oversample 2x2 = 4 newest: new, recent, classic, undated.
	//   new:     4.5*50 + 0*5  = 225
	//   classic: 0*50   + 20*5 = 100
	//   recent:  2*50   + 2*5  = 110
	//   undated: 1*50          = 50
	want := []struct {
		id    string
		score float64
	}{
		{"new", 225},
		{"recent", 110},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %d items", got, len(want))
	}
	for i, w := range want {
		if got[i].ContentID != w.id || got[i].Score != w.score {
			t.Errorf("item[%d] = %s/%v, want %s/%v", i, got[i].ContentID, got[i].Score, w.id, w.score)
		}
	}
	assertSource(t, got, recommend.SourceColdStart)
}

func TestColdStart_OlderTitlesRise(t *testing.T) {
	t.Parallel()

	s := signalstore.NewMemoryStore()
	s.PutContent(
		models.ContentItem{ID: "2026", ReleaseYear: 2026, Status: models.StatusPublished},
		models.ContentItem{ID: "1990", ReleaseYear: 1990, Status: models.StatusPublished},
	)
	got, err := NewColdStart(recommend.DefaultConfig().ColdStart).Score(context.Background(), s, query("", 5))
	if err != nil {
		t.Fatal(err)
	}
	// Unrated: only age counts, and the brand-new title still appears.
	assertIDs(t, ids(got), []string{"1990", "2026"})
	if got[1].Score != 0 {
		t.Errorf("new unrated title score = %v, want 0", got[1].Score)
	}
}

func TestColdStart_Errors(t *testing.T) {
	t.Parallel()

	s := signalstore.NewMemoryStore()
	s.PutContent(published("a"))
	r := &failingReader{MemoryStore: s, failOn: "AverageRatings"}
	if _, err := NewColdStart(recommend.DefaultConfig().ColdStart).Score(context.Background(), r, query("", 5)); !errors.Is(err, errBroken) {
		t.Errorf("error = %v, want %v", err, errBroken)
	}

	empty, err := NewColdStart(recommend.DefaultConfig().ColdStart).Score(context.Background(), signalstore.NewMemoryStore(), query("", 5))
	if err != nil || len(empty) != 0 {
		t.Errorf("empty catalog: got %v, %v", empty, err)
	}
}
