// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package algorithms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/signalstore"
)

func rate(s *signalstore.MemoryStore, user, content string, n int, offset time.Duration) {
	s.AddRating(models.RatingOrComment{UserID: user, ContentID: content, Stars: stars(n), Timestamp: testNow.Add(offset)})
}

func personalizedFixture(t *testing.T) *signalstore.MemoryStore {
	t.Helper()
	s := signalstore.NewMemoryStore()
	s.PutContent(
		// rated by alice
		published("r1", "Drama", "Crime"),
		published("r2", "Drama", "Comedy"),
		published("r3", "Crime"),
		published("r4", "Horror"),
		// candidates
		published("c-drama", "Drama"),
		published("c-crime", "Crime"),
		published("c-comedy", "Comedy"),
		published("c-drama-crime", "Drama", "Crime"),
		published("c-scifi", "SciFi"),
		published("c-partial", "Drama"),
		models.ContentItem{ID: "c-draft", Genres: []string{"Drama"}, Status: models.StatusDraft},
	)
	seedProgress(t, s,
		progress("alice", "r1", true),
		progress("alice", "r2", true),
		progress("alice", "c-partial", false),
	)
	rate(s, "alice", "r1", 5, 0)
	rate(s, "alice", "r2", 4, time.Minute)
	rate(s, "alice", "r3", 4, 2*time.Minute)
	rate(s, "alice", "r4", 2, 3*time.Minute) // below threshold
	s.AddRating(models.RatingOrComment{UserID: "alice", ContentID: "r4", Text: "loved it", Timestamp: testNow})
	return s
}

func TestPersonalized_Score(t *testing.T) {
	t.Parallel()

	p := NewPersonalized(recommend.DefaultConfig().Personalized)
	got, err := p.Score(context.Background(), personalizedFixture(t), query("alice", 10))
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	// Drama 2, Crime 2 (Drama first-rated wins the tie), Comedy 1:
	// Drama rank 0 = 90, Crime rank 1 = 60, Comedy rank 2 = 30.
	want := []struct {
		id    string
		score float64
	}{
		{"c-drama-crime", 150},
		{"c-drama", 90},
		{"r3", 60}, // rated but never watched, so still a candidate
		{"c-crime", 60},
		{"c-comedy", 30},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %d items", got, len(want))
	}
	for i, w := range want {
		if got[i].ContentID != w.id || got[i].Score != w.score {
			t.Errorf("item[%d] = %s/%v, want %s/%v", i, got[i].ContentID, got[i].Score, w.id, w.score)
		}
	}
	assertSource(t, got, recommend.SourcePersonalized)
}

func TestPersonalized_ExcludesEveryWatchedTitle(t *testing.T) {
	t.Parallel()

	got, err := NewPersonalized(recommend.DefaultConfig().Personalized).Score(context.Background(), personalizedFixture(t), query("alice", 10))
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range ids(got) {
		switch id {
		case "r1", "r2", "c-partial", "c-draft", "r4":
			t.Errorf("%s should not be recommended", id)
		}
	}
}

func TestPersonalized_Empty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(t *testing.T) *signalstore.MemoryStore
		user  string
	}{
		{
			name:  "no progress",
			setup: personalizedFixture,
			user:  "nobody",
		},
		{
			name: "no completed title",
			setup: func(t *testing.T) *signalstore.MemoryStore {
				s := personalizedFixture(t)
				seedProgress(t, s, progress("bob", "r1", false))
				rate(s, "bob", "r1", 5, 0)
				return s
			},
			user: "bob",
		},
		{
			name: "completed but no positive rating",
			setup: func(t *testing.T) *signalstore.MemoryStore {
				s := personalizedFixture(t)
				seedProgress(t, s, progress("carol", "r1", true))
				rate(s, "carol", "r1", 3, 0)
				s.AddRating(models.RatingOrComment{UserID: "carol", ContentID: "r2", Text: "great", Timestamp: testNow})
				return s
			},
			user: "carol",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewPersonalized(recommend.DefaultConfig().Personalized).Score(context.Background(), tt.setup(t), query(tt.user, 10))
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if len(got) != 0 {
				t.Errorf("got %v, want empty", got)
			}
		})
	}
}

func TestPersonalized_TopGenresConfig(t *testing.T) {
	t.Parallel()

	cfg := recommend.PersonalizedConfig{MinStars: 4, TopGenres: 1, RankStep: 10}
	got, err := NewPersonalized(cfg).Score(context.Background(), personalizedFixture(t), query("alice", 10))
	if err != nil {
		t.Fatal(err)
	}
	// Only Drama survives, worth (1-0)*10.
	assertIDs(t, ids(got), []string{"c-drama", "c-drama-crime"})
	for _, it := range got {
		if it.Score != 10 {
			t.Errorf("%s score = %v, want 10", it.ContentID, it.Score)
		}
	}
}

func TestPersonalized_StoreFailure(t *testing.T) {
	t.Parallel()

	r := &failingReader{MemoryStore: personalizedFixture(t), failOn: "PublishedContent"}
	if _, err := NewPersonalized(recommend.DefaultConfig().Personalized).Score(context.Background(), r, query("alice", 10)); !errors.Is(err, errBroken) {
		t.Errorf("error = %v, want %v", err, errBroken)
	}
}
