// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package signalstore

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/tomtom215/marquee/internal/models"
)

type progressKey struct {
	userID    string
	contentID string
}

// MemoryStore is a Store held entirely in process memory. It backs tests and
// single-process deployments that do not configure a database path.
type MemoryStore struct {
	mu        sync.RWMutex
	catalog   []models.ContentItem
	position  map[string]int
	events    []models.WatchEvent
	progress  map[progressKey]models.WatchProgress
	ratings   []models.RatingOrComment
	watchlist []models.WatchlistEntry
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		position: make(map[string]int),
		progress: make(map[progressKey]models.WatchProgress),
	}
}

// PutContent adds items to the catalog. An existing id is replaced in place
// and keeps its catalog position.
func (m *MemoryStore) PutContent(items ...models.ContentItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range items {
		if pos, ok := m.position[items[i].ID]; ok {
			m.catalog[pos] = items[i]
			continue
		}
		m.position[items[i].ID] = len(m.catalog)
		m.catalog = append(m.catalog, items[i])
	}
}

// AddRating stores a rating or comment.
func (m *MemoryStore) AddRating(r models.RatingOrComment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings = append(m.ratings, r)
}

// AddWatchlistEntry stores a watchlist entry; duplicates are ignored.
func (m *MemoryStore) AddWatchlistEntry(e models.WatchlistEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.watchlist {
		if existing.UserID == e.UserID && existing.ContentID == e.ContentID {
			return
		}
	}
	m.watchlist = append(m.watchlist, e)
}

// AppendWatchEvent implements Writer.
func (m *MemoryStore) AppendWatchEvent(_ context.Context, event models.WatchEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// UpsertWatchProgress implements Writer.
func (m *MemoryStore) UpsertWatchProgress(_ context.Context, p models.WatchProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := progressKey{p.UserID, p.ContentID}
	if existing, ok := m.progress[key]; ok {
		p.Completed = p.Completed || existing.Completed
		if p.TotalSeconds == 0 {
			p.TotalSeconds = existing.TotalSeconds
		}
	}
	m.progress[key] = p
	return nil
}

// PublishedContent implements Reader.
func (m *MemoryStore) PublishedContent(_ context.Context) ([]models.ContentItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.ContentItem, 0, len(m.catalog))
	for i := range m.catalog {
		if m.catalog[i].IsPublished() {
			out = append(out, m.catalog[i])
		}
	}
	return out, nil
}

// ContentByIDs implements Reader.
func (m *MemoryStore) ContentByIDs(_ context.Context, ids []string) (map[string]models.ContentItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]models.ContentItem, len(ids))
	for _, id := range ids {
		if pos, ok := m.position[id]; ok {
			out[id] = m.catalog[pos]
		}
	}
	return out, nil
}

// PublishedByReleaseYear implements Reader.
func (m *MemoryStore) PublishedByReleaseYear(ctx context.Context, limit int) ([]models.ContentItem, error) {
	items, err := m.PublishedContent(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(items, func(a, b models.ContentItem) int {
		return cmp.Compare(b.ReleaseYear, a.ReleaseYear)
	})
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// ProgressForUser implements Reader.
func (m *MemoryStore) ProgressForUser(_ context.Context, userID string) ([]models.WatchProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.WatchProgress
	for key, p := range m.progress {
		if key.userID == userID {
			out = append(out, p)
		}
	}
	sortProgress(out)
	return out, nil
}

// ProgressForContents implements Reader.
func (m *MemoryStore) ProgressForContents(_ context.Context, contentIDs []string) ([]models.WatchProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[string]struct{}, len(contentIDs))
	for _, id := range contentIDs {
		wanted[id] = struct{}{}
	}
	var out []models.WatchProgress
	for key, p := range m.progress {
		if _, ok := wanted[key.contentID]; ok {
			out = append(out, p)
		}
	}
	sortProgress(out)
	return out, nil
}

// PlayCountsSince implements Reader.
func (m *MemoryStore) PlayCountsSince(_ context.Context, since time.Time) ([]PlayCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]*PlayCount)
	for i := range m.events {
		e := &m.events[i]
		if e.Kind != models.EventPlay || e.Timestamp.Before(since) {
			continue
		}
		pc, ok := counts[e.ContentID]
		if !ok {
			pc = &PlayCount{ContentID: e.ContentID}
			counts[e.ContentID] = pc
		}
		pc.Plays++
		if e.Timestamp.After(pc.LastPlayed) {
			pc.LastPlayed = e.Timestamp
		}
	}
	out := make([]PlayCount, 0, len(counts))
	for _, pc := range counts {
		out = append(out, *pc)
	}
	slices.SortFunc(out, func(a, b PlayCount) int { return cmp.Compare(a.ContentID, b.ContentID) })
	return out, nil
}

// RatingsForUser implements Reader.
func (m *MemoryStore) RatingsForUser(_ context.Context, userID string) ([]models.RatingOrComment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.RatingOrComment
	for _, r := range m.ratings {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b models.RatingOrComment) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.ContentID, b.ContentID)
	})
	return out, nil
}

// AverageRatings implements Reader.
func (m *MemoryStore) AverageRatings(_ context.Context, contentIDs []string) (map[string]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[string]struct{}, len(contentIDs))
	for _, id := range contentIDs {
		wanted[id] = struct{}{}
	}
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, r := range m.ratings {
		if r.Stars == nil {
			continue
		}
		if _, ok := wanted[r.ContentID]; !ok {
			continue
		}
		sums[r.ContentID] += *r.Stars
		counts[r.ContentID]++
	}
	out := make(map[string]float64, len(counts))
	for id, n := range counts {
		out[id] = float64(sums[id]) / float64(n)
	}
	return out, nil
}

// WatchlistForUser implements Reader.
func (m *MemoryStore) WatchlistForUser(_ context.Context, userID string) ([]models.WatchlistEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.WatchlistEntry
	for _, e := range m.watchlist {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b models.WatchlistEntry) int { return a.AddedAt.Compare(b.AddedAt) })
	return out, nil
}

// WatchEvents returns a copy of the playback log in append order.
func (m *MemoryStore) WatchEvents() []models.WatchEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.events)
}

func sortProgress(rows []models.WatchProgress) {
	slices.SortFunc(rows, func(a, b models.WatchProgress) int {
		if c := cmp.Compare(a.UserID, b.UserID); c != 0 {
			return c
		}
		return cmp.Compare(a.ContentID, b.ContentID)
	})
}
