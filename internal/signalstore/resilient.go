// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package signalstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

// BreakerConfig configures the circuit breaker in front of a Reader.
type BreakerConfig struct {
	// Name identifies the breaker in logs and metrics.
	Name string

	// MaxRequests is the number of trial reads allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period for clearing counts while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns production defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "signal-store",
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
	}
}

// Resilient wraps a Reader with a circuit breaker. When the underlying store
// keeps failing, reads fail fast with ErrStoreUnavailable instead of piling
// up on a dead connection.
type Resilient struct {
	next Reader
	cb   *gobreaker.CircuitBreaker[interface{}]
}

var _ Reader = (*Resilient)(nil)

// NewResilient wraps next.
func NewResilient(next Reader, cfg BreakerConfig) *Resilient {
	if cfg.Name == "" {
		cfg.Name = "signal-store"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	logger := logging.WithComponent("signalstore")

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Bad rows and caller cancellations say nothing about store health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrMalformedRecord) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetBreakerState(name, breakerStateValue(to))
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Signal store circuit breaker state changed")
		},
	}
	metrics.SetBreakerState(cfg.Name, 0)

	return &Resilient{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[interface{}](settings),
	}
}

// State returns the breaker state name (closed, half-open, open).
func (r *Resilient) State() string {
	return r.cb.State().String()
}

func breakerStateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func guarded[T any](r *Resilient, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := r.cb.Execute(func() (interface{}, error) {
		res, err := fn()
		return res, err
	})
	metrics.RecordStoreRead(op, time.Since(start), err)

	var zero T
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
		}
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	res, ok := v.(T)
	if !ok {
		return zero, nil
	}
	return res, nil
}

// PublishedContent implements Reader.
func (r *Resilient) PublishedContent(ctx context.Context) ([]models.ContentItem, error) {
	return guarded(r, "published_content", func() ([]models.ContentItem, error) {
		return r.next.PublishedContent(ctx)
	})
}

// ContentByIDs implements Reader.
func (r *Resilient) ContentByIDs(ctx context.Context, ids []string) (map[string]models.ContentItem, error) {
	return guarded(r, "content_by_ids", func() (map[string]models.ContentItem, error) {
		return r.next.ContentByIDs(ctx, ids)
	})
}

// PublishedByReleaseYear implements Reader.
func (r *Resilient) PublishedByReleaseYear(ctx context.Context, limit int) ([]models.ContentItem, error) {
	return guarded(r, "published_by_release_year", func() ([]models.ContentItem, error) {
		return r.next.PublishedByReleaseYear(ctx, limit)
	})
}

// ProgressForUser implements Reader.
func (r *Resilient) ProgressForUser(ctx context.Context, userID string) ([]models.WatchProgress, error) {
	return guarded(r, "progress_for_user", func() ([]models.WatchProgress, error) {
		return r.next.ProgressForUser(ctx, userID)
	})
}

// ProgressForContents implements Reader.
func (r *Resilient) ProgressForContents(ctx context.Context, contentIDs []string) ([]models.WatchProgress, error) {
	return guarded(r, "progress_for_contents", func() ([]models.WatchProgress, error) {
		return r.next.ProgressForContents(ctx, contentIDs)
	})
}

// PlayCountsSince implements Reader.
func (r *Resilient) PlayCountsSince(ctx context.Context, since time.Time) ([]PlayCount, error) {
	return guarded(r, "play_counts_since", func() ([]PlayCount, error) {
		return r.next.PlayCountsSince(ctx, since)
	})
}

// RatingsForUser implements Reader.
func (r *Resilient) RatingsForUser(ctx context.Context, userID string) ([]models.RatingOrComment, error) {
	return guarded(r, "ratings_for_user", func() ([]models.RatingOrComment, error) {
		return r.next.RatingsForUser(ctx, userID)
	})
}

// AverageRatings implements Reader.
func (r *Resilient) AverageRatings(ctx context.Context, contentIDs []string) (map[string]float64, error) {
	return guarded(r, "average_ratings", func() (map[string]float64, error) {
		return r.next.AverageRatings(ctx, contentIDs)
	})
}

// WatchlistForUser implements Reader.
func (r *Resilient) WatchlistForUser(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	return guarded(r, "watchlist_for_user", func() ([]models.WatchlistEntry, error) {
		return r.next.WatchlistForUser(ctx, userID)
	})
}
