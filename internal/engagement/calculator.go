// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package engagement

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/signalstore"
)

// Calculator computes similarity and engagement figures. It is stateless and
// safe for concurrent use.
type Calculator struct {
	store   signalstore.Reader
	weights Weights
	logger  zerolog.Logger
}

// NewCalculator creates a calculator reading from store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCalculator(store signalstore.Reader, weights Weights, logger zerolog.Logger) (*Calculator, error) {
	if store == nil {
		return nil, fmt.Errorf("signal store is required")
	}
	return &Calculator{
		store:   store,
		weights: weights,
		logger:  logger.With().Str("component", "engagement").Logger(),
	}, nil
}

// Similarity returns the Jaccard index of the two users' watched sets. When
// the store cannot be read the result is zero and marked Degraded.
func (c *Calculator) Similarity(ctx context.Context, userA, userB string) *Similarity {
	out := &Similarity{UserA: userA, UserB: userB}

	var rowsA, rowsB []models.WatchProgress
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rowsA, err = c.progress(gctx, userA)
		return err
	})
	g.Go(func() (err error) {
		rowsB, err = c.progress(gctx, userB)
		return err
	})
	if err := g.Wait(); err != nil {
		c.fail("similarity", err)
		out.Degraded = true
		return out
	}

	setA := watchedSet(rowsA)
	setB := watchedSet(rowsB)
	if len(setA) == 0 || len(setB) == 0 {
		return out
	}

	for id := range setA {
		if _, ok := setB[id]; ok {
			out.Shared++
		}
	}
	out.Union = len(setA) + len(setB) - out.Shared
	out.Score = float64(out.Shared) / float64(out.Union)
	return out
}

// Engagement returns the user's engagement score. When the store cannot be
// read the score is zero and marked Degraded.
func (c *Calculator) Engagement(ctx context.Context, userID string) *Score {
	rows, err := c.progress(ctx, userID)
	if err != nil {
		c.fail("engagement", err)
		return &Score{UserID: userID, Degraded: true}
	}
	score, err := c.engagementFrom(ctx, userID, rows)
	if err != nil {
		c.fail("engagement", err)
		return &Score{UserID: userID, Degraded: true}
	}
	return score
}

// engagementFrom scores a user whose progress rows were already read.
func (c *Calculator) engagementFrom(ctx context.Context, userID string, rows []models.WatchProgress) (*Score, error) {
	var (
		ratings   []models.RatingOrComment
		watchlist []models.WatchlistEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ratings, err = c.store.RatingsForUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("read ratings: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		watchlist, err = c.store.WatchlistForUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("read watchlist: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Score{
		UserID:       userID,
		ProgressRows: len(rows),
		Watchlist:    len(watchlist),
	}
	for i := range rows {
		if rows[i].Completed {
			s.CompletedRows++
		}
	}
	if s.ProgressRows > 0 {
		s.CompletionRate = float64(s.CompletedRows) / float64(s.ProgressRows)
	}
	for i := range ratings {
		if ratings[i].HasRating() {
			s.Ratings++
		}
		if ratings[i].HasComment() {
			s.Comments++
		}
	}

	s.Score = s.CompletionRate*c.weights.CompletionRate +
		float64(s.Comments)*c.weights.Comment +
		float64(s.Ratings)*c.weights.Rating +
		float64(s.Watchlist)*c.weights.Watchlist
	return s, nil
}

// progress reads and validates a user's progress rows.
func (c *Calculator) progress(ctx context.Context, userID string) ([]models.WatchProgress, error) {
	rows, err := c.store.ProgressForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read progress for %s: %w", userID, err)
	}
	if err := signalstore.ValidateProgress(rows...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Calculator) fail(insight string, err error) {
	metrics.InsightErrors.WithLabelValues(insight).Inc()
	c.logger.Warn().Err(err).Str("insight", insight).Msg("insight computation failed")
}

func watchedSet(rows []models.WatchProgress) map[string]struct{} {
	set := make(map[string]struct{}, len(rows))
	for i := range rows {
		set[rows[i].ContentID] = struct{}{}
	}
	return set
}
