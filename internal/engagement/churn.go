// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package engagement

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/marquee/internal/metrics"
)

// ChurnClassifier assigns a churn risk tier from engagement, recency and
// completion signals.
type ChurnClassifier struct {
	calc *Calculator
	now  func() time.Time
	mu   sync.RWMutex
}

// NewChurnClassifier creates a classifier on top of calc.
func NewChurnClassifier(calc *Calculator) *ChurnClassifier {
	return &ChurnClassifier{calc: calc, now: time.Now}
}

// SetClock overrides the time source used for days_since_active.
func (c *ChurnClassifier) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Classify scores the user's churn risk. When the store cannot be read the
// result carries no tier and is marked Degraded.
func (c *ChurnClassifier) Classify(ctx context.Context, userID string) *ChurnRisk {
	rows, err := c.calc.progress(ctx, userID)
	if err != nil {
		return c.degraded(userID, err)
	}

	risk := &ChurnRisk{UserID: userID}
	if len(rows) == 0 {
		risk.Score = noHistoryPoints
		risk.Tier = RiskHigh
		risk.Factors = []Factor{{Name: FactorNoHistory, Value: 0, Points: noHistoryPoints}}
		metrics.ChurnClassifications.WithLabelValues(string(risk.Tier)).Inc()
		return risk
	}

	eng, err := c.calc.engagementFrom(ctx, userID, rows)
	if err != nil {
		return c.degraded(userID, err)
	}

	last := rows[0].LastWatched
	for i := range rows {
		if rows[i].LastWatched.After(last) {
			last = rows[i].LastWatched
		}
	}
	c.mu.RLock()
	now := c.now()
	c.mu.RUnlock()
	days := int(now.Sub(last) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	risk.LastActive = &last
	risk.DaysSinceActive = &days

	risk.Factors = []Factor{
		{Name: FactorEngagement, Value: eng.Score, Points: engagementPoints(eng.Score)},
		{Name: FactorDaysInactive, Value: float64(days), Points: inactivityPoints(days)},
		{Name: FactorCompletionRate, Value: eng.CompletionRate, Points: completionPoints(eng.CompletionRate)},
	}
	for _, f := range risk.Factors {
		risk.Score += f.Points
	}
	risk.Tier = tierFor(risk.Score)

	metrics.ChurnClassifications.WithLabelValues(string(risk.Tier)).Inc()
	c.calc.logger.Debug().
		Str("user_id", userID).
		Int("score", risk.Score).
		Str("tier", string(risk.Tier)).
		Msg("churn risk classified")
	return risk
}

func (c *ChurnClassifier) degraded(userID string, err error) *ChurnRisk {
	c.calc.fail("churn", err)
	return &ChurnRisk{UserID: userID, Factors: []Factor{}, Degraded: true}
}

func engagementPoints(score float64) int {
	switch {
	case score < 50:
		return 40
	case score < 100:
		return 20
	default:
		return 0
	}
}

func inactivityPoints(days int) int {
	switch {
	case days > 30:
		return 40
	case days > 14:
		return 20
	default:
		return 0
	}
}

func completionPoints(rate float64) int {
	switch {
	case rate < 0.30:
		return 20
	case rate < 0.50:
		return 10
	default:
		return 0
	}
}
