// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package engagement

import "time"

// RiskTier is a coarse churn risk bucket.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// Factor names reported by the churn classifier.
const (
	FactorNoHistory      = "no_watch_history"
	FactorEngagement     = "engagement_score"
	FactorDaysInactive   = "days_since_active"
	FactorCompletionRate = "completion_rate"
)

const (
	noHistoryPoints  = 100
	highRiskPoints   = 60
	mediumRiskPoints = 30
)

// Weights are the per-signal multipliers of the engagement score.
type Weights struct {
	CompletionRate float64 `json:"completion_rate"`
	Comment        float64 `json:"comment"`
	Rating         float64 `json:"rating"`
	Watchlist      float64 `json:"watchlist"`
}

// DefaultWeights returns the standard engagement weights.
func DefaultWeights() Weights {
	return Weights{
		CompletionRate: 30,
		Comment:        10,
		Rating:         15,
		Watchlist:      5,
	}
}

// Score is a user's engagement figure together with the counts it was built from.
type Score struct {
	UserID         string  `json:"user_id"`
	Score          float64 `json:"score"`
	CompletionRate float64 `json:"completion_rate"`
	ProgressRows   int     `json:"progress_rows"`
	CompletedRows  int     `json:"completed_rows"`
	Comments       int     `json:"comments"`
	Ratings        int     `json:"ratings"`
	Watchlist      int     `json:"watchlist"`
	Degraded       bool    `json:"degraded,omitempty"`
}

// Factor is one evaluated churn rule: the observed value and the points it added.
type Factor struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Points int     `json:"points"`
}

// ChurnRisk is the classifier output.
type ChurnRisk struct {
	UserID          string     `json:"user_id"`
	Score           int        `json:"score"`
	Tier            RiskTier   `json:"tier,omitempty"`
	DaysSinceActive *int       `json:"days_since_active,omitempty"`
	LastActive      *time.Time `json:"last_active,omitempty"`
	Factors         []Factor   `json:"factors"`
	Degraded        bool       `json:"degraded,omitempty"`
}

// Similarity is the Jaccard overlap between two users' watched sets.
type Similarity struct {
	UserA  string  `json:"user_a"`
	UserB  string  `json:"user_b"`
	Score  float64 `json:"score"`
	Shared int     `json:"shared"`
	Union  int     `json:"union"`
	// Degraded marks a result computed without store data.
	Degraded bool `json:"degraded,omitempty"`
}

// tierFor buckets a churn score.
func tierFor(score int) RiskTier {
	switch {
	case score >= highRiskPoints:
		return RiskHigh
	case score >= mediumRiskPoints:
		return RiskMedium
	default:
		return RiskLow
	}
}
