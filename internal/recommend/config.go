// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"fmt"
	"math"
)

// MaxContentScore is the upper bound on a content-based score. Attribute
// weights must not sum above it so content scores stay on the same scale
// as the other sources.
const MaxContentScore = 100.0

// MaxTrendingWindowDays caps the trending window at ten years so the window
// duration cannot overflow.
const MaxTrendingWindowDays = 3650

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Hybrid holds the per-source weights of the hybrid combiner.
	Hybrid HybridWeights `json:"hybrid"`

	// Content holds the content-based attribute weights.
	Content ContentWeights `json:"content"`

	// Personalized tunes genre-preference scoring.
	Personalized PersonalizedConfig `json:"personalized"`

	// ColdStart tunes catalog-quality scoring.
	ColdStart ColdStartConfig `json:"cold_start"`

	// Limits contains result size limits.
	Limits LimitsConfig `json:"limits"`

	// TrendingWindowDays is used when a trending query carries no window.
	TrendingWindowDays int `json:"trending_window_days"`
}

// HybridWeights defines how much each source contributes to a hybrid score.
type HybridWeights struct {
	Collaborative float64 `json:"collaborative"`
	Personalized  float64 `json:"personalized"`
	Trending      float64 `json:"trending"`
}

// For returns the weight of src, or 0 for sources outside the hybrid blend.
func (w HybridWeights) For(src Source) float64 {
	switch src {
	case SourceCollaborative:
		return w.Collaborative
	case SourcePersonalized:
		return w.Personalized
	case SourceTrending:
		return w.Trending
	default:
		return 0
	}
}

// ContentWeights are the additive points for each shared attribute.
type ContentWeights struct {
	Genre    float64 `json:"genre"`
	Director float64 `json:"director"`
	Cast     float64 `json:"cast"`
	Studio   float64 `json:"studio"`
}

// Sum returns the maximum score a candidate can reach.
func (w ContentWeights) Sum() float64 {
	return w.Genre + w.Director + w.Cast + w.Studio
}

// PersonalizedConfig tunes the personalized scorer.
type PersonalizedConfig struct {
	// MinStars is the lowest rating that counts as a positive signal.
	MinStars int `json:"min_stars"`

	// TopGenres is how many preferred genres are kept.
	TopGenres int `json:"top_genres"`

	// RankStep is the points per rank: the genre at rank r earns (TopGenres-r)*RankStep.
	RankStep float64 `json:"rank_step"`
}

// ColdStartConfig tunes the cold-start scorer.
type ColdStartConfig struct {
	// Oversample multiplies the limit when fetching newest-first candidates.
	Oversample int `json:"oversample"`

	// RatingWeight multiplies the average star rating.
	RatingWeight float64 `json:"rating_weight"`

	// AgeWeight multiplies the item's age in years. Positive values favor
	// older catalog titles.
	AgeWeight float64 `json:"age_weight"`
}

// LimitsConfig contains result size limits.
type LimitsConfig struct {
	// DefaultLimit replaces a non-positive requested limit.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps any requested limit.
	MaxLimit int `json:"max_limit"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		Hybrid: HybridWeights{
			Collaborative: 0.4,
			Personalized:  0.4,
			Trending:      0.2,
		},
		Content: ContentWeights{
			Genre:    40,
			Director: 30,
			Cast:     20,
			Studio:   10,
		},
		Personalized: PersonalizedConfig{
			MinStars:  4,
			TopGenres: 3,
			RankStep:  30,
		},
		ColdStart: ColdStartConfig{
			Oversample:   2,
			RatingWeight: 50,
			AgeWeight:    5,
		},
		Limits: LimitsConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
		TrendingWindowDays: 7,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	for name, w := range map[string]float64{
		"hybrid.collaborative":     c.Hybrid.Collaborative,
		"hybrid.personalized":      c.Hybrid.Personalized,
		"hybrid.trending":          c.Hybrid.Trending,
		"content.genre":            c.Content.Genre,
		"content.director":         c.Content.Director,
		"content.cast":             c.Content.Cast,
		"content.studio":           c.Content.Studio,
		"personalized.rank_step":   c.Personalized.RankStep,
		"cold_start.rating_weight": c.ColdStart.RatingWeight,
		"cold_start.age_weight":    c.ColdStart.AgeWeight,
	} {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%s must be finite and non-negative, got %f", name, w)
		}
	}

	if sum := c.Content.Sum(); sum > MaxContentScore {
		return fmt.Errorf("content weights sum to %f, must not exceed %.0f", sum, MaxContentScore)
	}
	if c.Personalized.MinStars < 1 || c.Personalized.MinStars > 5 {
		return fmt.Errorf("personalized.min_stars must be in [1, 5], got %d", c.Personalized.MinStars)
	}
	if c.Personalized.TopGenres < 1 {
		return fmt.Errorf("personalized.top_genres must be positive, got %d", c.Personalized.TopGenres)
	}
	if c.ColdStart.Oversample < 1 {
		return fmt.Errorf("cold_start.oversample must be positive, got %d", c.ColdStart.Oversample)
	}
	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.TrendingWindowDays < 1 || c.TrendingWindowDays > MaxTrendingWindowDays {
		return fmt.Errorf("trending_window_days must be in [1, %d], got %d", MaxTrendingWindowDays, c.TrendingWindowDays)
	}
	return nil
}

// NormalizeWindow applies the default trending window and caps it at
// MaxTrendingWindowDays.
func (c *Config) NormalizeWindow(days int) int {
	if days <= 0 {
		return c.TrendingWindowDays
	}
	if days > MaxTrendingWindowDays {
		return MaxTrendingWindowDays
	}
	return days
}

// NormalizeLimit applies the default and the cap.
func (c *Config) NormalizeLimit(limit int) int {
	if limit <= 0 {
		return c.Limits.DefaultLimit
	}
	if limit > c.Limits.MaxLimit {
		return c.Limits.MaxLimit
	}
	return limit
}
