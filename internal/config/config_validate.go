// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"math"
)

// maxContentScore bounds the content-based attribute weights so content
// scores stay comparable with the other sources in the hybrid combiner.
const maxContentScore = 100

// maxTrendingWindowDays keeps the trending window duration from overflowing.
const maxTrendingWindowDays = 3650

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

var validRecorderBackends = map[string]bool{
	"gochannel": true,
	"nats":      true,
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateRecorder(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.RateLimitRequests < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be non-negative")
	}
	if c.Server.RateLimitRequests > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative")
	}
	if c.Database.CheckpointInterval < 0 {
		return fmt.Errorf("DUCKDB_CHECKPOINT_INTERVAL must be non-negative")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if r.DefaultLimit < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be at least 1")
	}
	if r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("RECOMMEND_MAX_LIMIT (%d) must be >= RECOMMEND_DEFAULT_LIMIT (%d)", r.MaxLimit, r.DefaultLimit)
	}
	if r.TrendingWindowDays < 1 || r.TrendingWindowDays > maxTrendingWindowDays {
		return fmt.Errorf("RECOMMEND_TRENDING_DAYS must be between 1 and %d, got %d", maxTrendingWindowDays, r.TrendingWindowDays)
	}

	for name, w := range map[string]float64{
		"collaborative_weight":     r.CollaborativeWeight,
		"personalized_weight":      r.PersonalizedWeight,
		"trending_weight":          r.TrendingWeight,
		"genre_weight":             r.GenreWeight,
		"director_weight":          r.DirectorWeight,
		"cast_weight":              r.CastWeight,
		"studio_weight":            r.StudioWeight,
		"personalized_rank_step":   r.PersonalizedRankStep,
		"cold_start_rating_weight": r.ColdStartRatingWeight,
		"cold_start_age_weight":    r.ColdStartAgeWeight,
	} {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("recommend.%s must be a finite non-negative number", name)
		}
	}

	if sum := r.GenreWeight + r.DirectorWeight + r.CastWeight + r.StudioWeight; sum > maxContentScore {
		return fmt.Errorf("content-based weights sum to %.1f, must not exceed %d", sum, maxContentScore)
	}
	if r.PersonalizedMinStars < 1 || r.PersonalizedMinStars > 5 {
		return fmt.Errorf("RECOMMEND_MIN_STARS must be between 1 and 5")
	}
	if r.PersonalizedTopGenres < 1 {
		return fmt.Errorf("RECOMMEND_TOP_GENRES must be at least 1")
	}
	if r.ColdStartOversample < 1 {
		return fmt.Errorf("RECOMMEND_COLD_START_OVERSAMPLE must be at least 1")
	}
	if r.Breaker.Enabled && r.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("STORE_BREAKER_FAILURES must be at least 1 when the breaker is enabled")
	}
	return nil
}

func (c *Config) validateRecorder() error {
	if !validRecorderBackends[c.Recorder.Backend] {
		return fmt.Errorf("RECORDER_BACKEND must be one of: gochannel, nats")
	}
	if c.Recorder.Topic == "" {
		return fmt.Errorf("RECORDER_TOPIC is required")
	}
	if c.Recorder.Backend == "nats" && c.Recorder.NATSURL == "" {
		return fmt.Errorf("NATS_URL is required when RECORDER_BACKEND=nats")
	}
	if c.Recorder.DedupCapacity < 1 {
		return fmt.Errorf("RECORDER_DEDUP_CAPACITY must be at least 1")
	}
	if c.Recorder.DedupWindow < 0 || c.Recorder.ProgressInterval < 0 {
		return fmt.Errorf("recorder windows must be non-negative")
	}
	if c.Recorder.MaxRetries < 0 {
		return fmt.Errorf("RECORDER_MAX_RETRIES must be non-negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
