// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/engagement"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/recommend/algorithms"
	"github.com/tomtom215/marquee/internal/signalstore"
)

// RecommendComponents holds the read-side services built on the signal store.
type RecommendComponents struct {
	Engine     *recommend.Engine
	Calculator *engagement.Calculator
	Churn      *engagement.ChurnClassifier
}

// buildEngineConfig maps the flat koanf settings onto the engine config.
func buildEngineConfig(cfg *config.RecommendConfig) *recommend.Config {
	return &recommend.Config{
		Hybrid: recommend.HybridWeights{
			Collaborative: cfg.CollaborativeWeight,
			Personalized:  cfg.PersonalizedWeight,
			Trending:      cfg.TrendingWeight,
		},
		Content: recommend.ContentWeights{
			Genre:    cfg.GenreWeight,
			Director: cfg.DirectorWeight,
			Cast:     cfg.CastWeight,
			Studio:   cfg.StudioWeight,
		},
		Personalized: recommend.PersonalizedConfig{
			MinStars:  cfg.PersonalizedMinStars,
			TopGenres: cfg.PersonalizedTopGenres,
			RankStep:  cfg.PersonalizedRankStep,
		},
		ColdStart: recommend.ColdStartConfig{
			Oversample:   cfg.ColdStartOversample,
			RatingWeight: cfg.ColdStartRatingWeight,
			AgeWeight:    cfg.ColdStartAgeWeight,
		},
		Limits: recommend.LimitsConfig{
			DefaultLimit: cfg.DefaultLimit,
			MaxLimit:     cfg.MaxLimit,
		},
		TrendingWindowDays: cfg.TrendingWindowDays,
	}
}

// wrapReader puts the circuit breaker in front of reads when enabled.
func wrapReader(store signalstore.Reader, cfg *config.BreakerConfig) signalstore.Reader {
	if !cfg.Enabled {
		return store
	}
	return signalstore.NewResilient(store, signalstore.BreakerConfig{
		Name:             "signal-store",
		MaxRequests:      cfg.MaxRequests,
		Interval:         cfg.Interval,
		Timeout:          cfg.Timeout,
		FailureThreshold: cfg.FailureThreshold,
	})
}

// initRecommend builds the engine with every scorer registered, plus the
// engagement calculator and churn classifier over the same reader.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.RecommendConfig, store signalstore.Reader, logger zerolog.Logger) (*RecommendComponents, error) {
	reader := wrapReader(store, &cfg.Breaker)

	engine, err := recommend.NewEngine(reader, buildEngineConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("recommendation engine: %w", err)
	}
	algorithms.RegisterAll(engine)

	calc, err := engagement.NewCalculator(reader, engagement.DefaultWeights(), logger)
	if err != nil {
		return nil, fmt.Errorf("engagement calculator: %w", err)
	}

	logger.Info().
		Interface("sources", engine.Sources()).
		Bool("breaker", cfg.Breaker.Enabled).
		Msg("recommendation engine initialized")

	return &RecommendComponents{
		Engine:     engine,
		Calculator: calc,
		Churn:      engagement.NewChurnClassifier(calc),
	}, nil
}
