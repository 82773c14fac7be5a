// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Loading order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config file: optional YAML file (config.yaml)
//  3. Environment variables: override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	db, err := database.New(&cfg.Database)
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Recommend RecommendConfig `koanf:"recommend"`
	Recorder  RecorderConfig  `koanf:"recorder"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`

	// RateLimitRequests per RateLimitWindow per client IP. Zero disables limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// Addr returns host:port for net/http.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path         string `koanf:"path"`
	MaxMemory    string `koanf:"max_memory"`
	Threads      int    `koanf:"threads"`
	SeedDemoData bool   `koanf:"seed_demo_data"`

	// CheckpointInterval is how often the maintenance service checkpoints
	// the WAL. Zero disables periodic checkpoints.
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`
}

// RecommendConfig tunes the recommendation engine.
type RecommendConfig struct {
	DefaultLimit       int `koanf:"default_limit"`
	MaxLimit           int `koanf:"max_limit"`
	TrendingWindowDays int `koanf:"trending_window_days"`

	// Hybrid combiner weights per source.
	CollaborativeWeight float64 `koanf:"collaborative_weight"`
	PersonalizedWeight  float64 `koanf:"personalized_weight"`
	TrendingWeight      float64 `koanf:"trending_weight"`

	// Content-based attribute weights; their sum must not exceed 100.
	GenreWeight    float64 `koanf:"genre_weight"`
	DirectorWeight float64 `koanf:"director_weight"`
	CastWeight     float64 `koanf:"cast_weight"`
	StudioWeight   float64 `koanf:"studio_weight"`

	PersonalizedMinStars  int     `koanf:"personalized_min_stars"`
	PersonalizedTopGenres int     `koanf:"personalized_top_genres"`
	PersonalizedRankStep  float64 `koanf:"personalized_rank_step"`

	ColdStartOversample   int     `koanf:"cold_start_oversample"`
	ColdStartRatingWeight float64 `koanf:"cold_start_rating_weight"`
	ColdStartAgeWeight    float64 `koanf:"cold_start_age_weight"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the circuit breaker around signal store reads.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
}

// RecorderConfig configures the playback event recorder.
type RecorderConfig struct {
	// Backend is "gochannel" (in-process) or "nats" (requires the nats build tag).
	Backend string `koanf:"backend"`
	Topic   string `koanf:"topic"`

	NATSURL     string `koanf:"nats_url"`
	NATSStream  string `koanf:"nats_stream"`
	NATSDurable string `koanf:"nats_durable"`

	BufferSize       int64         `koanf:"buffer_size"`
	PublishTimeout   time.Duration `koanf:"publish_timeout"`
	DedupWindow      time.Duration `koanf:"dedup_window"`
	DedupCapacity    int           `koanf:"dedup_capacity"`
	ProgressInterval time.Duration `koanf:"progress_interval"`
	MaxRetries       int           `koanf:"max_retries"`
	RetryInterval    time.Duration `koanf:"retry_interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
