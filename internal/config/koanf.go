// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/marquee/config.yaml",
	"/etc/marquee/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              3870,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
		},
		Database: DatabaseConfig{
			Path:         "/data/marquee.duckdb",
			MaxMemory:    "1GB",
			Threads:      0, // 0 = runtime.NumCPU()
			SeedDemoData: false,

			CheckpointInterval: 5 * time.Minute,
		},
		Recommend: RecommendConfig{
			DefaultLimit:          10,
			MaxLimit:              100,
			TrendingWindowDays:    7,
			CollaborativeWeight:   0.4,
			PersonalizedWeight:    0.4,
			TrendingWeight:        0.2,
			GenreWeight:           40,
			DirectorWeight:        30,
			CastWeight:            20,
			StudioWeight:          10,
			PersonalizedMinStars:  4,
			PersonalizedTopGenres: 3,
			PersonalizedRankStep:  30,
			ColdStartOversample:   2,
			ColdStartRatingWeight: 50,
			ColdStartAgeWeight:    5,
			Breaker: BreakerConfig{
				Enabled:          true,
				MaxRequests:      3,
				Interval:         30 * time.Second,
				Timeout:          10 * time.Second,
				FailureThreshold: 5,
			},
		},
		Recorder: RecorderConfig{
			Backend:          "gochannel",
			Topic:            "playback.events",
			NATSURL:          "nats://127.0.0.1:4222",
			NATSStream:       "PLAYBACK",
			NATSDurable:      "marquee-recorder",
			BufferSize:       1024,
			PublishTimeout:   2 * time.Second,
			DedupWindow:      5 * time.Second,
			DedupCapacity:    10000,
			ProgressInterval: 5 * time.Second,
			MaxRetries:       3,
			RetryInterval:    100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources.
//
// Priority (highest wins):
//  1. Environment variables
//  2. Config file (if found)
//  3. Built-in defaults
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	// HTTP_PORT -> server.port, RECOMMEND_MAX_LIMIT -> recommend.max_limit
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first existing default path.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",

	// Database
	"duckdb_path":                "database.path",
	"duckdb_max_memory":          "database.max_memory",
	"duckdb_threads":             "database.threads",
	"seed_demo_data":             "database.seed_demo_data",
	"duckdb_checkpoint_interval": "database.checkpoint_interval",

	// Recommendation engine
	"recommend_default_limit":            "recommend.default_limit",
	"recommend_max_limit":                "recommend.max_limit",
	"recommend_trending_days":            "recommend.trending_window_days",
	"recommend_collaborative_weight":     "recommend.collaborative_weight",
	"recommend_personalized_weight":      "recommend.personalized_weight",
	"recommend_trending_weight":          "recommend.trending_weight",
	"recommend_genre_weight":             "recommend.genre_weight",
	"recommend_director_weight":          "recommend.director_weight",
	"recommend_cast_weight":              "recommend.cast_weight",
	"recommend_studio_weight":            "recommend.studio_weight",
	"recommend_min_stars":                "recommend.personalized_min_stars",
	"recommend_top_genres":               "recommend.personalized_top_genres",
	"recommend_cold_start_oversample":    "recommend.cold_start_oversample",
	"recommend_cold_start_rating_weight": "recommend.cold_start_rating_weight",
	"recommend_cold_start_age_weight":    "recommend.cold_start_age_weight",
	"store_breaker_enabled":              "recommend.breaker.enabled",
	"store_breaker_failures":             "recommend.breaker.failure_threshold",
	"store_breaker_timeout":              "recommend.breaker.timeout",

	// Recorder
	"recorder_backend":           "recorder.backend",
	"recorder_topic":             "recorder.topic",
	"recorder_buffer_size":       "recorder.buffer_size",
	"recorder_publish_timeout":   "recorder.publish_timeout",
	"recorder_dedup_window":      "recorder.dedup_window",
	"recorder_dedup_capacity":    "recorder.dedup_capacity",
	"recorder_progress_interval": "recorder.progress_interval",
	"recorder_max_retries":       "recorder.max_retries",
	"nats_url":                   "recorder.nats_url",
	"nats_stream":                "recorder.nats_stream",
	"nats_durable":               "recorder.nats_durable",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Values already loaded as slices (from YAML) are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
