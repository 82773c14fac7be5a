// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package config provides centralized configuration management for Marquee.

Configuration is assembled with Koanf v2 in three layers, each overriding the
previous one:

 1. Struct defaults (defaultConfig)
 2. An optional YAML file, taken from CONFIG_PATH or the first existing entry
    of DefaultConfigPaths
 3. Environment variables, mapped through an explicit table so unrelated
    variables never leak into the configuration

# Sections

  - server: HTTP listener, timeouts, CORS origins and request rate limiting
  - database: DuckDB path and tuning, optional demo catalog seed
  - recommend: result limits, algorithm weights, trending window, cold-start
    tuning and the signal store circuit breaker
  - recorder: playback event transport, dedupe window and progress throttle
  - logging: level, format and caller annotation

# Environment Variables

A selection of the supported variables:

  - HTTP_HOST, HTTP_PORT: listener address (default 0.0.0.0:3870)
  - CORS_ORIGINS: comma-separated allowed origins
  - DUCKDB_PATH: database file (default /data/marquee.duckdb)
  - SEED_DEMO_DATA: populate an empty catalog with demo rows
  - RECOMMEND_DEFAULT_LIMIT, RECOMMEND_MAX_LIMIT: result list sizes
  - RECOMMEND_TRENDING_DAYS: default trending window
  - RECORDER_BACKEND: gochannel or nats
  - NATS_URL: broker address when RECORDER_BACKEND=nats
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

Config is immutable after Load and safe for concurrent reads.
*/
package config
