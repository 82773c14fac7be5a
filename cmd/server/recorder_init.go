// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/recorder"
	"github.com/tomtom215/marquee/internal/signalstore"
)

// RecorderComponents holds the playback write path.
type RecorderComponents struct {
	PubSub   *recorder.PubSub
	Recorder *recorder.Recorder
	Consumer *recorder.Consumer
}

// Close stops accepting reports, then closes the transport.
func (c *RecorderComponents) Close() error {
	return errors.Join(c.Recorder.Close(), c.PubSub.Close())
}

// buildRecorderConfig maps koanf settings onto the recorder config. The
// publish breaker keeps its defaults.
func buildRecorderConfig(cfg *config.RecorderConfig) recorder.Config {
	rc := recorder.DefaultConfig()
	rc.Backend = cfg.Backend
	rc.Topic = cfg.Topic
	rc.NATSURL = cfg.NATSURL
	rc.NATSStream = cfg.NATSStream
	rc.NATSDurable = cfg.NATSDurable
	rc.BufferSize = cfg.BufferSize
	rc.PublishTimeout = cfg.PublishTimeout
	rc.DedupWindow = cfg.DedupWindow
	rc.DedupCapacity = cfg.DedupCapacity
	rc.ProgressInterval = cfg.ProgressInterval
	rc.MaxRetries = cfg.MaxRetries
	rc.RetryInterval = cfg.RetryInterval
	return rc
}

// initRecorder wires recorder, transport and consumer. The consumer writes
// straight to the store; the read breaker does not guard writes.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecorder(cfg *config.RecorderConfig, store signalstore.Writer, logger zerolog.Logger) (*RecorderComponents, error) {
	rc := buildRecorderConfig(cfg)

	ps, err := recorder.NewPubSub(&rc, logger)
	if err != nil {
		return nil, fmt.Errorf("recorder transport: %w", err)
	}

	rec, err := recorder.New(&rc, recorder.NewPublisher(ps.Publisher, rc.Breaker, logger), logger)
	if err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("recorder: %w", err)
	}

	consumer, err := recorder.NewConsumer(&rc, ps, store, logger)
	if err != nil {
		_ = rec.Close()
		_ = ps.Close()
		return nil, fmt.Errorf("recorder consumer: %w", err)
	}

	logger.Info().
		Str("backend", rc.Backend).
		Str("topic", rc.Topic).
		Msg("playback recorder initialized")

	return &RecorderComponents{PubSub: ps, Recorder: rec, Consumer: consumer}, nil
}
