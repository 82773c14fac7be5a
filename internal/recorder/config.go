// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recorder

import "time"

// Backend names.
const (
	BackendGoChannel = "gochannel"
	BackendNATS      = "nats"
)

// Config configures the recorder, its transport and its consumer.
type Config struct {
	Backend string
	Topic   string

	// NATS JetStream settings, used by the nats backend only.
	NATSURL     string
	NATSStream  string
	NATSDurable string

	// BufferSize is the gochannel output buffer per subscriber.
	BufferSize int64

	// PublishTimeout bounds how long Record may wait on the transport.
	PublishTimeout time.Duration

	// DedupWindow and DedupCapacity size the duplicate suppression window.
	DedupWindow   time.Duration
	DedupCapacity int

	// ProgressInterval is the minimum spacing of progress reports per
	// (user, content). Completions are never throttled.
	ProgressInterval time.Duration

	// Consumer retry policy.
	MaxRetries    int
	RetryInterval time.Duration

	Breaker BreakerConfig
}

// BreakerConfig configures the circuit breaker around publishing.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Backend:          BackendGoChannel,
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
		Breaker: BreakerConfig{
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          10 * time.Second,
			FailureThreshold: 5,
		},
	}
}
