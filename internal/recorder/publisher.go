// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/marquee/internal/metrics"
)

// Publisher wraps a Watermill publisher with a circuit breaker, a bounded
// publish time and a closed flag.
type Publisher struct {
	publisher message.Publisher
	breaker   *gobreaker.CircuitBreaker[struct{}]
	logger    zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps pub.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPublisher(pub message.Publisher, cfg BreakerConfig, logger zerolog.Logger) *Publisher {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	logger = logger.With().Str("component", "recorder-publisher").Logger()

	settings := gobreaker.Settings{
		Name:        "recorder-publish",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetBreakerState(name, breakerStateValue(to))
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Recorder publish circuit breaker state changed")
		},
	}
	metrics.SetBreakerState(settings.Name, 0)

	return &Publisher{
		publisher: pub,
		breaker:   gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:    logger,
	}
}

// Publish sends msg to topic. It gives up when ctx ends even if the
// transport is still blocked.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	msg.SetContext(ctx)
	_, err := p.breaker.Execute(func() (struct{}, error) {
		done := make(chan error, 1)
		go func() { done <- p.publisher.Publish(topic, msg) }()
		select {
		case err := <-done:
			return struct{}{}, err
		case <-ctx.Done():
			return struct{}{}, ctx.Err()
		}
	})
	if err != nil {
		metrics.RecorderPublishFailures.Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("publish %s: transport unavailable: %w", msg.UUID, err)
		}
		return fmt.Errorf("publish %s: %w", msg.UUID, err)
	}
	return nil
}

// State returns the breaker state name.
func (p *Publisher) State() string {
	return p.breaker.State().String()
}

// Close closes the underlying publisher. Later calls are no-ops.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}

func breakerStateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
