// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recorder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/signalstore"
)

const (
	handlerName = "recorder-persist"

	// appendedKey marks a message whose WatchEvent is already stored, so a
	// retry after a failed progress upsert does not append it twice.
	appendedKey = "marquee_event_appended"
)

// Consumer persists published playback reports into the signal store.
// Each Serve call builds a fresh Watermill router so that a supervisor can
// restart it.
type Consumer struct {
	cfg    Config
	pubsub *PubSub
	store  signalstore.Writer
	logger zerolog.Logger
	wlog   watermill.LoggerAdapter

	ready     chan struct{}
	readyOnce sync.Once
}

// NewConsumer creates a consumer reading from ps and writing to store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewConsumer(cfg *Config, ps *PubSub, store signalstore.Writer, logger zerolog.Logger) (*Consumer, error) {
	if ps == nil || ps.Subscriber == nil {
		return nil, fmt.Errorf("subscriber is required")
	}
	if store == nil {
		return nil, fmt.Errorf("signal store is required")
	}
	logger = logger.With().Str("component", "recorder-consumer").Logger()
	return &Consumer{
		cfg:    *cfg,
		pubsub: ps,
		store:  store,
		logger: logger,
		wlog:   logging.NewWatermillAdapter(logger),
		ready:  make(chan struct{}),
	}, nil
}

// PoisonTopic is where messages go once retries are exhausted.
func (c *Consumer) PoisonTopic() string {
	return c.cfg.Topic + ".poison"
}

// Ready is closed once the first router is subscribed and running.
func (c *Consumer) Ready() <-chan struct{} {
	return c.ready
}

// Serve implements suture.Service.
func (c *Consumer) Serve(ctx context.Context) error {
	router, err := c.newRouter()
	if err != nil {
		return err
	}

	go func() {
		select {
		case <-router.Running():
			c.readyOnce.Do(func() { close(c.ready) })
		case <-ctx.Done():
		}
	}()

	c.logger.Info().Str("topic", c.cfg.Topic).Msg("recorder consumer starting")
	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("recorder router: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logs.
func (c *Consumer) String() string {
	return "recorder-consumer"
}

func (c *Consumer) newRouter() (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, c.wlog)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Outermost first: exhausted messages go to the poison topic, panics
	// become errors, transient store errors are retried.
	if c.pubsub.Publisher != nil {
		poison, err := middleware.PoisonQueue(c.pubsub.Publisher, c.PoisonTopic())
		if err != nil {
			return nil, fmt.Errorf("create poison queue middleware: %w", err)
		}
		router.AddMiddleware(poison)
	}
	router.AddMiddleware(middleware.Recoverer)

	interval := c.cfg.RetryInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	retry := middleware.Retry{
		MaxRetries:      c.cfg.MaxRetries,
		InitialInterval: interval,
		MaxInterval:     10 * interval,
		Multiplier:      2.0,
		Logger:          c.wlog,
	}
	router.AddMiddleware(retry.Middleware)

	router.AddConsumerHandler(handlerName, c.cfg.Topic, c.pubsub.Subscriber, c.Handle)
	return router, nil
}

// Handle persists one message. Undecodable payloads are dropped; store
// errors are returned so the router retries them.
func (c *Consumer) Handle(msg *message.Message) error {
	m, err := Unmarshal(msg.Payload)
	if err != nil {
		metrics.RecorderConsumeErrors.Inc()
		c.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping undecodable playback message")
		return nil
	}
	ctx := msg.Context()

	if m.Type == MessageEvent && msg.Metadata.Get(appendedKey) == "" {
		if err := c.store.AppendWatchEvent(ctx, m.WatchEvent()); err != nil {
			metrics.RecorderConsumeErrors.Inc()
			return fmt.Errorf("append watch event: %w", err)
		}
		msg.Metadata.Set(appendedKey, "1")
		metrics.RecorderPersisted.WithLabelValues("watch_event").Inc()
	}

	if p, ok := m.Progress(); ok {
		if err := c.store.UpsertWatchProgress(ctx, p); err != nil {
			metrics.RecorderConsumeErrors.Inc()
			return fmt.Errorf("upsert watch progress: %w", err)
		}
		metrics.RecorderPersisted.WithLabelValues("watch_progress").Inc()
	}

	c.logger.Debug().
		Str("message_id", msg.UUID).
		Str("type", string(m.Type)).
		Str("content_id", m.ContentID).
		Msg("playback message persisted")
	return nil
}
