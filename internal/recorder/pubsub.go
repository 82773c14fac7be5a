// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recorder

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/logging"
)

// PubSub is the transport pair shared by the recorder and its consumer.
type PubSub struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	close      func() error
}

// Close releases the transport.
func (ps *PubSub) Close() error {
	if ps.close == nil {
		return nil
	}
	return ps.close()
}

// NewPubSub builds the transport selected by cfg.Backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPubSub(cfg *Config, logger zerolog.Logger) (*PubSub, error) {
	wlog := logging.NewWatermillAdapter(logger.With().Str("component", "recorder-transport").Logger())

	switch cfg.Backend {
	case "", BackendGoChannel:
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, wlog)
		return &PubSub{Publisher: ch, Subscriber: ch, close: ch.Close}, nil
	case BackendNATS:
		return newNATSPubSub(cfg, wlog)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
