// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

//go:build !nats

package recorder

import "github.com/ThreeDotsLabs/watermill"

func newNATSPubSub(_ *Config, _ watermill.LoggerAdapter) (*PubSub, error) {
	return nil, ErrNATSNotEnabled
}
