// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recorder

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Marshal validates and encodes a message.
func Marshal(m *PlaybackMessage) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validate message: %w", err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and validates a message. Payloads from older schema
// versions are accepted; a missing version is read as 1.
func Unmarshal(data []byte) (*PlaybackMessage, error) {
	var m PlaybackMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal message: %w", err)
	}
	if m.SchemaVersion == 0 {
		m.SchemaVersion = SchemaVersion
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validate message: %w", err)
	}
	return &m, nil
}
