// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/recommend"
)

type livenessPayload struct {
	Alive         bool               `json:"alive"`
	UptimeSeconds float64            `json:"uptime"`
	Sources       []recommend.Source `json:"sources"`
	Insights      bool               `json:"insights"`
	Playback      bool               `json:"playback"`
}

// HealthLive answers 200 whenever the process can serve HTTP, and reports
// which optional services are wired.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	respondData(w, http.StatusOK, livenessPayload{
		Alive:         true,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Sources:       h.engine.Sources(),
		Insights:      h.calc != nil,
		Playback:      h.recorder != nil,
	}, start)
}
