// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/recorder"
)

// playbackPayload is the data section of a playback intake response.
type playbackPayload struct {
	Outcome recorder.Outcome `json:"outcome"`
}

// respondOutcome maps a recorder outcome to a status code. Duplicates and
// throttled reports are accepted: the client has nothing to retry.
func respondOutcome(w http.ResponseWriter, r *http.Request, outcome recorder.Outcome, start time.Time) {
	switch outcome {
	case recorder.OutcomeAccepted, recorder.OutcomeDuplicate, recorder.OutcomeThrottled:
		respondData(w, http.StatusAccepted, playbackPayload{Outcome: outcome}, start)
	case recorder.OutcomeInvalid:
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Playback report rejected", nil)
	case recorder.OutcomeClosed:
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recorder is shutting down", nil)
	default:
		logging.Ctx(r.Context()).Warn().Str("outcome", string(outcome)).Msg("playback report not published")
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Playback report could not be recorded, retry later", nil)
	}
}

// PlaybackEvent handles POST /api/v1/playback/events.
func (h *Handler) PlaybackEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.recorder == nil {
		notConfigured(w, "Playback recorder")
		return
	}

	var report recorder.EventReport
	if err := decodeJSONBody(w, r, &report); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&report); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	respondOutcome(w, r, h.recorder.RecordEvent(r.Context(), report), start)
}

// PlaybackProgress handles POST /api/v1/playback/progress.
func (h *Handler) PlaybackProgress(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.recorder == nil {
		notConfigured(w, "Playback recorder")
		return
	}

	var update recorder.ProgressUpdate
	if err := decodeJSONBody(w, r, &update); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&update); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	respondOutcome(w, r, h.recorder.UpdateProgress(r.Context(), update), start)
}
