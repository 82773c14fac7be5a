// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func notConfigured(w http.ResponseWriter, what string) {
	respondError(w, http.StatusServiceUnavailable, ErrCodeNotConfigured, what+" is not configured", nil)
}

func userInsightRequest(w http.ResponseWriter, r *http.Request) (UserInsightRequest, bool) {
	req := UserInsightRequest{UserID: chi.URLParam(r, "userID")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return req, false
	}
	return req, true
}

// UserEngagement handles GET /api/v1/insights/users/{userID}/engagement.
func (h *Handler) UserEngagement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.calc == nil {
		notConfigured(w, "Engagement calculator")
		return
	}
	req, ok := userInsightRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	respondData(w, http.StatusOK, h.calc.Engagement(ctx, req.UserID), start)
}

// UserChurn handles GET /api/v1/insights/users/{userID}/churn.
func (h *Handler) UserChurn(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.churn == nil {
		notConfigured(w, "Churn classifier")
		return
	}
	req, ok := userInsightRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	respondData(w, http.StatusOK, h.churn.Classify(ctx, req.UserID), start)
}

// UserSimilarity handles GET /api/v1/insights/similarity?a=&b=.
func (h *Handler) UserSimilarity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.calc == nil {
		notConfigured(w, "Engagement calculator")
		return
	}
	q := r.URL.Query()
	req := SimilarityRequest{A: q.Get("a"), B: q.Get("b")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	respondData(w, http.StatusOK, h.calc.Similarity(ctx, req.A, req.B), start)
}
