// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/marquee/internal/recommend"
)

// recommendationPayload is the data section of every recommendation response.
type recommendationPayload struct {
	Items []recommend.CandidateItem `json:"items"`
	Count int                       `json:"count"`
}

func respondItems(w http.ResponseWriter, items []recommend.CandidateItem, start time.Time) {
	if items == nil {
		items = []recommend.CandidateItem{}
	}
	respondData(w, http.StatusOK, recommendationPayload{Items: items, Count: len(items)}, start)
}

// userRequest reads {userID} and ?limit= and validates them. It writes the
// error response itself and returns false on failure.
func userRequest(w http.ResponseWriter, r *http.Request) (UserRecommendationsRequest, bool) {
	limit, err := getIntParam(r, "limit", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return UserRecommendationsRequest{}, false
	}
	req := UserRecommendationsRequest{UserID: chi.URLParam(r, "userID"), Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return req, false
	}
	return req, true
}

// UserRecommendations handles GET /api/v1/recommendations/users/{userID}.
// Hybrid blend, falling back to cold-start picks for users without history.
func (h *Handler) UserRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := userRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	respondItems(w, h.engine.ForUser(ctx, req.UserID, req.Limit), start)
}

// CollaborativeRecommendations handles GET /api/v1/recommendations/users/{userID}/collaborative.
func (h *Handler) CollaborativeRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := userRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	respondItems(w, h.engine.Collaborative(ctx, req.UserID, req.Limit), start)
}

// PersonalizedRecommendations handles GET /api/v1/recommendations/users/{userID}/personalized.
func (h *Handler) PersonalizedRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := userRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	respondItems(w, h.engine.Personalized(ctx, req.UserID, req.Limit), start)
}

// SimilarContent handles GET /api/v1/recommendations/content/{contentID}/similar.
// With ?user_id= the user's watchlist is left out.
func (h *Handler) SimilarContent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, err := getIntParam(r, "limit", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	req := SimilarContentRequest{
		ContentID: chi.URLParam(r, "contentID"),
		UserID:    r.URL.Query().Get("user_id"),
		Limit:     limit,
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	respondItems(w, h.engine.ContentBased(ctx, req.ContentID, req.UserID, req.Limit), start)
}

// Trending handles GET /api/v1/recommendations/trending.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	days, err := getIntParam(r, "days", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	limit, err := getIntParam(r, "limit", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	req := TrendingRequest{Days: days, Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	respondItems(w, h.engine.Trending(ctx, req.Days, req.Limit), start)
}

// ColdStart handles GET /api/v1/recommendations/cold-start.
func (h *Handler) ColdStart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, err := getIntParam(r, "limit", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	req := ColdStartRequest{Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	respondItems(w, h.engine.ColdStart(ctx, req.Limit), start)
}
