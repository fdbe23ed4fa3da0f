// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/jobrec/internal/models"
	"github.com/tomtom215/jobrec/internal/recommend"
)

// recommendationRequest is the body of POST /api/v1/users/{userID}/recommendations.
type recommendationRequest struct {
	UserID   string  `json:"-" validate:"required,max=128"`
	Limit    int     `json:"limit" validate:"gte=0,lte=100"`
	MinScore float64 `json:"min_score" validate:"gte=0,lte=100"`
	ItemType string  `json:"item_type" validate:"omitempty,max=32"`
	Strategy string  `json:"strategy" validate:"omitempty,oneof=hybrid content collaborative"`
}

// GenerateRecommendations handles POST /api/v1/users/{userID}/recommendations.
// The default strategy is hybrid; hybrid results are also persisted and
// announced by the engine.
func (h *Handler) GenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	if h.deps.Recommender == nil {
		respondUnavailable(w, "Recommendation engine")
		return
	}

	req := recommendationRequest{UserID: chi.URLParam(r, "userID")}
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	engineReq := recommend.Request{
		UserID:   req.UserID,
		Limit:    req.Limit,
		MinScore: req.MinScore,
		ItemType: req.ItemType,
	}

	var (
		resp *recommend.Response
		err  error
	)
	switch req.Strategy {
	case recommend.StrategyContent:
		resp, err = h.deps.Recommender.ContentRecommendations(ctx, engineReq)
	case recommend.StrategyCollaborative:
		resp, err = h.deps.Recommender.CollaborativeRecommendations(ctx, engineReq)
	default:
		resp, err = h.deps.Recommender.Recommend(ctx, engineReq)
	}
	if err != nil {
		respondServiceError(w, err, "Failed to generate recommendations")
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   resp,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: resp.Metadata.LatencyMs,
		},
	})
}

// GetStoredRecommendations handles GET /api/v1/users/{userID}/recommendations.
// It returns the last persisted hybrid list without recomputing.
func (h *Handler) GetStoredRecommendations(w http.ResponseWriter, r *http.Request) {
	if h.deps.Snapshots == nil {
		respondUnavailable(w, "Recommendation store")
		return
	}

	userID := chi.URLParam(r, "userID")
	snap, err := h.deps.Snapshots.LoadRecommendations(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Failed to load recommendations")
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   snap,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			Cached:    true,
		},
	})
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	data := map[string]interface{}{}
	if h.deps.Recommender != nil {
		data["engine"] = h.deps.Recommender.Stats()
	}
	if h.deps.Updates != nil {
		data["updates"] = h.deps.Updates.Stats()
	}
	respondSuccess(w, http.StatusOK, data, time.Time{})
}
