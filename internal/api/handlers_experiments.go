// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/jobrec/internal/recommend/experiment"
)

// CreateExperiment handles POST /api/v1/experiments.
func (h *Handler) CreateExperiment(w http.ResponseWriter, r *http.Request) {
	if h.deps.Experiments == nil {
		respondUnavailable(w, "Experiment engine")
		return
	}

	var cfg experiment.Config
	if !decodeBody(w, r, &cfg) {
		return
	}

	exp, err := h.deps.Experiments.Create(r.Context(), cfg)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid experiment configuration", err)
		return
	}
	respondSuccess(w, http.StatusCreated, exp, time.Time{})
}

// ListExperiments handles GET /api/v1/experiments.
func (h *Handler) ListExperiments(w http.ResponseWriter, _ *http.Request) {
	if h.deps.Experiments == nil {
		respondUnavailable(w, "Experiment engine")
		return
	}

	list := h.deps.Experiments.List()
	if list == nil {
		list = []experiment.Experiment{}
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"experiments": list,
		"count":       len(list),
	}, time.Time{})
}

// GetExperiment handles GET /api/v1/experiments/{id}.
func (h *Handler) GetExperiment(w http.ResponseWriter, r *http.Request) {
	if h.deps.Experiments == nil {
		respondUnavailable(w, "Experiment engine")
		return
	}

	exp, err := h.deps.Experiments.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "Failed to load experiment")
		return
	}
	respondSuccess(w, http.StatusOK, exp, time.Time{})
}

// GetAssignment handles GET /api/v1/experiments/{id}/assignment/{userID}.
// The first call for a user buckets them; later calls return the same group.
func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	if h.deps.Experiments == nil {
		respondUnavailable(w, "Experiment engine")
		return
	}

	expID := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userID")
	model, group, err := h.deps.Experiments.ModelFor(expID, userID)
	if err != nil {
		respondServiceError(w, err, "Failed to assign user")
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"experiment_id": expID,
		"user_id":       userID,
		"group":         group,
		"model":         model,
	}, time.Time{})
}

// experimentEventRequest is the body of POST /api/v1/experiments/{id}/events.
type experimentEventRequest struct {
	UserID            string  `json:"user_id" validate:"required,max=128"`
	Type              string  `json:"type" validate:"required,oneof=impression click conversion"`
	EngagementSeconds float64 `json:"engagement_seconds" validate:"gte=0"`
}

// TrackExperimentEvent handles POST /api/v1/experiments/{id}/events.
func (h *Handler) TrackExperimentEvent(w http.ResponseWriter, r *http.Request) {
	if h.deps.Experiments == nil {
		respondUnavailable(w, "Experiment engine")
		return
	}

	var req experimentEventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ev := experiment.Event{
		Type:              experiment.EventType(req.Type),
		EngagementSeconds: req.EngagementSeconds,
	}
	if err := h.deps.Experiments.Track(r.Context(), chi.URLParam(r, "id"), req.UserID, ev); err != nil {
		respondServiceError(w, err, "Failed to track event")
		return
	}
	respondSuccess(w, http.StatusAccepted, map[string]interface{}{"tracked": true}, time.Time{})
}

// AnalyzeExperiment handles GET /api/v1/experiments/{id}/analysis.
func (h *Handler) AnalyzeExperiment(w http.ResponseWriter, r *http.Request) {
	if h.deps.Experiments == nil {
		respondUnavailable(w, "Experiment engine")
		return
	}

	analysis, err := h.deps.Experiments.Analyze(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "Failed to analyze experiment")
		return
	}
	respondSuccess(w, http.StatusOK, analysis, time.Time{})
}

// StopExperiment handles POST /api/v1/experiments/{id}/stop. Stopping an
// already stopped experiment returns its current state.
func (h *Handler) StopExperiment(w http.ResponseWriter, r *http.Request) {
	if h.deps.Experiments == nil {
		respondUnavailable(w, "Experiment engine")
		return
	}

	exp, err := h.deps.Experiments.Stop(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "Failed to stop experiment")
		return
	}
	respondSuccess(w, http.StatusOK, exp, time.Time{})
}
