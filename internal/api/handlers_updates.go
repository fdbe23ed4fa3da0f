// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/jobrec/internal/recommend/realtime"
)

// profileUpdateRequest is the body of POST /api/v1/profile-updates.
type profileUpdateRequest struct {
	UserID        string   `json:"user_id" validate:"required,max=128"`
	UpdatedFields []string `json:"updated_fields" validate:"required,min=1,max=50,dive,required,max=64"`
}

// SubmitProfileUpdate handles POST /api/v1/profile-updates.
//
// Responses:
//   - 202 with the ticket when a refresh was scheduled or coalesced
//   - 200 with scheduled=false when no updated field affects matching
//   - 503 when the queue is full
func (h *Handler) SubmitProfileUpdate(w http.ResponseWriter, r *http.Request) {
	if h.deps.Updates == nil {
		respondUnavailable(w, "Update coordinator")
		return
	}

	var req profileUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ticket, err := h.deps.Updates.Submit(req.UserID, req.UpdatedFields)
	if errors.Is(err, realtime.ErrNotRelevant) {
		respondSuccess(w, http.StatusOK, map[string]interface{}{
			"scheduled": false,
			"reason":    err.Error(),
		}, time.Time{})
		return
	}
	if err != nil {
		respondServiceError(w, err, "Failed to schedule update")
		return
	}

	respondSuccess(w, http.StatusAccepted, map[string]interface{}{
		"scheduled":              true,
		"task_id":                ticket.TaskID,
		"expected_completion_at": ticket.ExpectedCompletionAt,
		"sla_seconds":            h.deps.Updates.SLA().Seconds(),
	}, time.Time{})
}

// GetUpdateTask handles GET /api/v1/update-tasks/{userID}. It reports the
// most relevant task of the user: pending or running first, otherwise the
// last finished one still retained.
func (h *Handler) GetUpdateTask(w http.ResponseWriter, r *http.Request) {
	if h.deps.Updates == nil {
		respondUnavailable(w, "Update coordinator")
		return
	}

	task, ok := h.deps.Updates.Task(chi.URLParam(r, "userID"))
	if !ok {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "No update task for user", nil)
		return
	}
	respondSuccess(w, http.StatusOK, task, time.Time{})
}

// UpdateStats handles GET /api/v1/update-tasks.
func (h *Handler) UpdateStats(w http.ResponseWriter, _ *http.Request) {
	if h.deps.Updates == nil {
		respondUnavailable(w, "Update coordinator")
		return
	}
	respondSuccess(w, http.StatusOK, h.deps.Updates.Stats(), time.Time{})
}
