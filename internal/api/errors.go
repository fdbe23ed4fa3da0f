// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/jobrec/internal/kvstore"
	"github.com/tomtom215/jobrec/internal/recommend"
	"github.com/tomtom215/jobrec/internal/recommend/experiment"
	"github.com/tomtom215/jobrec/internal/recommend/realtime"
	"github.com/tomtom215/jobrec/internal/recommend/training"
)

// errorMapping binds a sentinel error to its HTTP representation.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorMappings is checked in order with errors.Is.
var errorMappings = []errorMapping{
	{recommend.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND", "User not found"},
	{recommend.ErrInvalidAction, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown interaction action"},
	{kvstore.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "No stored recommendations"},
	{experiment.ErrExperimentNotFound, http.StatusNotFound, "NOT_FOUND", "Experiment not found"},
	{experiment.ErrExperimentStopped, http.StatusConflict, "CONFLICT", "Experiment is stopped"},
	{training.ErrUnknownModel, http.StatusNotFound, "NOT_FOUND", "Unknown model type"},
	{training.ErrModelNotFound, http.StatusNotFound, "NOT_FOUND", "No active model"},
	{training.ErrTrainingInProgress, http.StatusConflict, "CONFLICT", "Training already in progress"},
	{training.ErrNoTrainingData, http.StatusUnprocessableEntity, "UNPROCESSABLE", "Not enough interactions to train"},
	{realtime.ErrQueueFull, http.StatusServiceUnavailable, "QUEUE_FULL", "Update queue is full, retry later"},
}

// respondServiceError maps known sentinel errors to client errors and
// everything else to 500 with the given fallback message.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			respondError(w, m.status, m.code, m.message, nil)
			return
		}
	}
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", fallback, err)
}
