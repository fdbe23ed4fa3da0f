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

	"github.com/tomtom215/jobrec/internal/recommend/training"
)

// modelTypeParam is the validated {modelType} path segment.
type modelTypeParam struct {
	ModelType string `json:"model_type" validate:"required,max=64,printascii"`
}

func (h *Handler) modelType(w http.ResponseWriter, r *http.Request) (string, bool) {
	p := modelTypeParam{ModelType: chi.URLParam(r, "modelType")}
	if apiErr := validateRequest(&p); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return "", false
	}
	return p.ModelType, true
}

// trainingContext outlives the request so a disconnecting client does not
// abort a run half way through persisting model records.
func (h *Handler) trainingContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), h.trainTimeout)
}

// StartTrainingRun handles POST /api/v1/training/runs. It trains and
// evaluates every registered model synchronously and activates the best.
func (h *Handler) StartTrainingRun(w http.ResponseWriter, r *http.Request) {
	if h.deps.Trainer == nil {
		respondUnavailable(w, "Training pipeline")
		return
	}

	start := time.Now()
	ctx, cancel := h.trainingContext(r)
	defer cancel()

	result, err := h.deps.Trainer.TrainAll(ctx)
	if err != nil {
		respondServiceError(w, err, "Training run failed")
		return
	}
	respondSuccess(w, http.StatusOK, result, start)
}

// TrainModel handles POST /api/v1/training/models/{modelType}. The new
// record is stored but not activated.
func (h *Handler) TrainModel(w http.ResponseWriter, r *http.Request) {
	if h.deps.Trainer == nil {
		respondUnavailable(w, "Training pipeline")
		return
	}
	modelType, ok := h.modelType(w, r)
	if !ok {
		return
	}

	start := time.Now()
	ctx, cancel := h.trainingContext(r)
	defer cancel()

	rec, err := h.deps.Trainer.TrainSingle(ctx, modelType)
	if err != nil {
		respondServiceError(w, err, "Training failed")
		return
	}
	respondSuccess(w, http.StatusOK, rec, start)
}

// GetActiveModel handles GET /api/v1/models/{modelType}/active.
func (h *Handler) GetActiveModel(w http.ResponseWriter, r *http.Request) {
	if h.deps.Trainer == nil {
		respondUnavailable(w, "Training pipeline")
		return
	}
	modelType, ok := h.modelType(w, r)
	if !ok {
		return
	}

	rec, err := h.deps.Trainer.ActiveModel(r.Context(), modelType)
	if err != nil {
		respondServiceError(w, err, "Failed to load active model")
		return
	}
	respondSuccess(w, http.StatusOK, rec, time.Time{})
}

// ListModels handles GET /api/v1/models/{modelType}, newest version first.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	if h.deps.Snapshots == nil {
		respondUnavailable(w, "Model store")
		return
	}
	modelType, ok := h.modelType(w, r)
	if !ok {
		return
	}

	records, err := h.deps.Snapshots.ListModels(r.Context(), modelType)
	if err != nil {
		respondServiceError(w, err, "Failed to list models")
		return
	}
	if records == nil {
		records = []training.ModelRecord{}
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"model_type": modelType,
		"models":     records,
		"count":      len(records),
	}, time.Time{})
}
