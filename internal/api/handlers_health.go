// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/jobrec/internal/models"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status            string  `json:"status"`
	DatabaseConnected bool    `json:"database_connected"`
	UpdateQueueDepth  int     `json:"update_queue_depth"`
	SLAHitRatio       float64 `json:"sla_hit_ratio"`
	Uptime            float64 `json:"uptime"`
}

// Health handles GET /health. The service is "degraded" when the database
// does not answer a ping; it still answers 200 so load balancers keep
// routing read traffic served from the KV store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := HealthStatus{
		Status: "healthy",
		Uptime: time.Since(h.startTime).Seconds(),
	}
	health.DatabaseConnected = h.deps.Catalog != nil && h.deps.Catalog.Ping(ctx) == nil
	if !health.DatabaseConnected {
		health.Status = "degraded"
	}
	if h.deps.Updates != nil {
		stats := h.deps.Updates.Stats()
		health.UpdateQueueDepth = stats.QueueDepth
		health.SLAHitRatio = stats.SLAHitRatio
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthLive handles GET /health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
