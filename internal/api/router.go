// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/jobrec/internal/config"
	"github.com/tomtom215/jobrec/internal/middleware"
)

// NewRouter builds the chi router for all endpoints. A nil cfg disables rate
// limiting and allows any origin.
func NewRouter(h *Handler, cfg *config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	origins := []string{"*"}
	if cfg != nil && len(cfg.CORSOrigins) > 0 {
		origins = cfg.CORSOrigins
	}
	h.allowedOrigins = origins

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader, "If-None-Match"},
		ExposedHeaders: []string{middleware.RequestIDHeader, "ETag", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// Health and Metrics
	// ========================
	r.Get("/health", h.Health)
	r.Get("/health/live", h.HealthLive)
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Core API Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		if cfg != nil && !cfg.RateLimitDisabled && cfg.RateLimitRequests > 0 {
			window := cfg.RateLimitWindow
			if window <= 0 {
				window = time.Minute
			}
			r.Use(httprate.LimitByIP(cfg.RateLimitRequests, window))
		}

		r.Get("/stats", h.Stats)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Put("/", h.UpsertUser)
			r.Get("/recommendations", h.GetStoredRecommendations)
			r.Post("/recommendations", h.GenerateRecommendations)
			r.Get("/notifications", h.Notifications)
		})
		r.Put("/items/{itemID}", h.UpsertItem)
		r.Post("/interactions", h.LogInteraction)

		// Real-time updates
		r.Post("/profile-updates", h.SubmitProfileUpdate)
		r.Get("/update-tasks", h.UpdateStats)
		r.Get("/update-tasks/{userID}", h.GetUpdateTask)

		// Training and models
		r.Post("/training/runs", h.StartTrainingRun)
		r.Post("/training/models/{modelType}", h.TrainModel)
		r.Get("/models/{modelType}", h.ListModels)
		r.Get("/models/{modelType}/active", h.GetActiveModel)

		// A/B experiments
		r.Route("/experiments", func(r chi.Router) {
			r.Get("/", h.ListExperiments)
			r.Post("/", h.CreateExperiment)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetExperiment)
				r.Get("/assignment/{userID}", h.GetAssignment)
				r.Post("/events", h.TrackExperimentEvent)
				r.Get("/analysis", h.AnalyzeExperiment)
				r.Post("/stop", h.StopExperiment)
			})
		})
	})

	return r
}
