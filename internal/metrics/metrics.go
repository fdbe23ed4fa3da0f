// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// User-item matrix
	MatrixBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_matrix_build_duration_seconds",
			Help:    "Duration of user-item matrix rebuilds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	MatrixUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_matrix_users",
			Help: "Number of users in the current user-item matrix",
		},
	)

	MatrixItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_matrix_items",
			Help: "Number of distinct items in the current user-item matrix",
		},
	)

	MatrixBuildErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_matrix_build_errors_total",
			Help: "Total number of failed user-item matrix rebuilds",
		},
	)

	// Recommendation generation
	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_generation_duration_seconds",
			Help:    "Duration of recommendation generation by strategy",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"strategy"}, // "hybrid", "content", "collaborative"
	)

	RecommendationResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_results_count",
			Help:    "Number of recommendations returned per request",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"strategy"},
	)

	ContentMatchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_content_match_failures_total",
			Help: "Total number of per-item content matcher failures",
		},
	)

	CollaboratorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_collaborator_failures_total",
			Help: "Total number of isolated collaborator failures",
		},
		[]string{"collaborator"}, // "collaborative", "notifier", "weights"
	)

	// Real-time update coordinator
	UpdateTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_update_tasks_total",
			Help: "Total number of update task transitions by status",
		},
		[]string{"status"}, // "submitted", "coalesced", "completed", "failed"
	)

	UpdateProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_update_processing_seconds",
			Help:    "Processing time of real-time update tasks",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	UpdateSLAMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_update_sla_misses_total",
			Help: "Total number of update tasks that exceeded the processing SLA",
		},
	)

	UpdateQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_update_queue_depth",
			Help: "Number of users waiting for a worker",
		},
	)

	// Training pipeline
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_training_runs_total",
			Help: "Total number of training runs",
		},
		[]string{"result"}, // "success", "error"
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_training_duration_seconds",
			Help:    "Duration of training runs",
			Buckets: []float64{1, 5, 10, 30, 60, 300, 600, 1800},
		},
	)

	ModelF1 = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommend_model_f1",
			Help: "F1 score of the last evaluation per model type",
		},
		[]string{"model_type"},
	)

	PredictionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_prediction_failures_total",
			Help: "Total number of per-sample prediction failures during evaluation",
		},
		[]string{"model_type"},
	)

	// Experiments
	ExperimentAssignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_experiment_assignments_total",
			Help: "Total number of first-touch experiment assignments",
		},
		[]string{"group"},
	)

	ExperimentEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_experiment_events_total",
			Help: "Total number of tracked experiment events",
		},
		[]string{"group", "event"},
	)

	// Notifications
	NotificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_notifications_total",
			Help: "Total number of recommendation notifications by result",
		},
		[]string{"result"}, // "success", "throttled", "error"
	)

	NotificationClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_notification_clients",
			Help: "Number of connected websocket notification clients",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordMatrixBuild records a completed matrix rebuild.
func RecordMatrixBuild(duration time.Duration, users, items int, err error) {
	MatrixBuildDuration.Observe(duration.Seconds())
	if err != nil {
		MatrixBuildErrors.Inc()
		return
	}
	MatrixUsers.Set(float64(users))
	MatrixItems.Set(float64(items))
}

// RecordRecommendation records one recommendation request for a strategy.
func RecordRecommendation(strategy string, duration time.Duration, results int) {
	RecommendationDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	RecommendationResults.WithLabelValues(strategy).Observe(float64(results))
}

// RecordUpdateTask records a terminal update task.
func RecordUpdateTask(success bool, processing time.Duration, withinSLA bool) {
	if success {
		UpdateTasks.WithLabelValues("completed").Inc()
	} else {
		UpdateTasks.WithLabelValues("failed").Inc()
	}
	UpdateProcessingDuration.Observe(processing.Seconds())
	if !withinSLA {
		UpdateSLAMisses.Inc()
	}
}

// RecordTrainingRun records a training run outcome.
func RecordTrainingRun(duration time.Duration, err error) {
	TrainingDuration.Observe(duration.Seconds())
	if err != nil {
		TrainingRuns.WithLabelValues("error").Inc()
		return
	}
	TrainingRuns.WithLabelValues("success").Inc()
}

// RecordCircuitBreakerTransition updates breaker gauges on a state change.
// States follow gobreaker ordering: 0=closed, 1=half-open, 2=open.
func RecordCircuitBreakerTransition(name, from, to string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}
