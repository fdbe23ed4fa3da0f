// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed by the API server on /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Metric Families

  - duckdb_*: interaction store query latency and errors
  - api_*: HTTP request counts, latency and in-flight requests
  - recommend_matrix_*: user-item matrix rebuild duration and size
  - recommend_generation_*, recommend_results_count: recommendation latency and result sizes
  - recommend_update_*: real-time update tasks, processing time and SLA misses
  - recommend_training_*, recommend_model_f1: training runs and evaluation quality
  - recommend_experiment_*: A/B assignments and tracked events
  - circuit_breaker_*: content matcher breaker state

Components call the Record* helpers rather than touching collectors directly
where a helper exists.
*/
package metrics
