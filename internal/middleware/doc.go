// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

/*
Package middleware provides HTTP middleware for the Jobrec API.

Key Components:

  - RequestID: reuses or generates X-Request-ID and feeds it to logging.Ctx
  - PrometheusMetrics: request count, latency and in-flight gauge labelled
    by chi route pattern

Both have the func(http.Handler) http.Handler shape used by chi's r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
