// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/jobrec/internal/config"
	"github.com/tomtom215/jobrec/internal/middleware"
)

func TestRouter_FallbackResponses(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/nowhere", "")
	expectStatus(t, rec, env, http.StatusNotFound, "NOT_FOUND")

	rec, env = ts.do(t, http.MethodDelete, "/api/v1/interactions", "")
	expectStatus(t, rec, env, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
}

func TestRouter_SetsRequestID(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec, _ := ts.do(t, http.MethodGet, "/health", "")
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("response is missing X-Request-ID")
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("response is missing ETag")
	}
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("/metrics should expose the default Go collectors")
	}
}

func TestRouter_RateLimitsAPI(t *testing.T) {
	t.Parallel()

	h := NewHandler(Deps{Updates: &mockUpdates{}}, time.Second)
	router := NewRouter(h, &config.ServerConfig{RateLimitRequests: 2, RateLimitWindow: time.Minute})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/update-tasks", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 200 429]", codes)
	}

	// Health checks are outside the limited group.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "203.0.113.7:5000"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("/health status = %d, want 200", rec.Code)
	}
}
