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

	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/jobrec/internal/config"
	"github.com/tomtom215/jobrec/internal/events"
	"github.com/tomtom215/jobrec/internal/websocket"
)

func newNotificationServer(t *testing.T, origins []string) (*httptest.Server, *websocket.Hub) {
	t.Helper()
	hub := websocket.NewHub()
	h := NewHandler(Deps{Notifications: hub}, time.Second)
	srv := httptest.NewServer(NewRouter(h, &config.ServerConfig{RateLimitDisabled: true, CORSOrigins: origins}))
	t.Cleanup(srv.Close)
	return srv, hub
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestNotifications_DeliversReadyMessages(t *testing.T) {
	t.Parallel()
	srv, hub := newNotificationServer(t, nil)

	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL(srv, "/api/v1/users/u1/notifications"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for hub.UserClientCount("u1") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if n := hub.DeliverReady(events.RecommendationsReady{UserID: "u1", Message: "2 new jobs"}); n != 1 {
		t.Fatalf("DeliverReady() = %d, want 1", n)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got struct {
		Type string                      `json:"type"`
		Data events.RecommendationsReady `json:"data"`
	}
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.Type != websocket.MessageTypeRecommendationsReady || got.Data.Message != "2 new jobs" {
		t.Errorf("notification = %+v", got)
	}
}

func TestNotifications_OriginCheck(t *testing.T) {
	t.Parallel()
	srv, _ := newNotificationServer(t, []string{"https://jobs.example.com"})

	tests := []struct {
		name   string
		origin string
		wantOK bool
	}{
		{name: "no origin", origin: "", wantOK: true},
		{name: "listed origin", origin: "https://jobs.example.com", wantOK: true},
		{name: "same host", origin: srv.URL, wantOK: true},
		{name: "foreign origin", origin: "https://evil.example.net", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := gorillaws.DefaultDialer.Dial(wsURL(srv, "/api/v1/users/u2/notifications"), header)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("Dial() error = %v", err)
				}
				conn.Close()
				return
			}
			if err == nil {
				conn.Close()
				t.Fatal("Dial() should be rejected")
			}
			if resp == nil || resp.StatusCode != http.StatusForbidden {
				t.Errorf("response = %v, want 403", resp)
			}
		})
	}
}

func TestNotifications_Unavailable(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/users/u1/notifications", "")
	expectStatus(t, rec, env, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE")
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()
	h := NewHandler(Deps{}, time.Second)
	router := NewRouter(h, &config.ServerConfig{RateLimitDisabled: true, CORSOrigins: []string{"https://jobs.example.com"}})

	tests := []struct {
		origin    string
		wantAllow string
	}{
		{origin: "https://jobs.example.com", wantAllow: "https://jobs.example.com"},
		{origin: "https://evil.example.net", wantAllow: ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/interactions", nil)
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
			t.Errorf("origin %s: Access-Control-Allow-Origin = %q, want %q", tt.origin, got, tt.wantAllow)
		}
	}
}
