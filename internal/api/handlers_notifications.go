// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/jobrec/internal/logging"
	"github.com/tomtom215/jobrec/internal/websocket"
)

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts requests without an Origin header (non-browser
// clients), any origin under "*", listed origins, and same-host origins.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
		return true
	}
	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// notificationParams identifies the user whose notifications are streamed.
type notificationParams struct {
	UserID string `json:"user_id" validate:"required,max=128"`
}

// Notifications upgrades to a websocket that receives a message each time
// the user's recommendations are refreshed.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	if h.deps.Notifications == nil {
		respondUnavailable(w, "Notification hub")
		return
	}
	userID := chi.URLParam(r, "userID")
	if apiErr := validateRequest(&notificationParams{UserID: userID}); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Debug().Err(err).Str("user_id", sanitizeLogValue(userID)).Msg("WebSocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.deps.Notifications, conn, userID)
	h.deps.Notifications.Register(client)
	client.Start()
}
