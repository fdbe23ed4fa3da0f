// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/jobrec/internal/events"
	"github.com/tomtom215/jobrec/internal/logging"
	"github.com/tomtom215/jobrec/internal/metrics"
)

// Message types for WebSocket communication
const (
	MessageTypeRecommendationsReady = "recommendations_ready"
	MessageTypePing                 = "ping"
	MessageTypePong                 = "pong"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub tracks connected clients per user and delivers notifications to them.
type Hub struct {
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Run blocks until ctx is canceled, then closes every connected client so
// their write pumps send a close frame.
func (h *Hub) Run(ctx context.Context) error {
	<-ctx.Done()
	n := h.ClientCount()
	h.closeAllClients()
	logging.Info().
		Str("component", "websocket-hub").
		Int("clients_closed", n).
		Msg("websocket hub stopped")
	return ctx.Err()
}

// Register adds a client.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	set, ok := h.clients[client.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[client.userID] = set
	}
	set[client] = struct{}{}
	h.mu.Unlock()

	metrics.NotificationClients.Inc()
	logging.Debug().Str("user_id", client.userID).Int("total_clients", h.ClientCount()).Msg("websocket client connected")
}

// Unregister removes a client. Removing an unknown client is a no-op.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	removed := h.dropLocked(client)
	h.mu.Unlock()

	if removed {
		logging.Debug().Str("user_id", client.userID).Int("total_clients", h.ClientCount()).Msg("websocket client disconnected")
	}
}

// dropLocked closes the client's send channel once. Caller holds h.mu.
func (h *Hub) dropLocked(client *Client) bool {
	set, ok := h.clients[client.userID]
	if !ok {
		return false
	}
	if _, ok := set[client]; !ok {
		return false
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
	close(client.send)
	metrics.NotificationClients.Dec()
	return true
}

// DeliverReady sends a recommendations_ready message to every client of
// ev.UserID and returns how many received it. Clients whose buffer is full
// are disconnected.
func (h *Hub) DeliverReady(ev events.RecommendationsReady) int {
	msg := Message{Type: MessageTypeRecommendationsReady, Data: ev}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients := sortedClients(h.clients[ev.UserID])
	delivered := 0
	var slow []*Client
	for _, c := range clients {
		select {
		case c.send <- msg:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		h.dropLocked(c)
	}
	if len(slow) > 0 {
		logging.Warn().Str("user_id", ev.UserID).Int("dropped", len(slow)).Msg("disconnected slow websocket clients")
	}
	return delivered
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// UserClientCount returns the number of clients connected for userID.
func (h *Hub) UserClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	users := make([]string, 0, len(h.clients))
	for userID := range h.clients {
		users = append(users, userID)
	}
	sort.Strings(users)
	for _, userID := range users {
		for _, c := range sortedClients(h.clients[userID]) {
			h.dropLocked(c)
		}
	}
}

// sortedClients orders clients by ID so delivery order is deterministic.
func sortedClients(set map[*Client]struct{}) []*Client {
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}
