// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

// Package websocket pushes "recommendations ready" notifications to
// connected clients.
//
// Clients connect to /api/v1/users/{userID}/notifications and receive a
// JSON message whenever a refresh for that user completes:
//
//	{"type": "recommendations_ready", "data": {"user_id": "...", "message": "...", "published_at": "..."}}
//
// The hub is fed by the event router's recommendations.ready handler.
// Under NATS the subscription uses the shared queue group, so with several
// instances a notification reaches the clients of whichever instance
// consumed it. Clients may send {"type":"ping"} and receive a pong; the
// server also sends protocol pings every 54s.
//
// A client whose send buffer is full is disconnected rather than blocking
// delivery to other clients.
package websocket
