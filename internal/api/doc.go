// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

/*
Package api provides the HTTP interface of Jobrec using the Chi router.

Every JSON response uses the models.APIResponse envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "..."}}
	{"status": "error", "error": {"code": "NOT_FOUND", "message": "..."}}

# Endpoints

Recommendations:

	POST /api/v1/users/{userID}/recommendations   generate (strategy: hybrid|content|collaborative)
	GET  /api/v1/users/{userID}/recommendations   last persisted list from the KV store
	PUT  /api/v1/users/{userID}                   upsert profile, schedules a refresh on relevant change
	PUT  /api/v1/items/{itemID}                   upsert job posting
	POST /api/v1/interactions                     log interaction (5 minute near-duplicate merge)
	GET  /api/v1/stats                            engine and coordinator counters

Real-time updates:

	POST /api/v1/profile-updates                  submit changed fields, 202 with ticket
	GET  /api/v1/update-tasks                     coordinator statistics
	GET  /api/v1/update-tasks/{userID}            task status

Training:

	POST /api/v1/training/runs                    train all models, activate the best F1
	POST /api/v1/training/models/{modelType}      train one model
	GET  /api/v1/models/{modelType}               all versions, newest first
	GET  /api/v1/models/{modelType}/active        active version

Experiments:

	GET  /api/v1/experiments
	POST /api/v1/experiments
	GET  /api/v1/experiments/{id}
	GET  /api/v1/experiments/{id}/assignment/{userID}
	POST /api/v1/experiments/{id}/events
	GET  /api/v1/experiments/{id}/analysis
	POST /api/v1/experiments/{id}/stop

Operations:

	GET  /health, /health/live, /metrics

# Error Mapping

Package sentinel errors map to status codes in errors.go: unknown users,
experiments and models give 404, a stopped experiment or concurrent
training run gives 409, missing training data gives 422 and a full update
queue gives 503. Anything else is logged and returned as 500.

# Middleware

Request ID, real IP, panic recovery, Prometheus metrics and gzip apply to
all routes. Per-IP rate limiting (go-chi/httprate) applies to /api/v1.
*/
package api
