// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

// Package logging provides centralized zerolog-based structured logging for Jobrec.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once from main
//   - JSON output for production, console output for development
//   - Context-aware logging with request, correlation and user IDs
//   - An slog adapter for sutureslog and the Watermill slog logger
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("user_id", userID).Msg("Recommendations cached")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Matcher unavailable")
//
// # Configuration
//
// Environment Variables (read by internal/config):
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// Components that are constructed with an explicit zerolog.Logger (the
// recommendation engine, coordinator, event router) add their own
// "component" field; package-level helpers such as logging.Info() are used
// by infrastructure code that has no logger injected.
//
// # Output Formats
//
// JSON Format (Production):
//
//	{"level":"info","time":"2026-05-01T10:30:00Z","message":"Server starting","port":8080}
//
// Console Format (Development):
//
//	10:30:00 INF Server starting port=8080
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by sync.RWMutex for configuration changes.
package logging
