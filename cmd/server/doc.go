// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

// Package main is the entry point for the Jobrec server.
//
// Jobrec recommends job postings by blending a content matcher score with
// user-based collaborative filtering, refreshes recommendations within an
// SLA when profiles change, evaluates candidate models offline and runs A/B
// experiments between them.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional YAML file, environment (Koanf v2)
//  2. Logging: zerolog, with an slog bridge for suture and Watermill
//  3. Storage: DuckDB (users, items, interactions) and BadgerDB
//     (recommendation snapshots, model records)
//  4. Events: Watermill over NATS JetStream, or an in-process channel
//  5. Domain: content matcher behind a circuit breaker, hybrid engine,
//     update coordinator, training pipeline, experiment engine
//  6. Supervisor tree: storage, processing and API layers (suture v4)
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (HTTP_PORT, DUCKDB_PATH, REALTIME_SLA, ...)
//   - Config file (config.yaml, or the path in CONFIG_PATH)
//   - Built-in defaults
//
// Changing logging.level in the config file takes effect without restart.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor shuts the HTTP
// server down gracefully and lets update workers finish their current task.
// The stores are closed after the tree has stopped.
//
// # Example Usage
//
//	export DUCKDB_PATH=/data/jobrec.duckdb
//	export BADGER_PATH=/data/jobrec.badger
//	export NATS_ENABLED=true
//	export NATS_URL=nats://nats:4222
//	./jobrec
package main
