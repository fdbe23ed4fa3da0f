// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

// Package services provides Suture service wrappers for Jobrec components.
//
//   - HTTPServerService: net/http server with graceful shutdown
//   - RunnerService: components that block in Run(ctx) (update coordinator,
//     event router)
//   - PeriodicService: ticker-driven maintenance (matrix refresh, task
//     sweeping, BadgerDB GC, experiment expiry)
//   - TrainingService: scheduled model training
//
// Every wrapper implements fmt.Stringer so suture log lines name the service.
package services
