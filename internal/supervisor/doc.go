// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

/*
Package supervisor provides process supervision for Jobrec's long-running
components using suture v4.

# Tree Layout

	jobrec (root)
	├── storage-layer
	│   ├── kv-gc            BadgerDB value log GC
	│   └── matrix-refresh   periodic user-item matrix rebuild
	├── processing-layer
	│   ├── update-coordinator
	│   ├── task-sweeper
	│   ├── event-router     profile.updated consumer
	│   ├── training-scheduler
	│   └── experiment-expiry
	└── api-layer
	    └── http-server

Each layer is its own supervisor, so repeated failures in one layer back
off without restarting the others.

# Logging

Supervisor events (service panics, restarts, backoff) are logged through
sutureslog. Pass logging.NewSlogLogger() so they land in the zerolog stream:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

# Services

Service wrappers live in the services subpackage.
*/
package supervisor
