// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

// Package realtime refreshes a user's recommendations after profile changes.
//
// Submit records an update task when the changed fields can affect matching
// (skills, experience, education, languages, location and similar). Tasks are
// keyed by user: a second update for a user whose task is still pending is
// merged into it, and an update for a user whose task is already running is
// queued behind it. A bounded worker pool drains the queue, never running two
// computations for the same user at once.
//
// Each task reports its processing time and whether it met the SLA
// (60 seconds by default). The SLA is measured, not enforced. Finished tasks
// stay visible through Task for the retention period and are then removed by
// Sweep.
package realtime
