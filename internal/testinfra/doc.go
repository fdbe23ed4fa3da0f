// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

// Package testinfra starts external services in Docker for integration
// tests, using testcontainers-go.
//
// The NATS container runs a standalone JetStream server so the event
// transport can be tested against the same server binary used in
// deployments without the embedded server:
//
//	func TestProfileUpdates(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    nats, err := testinfra.NewNATSContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, nats.Container)
//	    // point config.NATSConfig.URL at nats.URL
//	}
//
// All files carry the integration build tag:
//
//	go test -tags integration ./internal/testinfra/... ./internal/events/...
package testinfra
