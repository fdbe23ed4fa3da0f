// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

//go:build integration

package testinfra

import (
	"context"
	"strings"
	"testing"
	"time"

	natsgo "github.com/nats-io/nats.go"
)

func TestNATSContainer_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := NewNATSContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to create NATS container: %v", err)
	}
	defer CleanupContainer(t, ctx, container.Container)

	if !strings.HasPrefix(container.URL, "nats://") {
		t.Errorf("URL = %q, want nats:// scheme", container.URL)
	}

	nc, err := natsgo.Connect(container.URL)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer nc.Close()

	js, err := nc.JetStream()
	if err != nil {
		t.Fatalf("JetStream() error = %v", err)
	}
	if _, err := js.AccountInfo(); err != nil {
		t.Errorf("JetStream should be enabled: %v", err)
	}
}
