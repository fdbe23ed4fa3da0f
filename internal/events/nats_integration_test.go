// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

//go:build integration

package events

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"

	"github.com/tomtom215/jobrec/internal/config"
	"github.com/tomtom215/jobrec/internal/testinfra"
)

// TestExternalNATS_ProfileUpdateAndNotification runs both router handlers
// against a standalone JetStream server. Each topic needs its own durable
// consumer for both to receive messages.
func TestExternalNATS_ProfileUpdateAndNotification(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testinfra.NewNATSContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to create NATS container: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, container.Container)

	cfg := &config.NATSConfig{
		Enabled:       true,
		URL:           container.URL,
		ClientName:    "jobrec-integration",
		MaxReconnects: 3,
		ReconnectWait: 200 * time.Millisecond,
		MaxDeliver:    3,
		AckWait:       5 * time.Second,
		QueueGroup:    "jobrec-integration",
		Subscribers:   1,
		DurableName:   "jobrec-integration",
	}

	pub, err := NewNATSPublisher(cfg, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewNATSPublisher() error = %v", err)
	}
	defer pub.Close()
	sub, err := NewNATSSubscriber(cfg, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewNATSSubscriber() error = %v", err)
	}
	defer sub.Close()

	submitter := &fakeSubmitter{}
	consumer := &fakeReadyConsumer{}
	r, err := NewRouter(testRouterConfig(), sub, nil, submitter, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	r.AddReadyConsumer(sub, consumer)
	startRouter(t, r)

	deadline := time.After(30 * time.Second)
	for len(submitter.snapshot()) == 0 || len(consumer.snapshot()) == 0 {
		update, err := NewMessage(ProfileUpdated{UserID: "ext-user", UpdatedFields: []string{"skills"}})
		if err != nil {
			t.Fatalf("NewMessage() error = %v", err)
		}
		if err := pub.Publish(TopicProfileUpdated, update); err != nil {
			t.Fatalf("Publish(profile) error = %v", err)
		}
		ready, err := NewMessage(RecommendationsReady{UserID: "ext-user", Message: "ready"})
		if err != nil {
			t.Fatalf("NewMessage() error = %v", err)
		}
		if err := pub.Publish(TopicRecommendationsReady, ready); err != nil {
			t.Fatalf("Publish(ready) error = %v", err)
		}

		select {
		case <-deadline:
			t.Fatalf("handlers did not both receive messages: submitted=%d delivered=%d",
				len(submitter.snapshot()), len(consumer.snapshot()))
		case <-time.After(200 * time.Millisecond):
		}
	}
}
