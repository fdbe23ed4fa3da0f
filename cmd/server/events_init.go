// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package main

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/jobrec/internal/config"
	"github.com/tomtom215/jobrec/internal/events"
	"github.com/tomtom215/jobrec/internal/logging"
)

// EventBus is the publisher/subscriber pair behind the event router and the
// notifier.
type EventBus struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	Transport  string

	// shared is set when Publisher and Subscriber are the same gochannel.
	shared bool
	// embedded is the in-process NATS server, if one was started.
	embedded *events.EmbeddedServer
}

// Close closes both ends, then the embedded server. A shared gochannel is
// closed once.
func (b *EventBus) Close() error {
	var errs []error
	if err := b.Publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if !b.shared {
		if err := b.Subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if b.embedded != nil {
		b.embedded.Shutdown()
	}
	return errors.Join(errs...)
}

// initEventBus connects to NATS JetStream when enabled and otherwise falls
// back to an in-process channel, where profile updates arrive only through
// the HTTP API. With EmbeddedServer set, a local JetStream server is started
// first and cfg.URL is pointed at it.
func initEventBus(cfg *config.NATSConfig, wmLogger watermill.LoggerAdapter) (*EventBus, error) {
	if !cfg.Enabled {
		logging.Info().Msg("NATS disabled (NATS_ENABLED=false), using in-process event bus")
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, wmLogger)
		return &EventBus{Publisher: ch, Subscriber: ch, Transport: "gochannel", shared: true}, nil
	}

	var embedded *events.EmbeddedServer
	if cfg.EmbeddedServer {
		srv, err := events.NewEmbeddedServer(cfg)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		embedded = srv
		cfg.URL = srv.ClientURL()
		logging.Info().Str("url", cfg.URL).Str("store_dir", cfg.StoreDir).Msg("Embedded NATS server started")
	}
	shutdownEmbedded := func() {
		if embedded != nil {
			embedded.Shutdown()
		}
	}

	pub, err := events.NewNATSPublisher(cfg, wmLogger)
	if err != nil {
		shutdownEmbedded()
		return nil, err
	}
	sub, err := events.NewNATSSubscriber(cfg, wmLogger)
	if err != nil {
		if closeErr := pub.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Error closing NATS publisher")
		}
		shutdownEmbedded()
		return nil, err
	}

	logging.Info().
		Str("url", cfg.URL).
		Str("queue_group", cfg.QueueGroup).
		Int("subscribers", cfg.Subscribers).
		Msg("NATS JetStream event bus connected")
	return &EventBus{Publisher: pub, Subscriber: sub, Transport: "nats", embedded: embedded}, nil
}
