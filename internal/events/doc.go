// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

/*
Package events connects the recommendation engine to the message bus using
Watermill.

# Topics

	profile.updated         consumed; each message submits a refresh to the
	                        real-time update coordinator
	recommendations.ready   produced; one message per refreshed user

# Transport

Production deployments use NATS JetStream through watermill-nats
(NewNATSPublisher, NewNATSSubscriber). Tests and single-process setups use
Watermill's in-process gochannel Pub/Sub; the Router and Notifier only see
message.Publisher and message.Subscriber.

# Router Middleware

Outer to inner: Recoverer, Retry with exponential backoff, optional
Throttle, optional PoisonQueue. Malformed payloads and irrelevant updates are
acknowledged and dropped; a full update queue is returned as an error so the
message is retried.

# Notifier

Notifier implements recommend.Notifier. Publishing is throttled by a token
bucket (golang.org/x/time/rate) so a burst of refreshes cannot flood
downstream delivery services.
*/
package events
