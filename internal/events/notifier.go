// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"golang.org/x/time/rate"

	"github.com/tomtom215/jobrec/internal/metrics"
)

// ErrThrottled is returned by Notify when the rate limit has no token left.
// The notification is dropped.
var ErrThrottled = errors.New("notification throttled")

// Notifier publishes recommendations.ready messages.
type Notifier struct {
	pub     message.Publisher
	topic   string
	limiter *rate.Limiter
	now     func() time.Time
}

// NewNotifier creates a notifier publishing at most perSecond messages per
// second with the given burst. perSecond <= 0 disables throttling.
func NewNotifier(pub message.Publisher, perSecond float64, burst int) *Notifier {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst < 1 {
		burst = 1
	}
	return &Notifier{
		pub:     pub,
		topic:   TopicRecommendationsReady,
		limiter: rate.NewLimiter(limit, burst),
		now:     time.Now,
	}
}

// Notify publishes one notification. It never waits for the rate limiter:
// without a token the notification is dropped with ErrThrottled.
func (n *Notifier) Notify(_ context.Context, userID, msg string) error {
	if userID == "" {
		return errors.New("notify: user id is required")
	}
	if !n.limiter.Allow() {
		metrics.NotificationsPublished.WithLabelValues("throttled").Inc()
		return fmt.Errorf("notify %s: %w", userID, ErrThrottled)
	}

	wm, err := NewMessage(RecommendationsReady{
		UserID:      userID,
		Message:     msg,
		PublishedAt: n.now().UTC(),
	})
	if err != nil {
		metrics.NotificationsPublished.WithLabelValues("error").Inc()
		return err
	}
	wm.Metadata.Set("user_id", userID)

	if err := n.pub.Publish(n.topic, wm); err != nil {
		metrics.NotificationsPublished.WithLabelValues("error").Inc()
		return fmt.Errorf("publish notification for %s: %w", userID, err)
	}
	metrics.NotificationsPublished.WithLabelValues("success").Inc()
	return nil
}
