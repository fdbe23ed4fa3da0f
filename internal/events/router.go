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

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/jobrec/internal/logging"
	"github.com/tomtom215/jobrec/internal/recommend/realtime"
)

// RouterConfig holds configuration for the Watermill Router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// Throttle configuration (messages per second, 0 = disabled)
	ThrottlePerSecond int64

	// PoisonQueueTopic receives messages that fail after all retries.
	// Empty disables the poison queue.
	PoisonQueueTopic string
}

// DefaultRouterConfig returns production defaults for the Router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      5,
		RetryInitialInterval: time.Second,
		RetryMaxInterval:     time.Minute,
		RetryMultiplier:      2.0,
		ThrottlePerSecond:    0, // Disabled by default
		PoisonQueueTopic:     "dlq.profile",
	}
}

// ProfileSubmitter accepts profile refresh requests.
type ProfileSubmitter interface {
	Submit(userID string, fields []string) (realtime.Ticket, error)
}

// ReadyConsumer receives recommendations.ready notifications, typically to
// push them to connected clients.
type ReadyConsumer interface {
	DeliverReady(ev RecommendationsReady) int
}

// Router consumes profile.updated and hands each update to the coordinator.
type Router struct {
	router    *message.Router
	submitter ProfileSubmitter
	logger    zerolog.Logger
}

// NewRouter creates a Watermill Router with pre-configured middleware and the
// profile.updated handler registered on sub.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouter(
	cfg *RouterConfig,
	sub message.Subscriber,
	poisonPublisher message.Publisher,
	submitter ProfileSubmitter,
	wmLogger watermill.LoggerAdapter,
	logger zerolog.Logger,
) (*Router, error) {
	if wmLogger == nil {
		wmLogger = watermill.NopLogger{}
	}
	if cfg == nil {
		defaultCfg := DefaultRouterConfig()
		cfg = &defaultCfg
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	r := &Router{
		router:    wmRouter,
		submitter: submitter,
		logger:    logger.With().Str("component", "event_router").Logger(),
	}

	// Middleware order (outer to inner):
	// 1. Recoverer - catch panics and convert to errors
	// 2. Retry - handle transient failures with backoff
	// 3. Throttle - rate limiting (if enabled)
	// 4. Poison Queue - route permanent failures to DLQ
	wmRouter.AddMiddleware(middleware.Recoverer)

	retryMiddleware := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      cfg.RetryMultiplier,
		Logger:          wmLogger,
	}
	wmRouter.AddMiddleware(retryMiddleware.Middleware)

	if cfg.ThrottlePerSecond > 0 {
		throttle := middleware.NewThrottle(cfg.ThrottlePerSecond, time.Second)
		wmRouter.AddMiddleware(throttle.Middleware)
	}

	if poisonPublisher != nil && cfg.PoisonQueueTopic != "" {
		poisonQueue, err := middleware.PoisonQueue(poisonPublisher, cfg.PoisonQueueTopic)
		if err != nil {
			return nil, fmt.Errorf("create poison queue middleware: %w", err)
		}
		wmRouter.AddMiddleware(poisonQueue)
	}

	wmRouter.AddNoPublisherHandler("profile_updated", TopicProfileUpdated, sub, r.handleProfileUpdated)

	return r, nil
}

// handleProfileUpdated submits one profile update. Returning nil acks.
func (r *Router) handleProfileUpdated(msg *message.Message) error {
	ctx := logging.ContextWithLogger(msg.Context(), r.logger)
	ctx = logging.ContextWithCorrelationID(ctx, msg.UUID)

	ev, err := DecodeProfileUpdated(msg)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Dropping malformed profile update")
		return nil
	}
	ctx = logging.ContextWithUserID(ctx, ev.UserID)

	ticket, err := r.submitter.Submit(ev.UserID, ev.UpdatedFields)
	switch {
	case errors.Is(err, realtime.ErrNotRelevant):
		logging.Ctx(ctx).Debug().Strs("fields", ev.UpdatedFields).Msg("Profile update not relevant")
		return nil
	case err != nil:
		return fmt.Errorf("submit profile update for %s: %w", ev.UserID, err)
	}

	logging.Ctx(ctx).Debug().
		Str("task_id", ticket.TaskID).
		Time("expected_completion", ticket.ExpectedCompletionAt).
		Msg("Profile update queued")
	return nil
}

// AddReadyConsumer forwards recommendations.ready messages from sub to
// consumer. It must be called before Run.
func (r *Router) AddReadyConsumer(sub message.Subscriber, consumer ReadyConsumer) {
	r.router.AddNoPublisherHandler("recommendations_ready", TopicRecommendationsReady, sub, func(msg *message.Message) error {
		ev, err := DecodeRecommendationsReady(msg)
		if err != nil {
			r.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed notification")
			return nil
		}
		delivered := consumer.DeliverReady(ev)
		r.logger.Debug().Str("user_id", ev.UserID).Int("clients", delivered).Msg("Notification forwarded")
		return nil
	})
}

// Run starts the router and blocks until ctx is canceled or the router stops.
func (r *Router) Run(ctx context.Context) error {
	if err := r.router.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("event router: %w", err)
	}
	return ctx.Err()
}

// Running is closed once all handlers are subscribed.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

// Close stops the router.
func (r *Router) Close() error {
	return r.router.Close()
}
