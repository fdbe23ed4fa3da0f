// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package matching

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/jobrec/internal/config"
	"github.com/tomtom215/jobrec/internal/metrics"
	"github.com/tomtom215/jobrec/internal/recommend"
)

// BreakerName labels the matcher breaker in metrics.
const BreakerName = "content-matcher"

// BreakerMatcher wraps a ContentMatcher with the circuit breaker pattern so a
// failing or slow matcher stops being called for a while instead of failing
// every candidate of every request.
//
// An open breaker makes Score fail fast; the engine treats that like any
// other per-item content failure.
type BreakerMatcher struct {
	inner  recommend.ContentMatcher
	cb     *gobreaker.CircuitBreaker[recommend.MatchResult]
	name   string
	logger zerolog.Logger
}

// NewBreakerMatcher wraps inner. Breaker configuration:
// - MaxRequests concurrent probes in half-open state
// - counts reset every Interval while closed
// - Timeout before moving from open to half-open
// - opens at FailureRatio with at least MinRequests requests
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerMatcher(inner recommend.ContentMatcher, cfg *config.MatcherConfig, logger zerolog.Logger) *BreakerMatcher {
	bm := &BreakerMatcher{
		inner:  inner,
		name:   BreakerName,
		logger: logger.With().Str("component", "matcher_breaker").Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(bm.name).Set(0) // 0 = closed

	bm.cb = gobreaker.NewCircuitBreaker[recommend.MatchResult](gobreaker.Settings{
		Name:        bm.name,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.BreakerFailureRatio
			if shouldTrip {
				bm.logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			bm.logger.Info().Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("[CIRCUIT BREAKER] State transition")
			metrics.RecordCircuitBreakerTransition(name, stateToString(from), stateToString(to), stateToInt(to))
		},

		// Caller cancellations say nothing about matcher health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	})

	return bm
}

// Score calls the wrapped matcher through the breaker.
//
//nolint:gocritic // User and Item passed by value to match recommend.ContentMatcher
func (bm *BreakerMatcher) Score(ctx context.Context, user recommend.User, item recommend.Item) (recommend.MatchResult, error) {
	res, err := bm.cb.Execute(func() (recommend.MatchResult, error) {
		return bm.inner.Score(ctx, user, item)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(bm.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(bm.name, "failure").Inc()
		}
		return recommend.MatchResult{}, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(bm.name, "success").Inc()
	return res, nil
}

// State returns the breaker state as "closed", "half-open" or "open".
func (bm *BreakerMatcher) State() string {
	return stateToString(bm.cb.State())
}

// stateToInt converts circuit breaker state to its metric value
func stateToInt(state gobreaker.State) int {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
