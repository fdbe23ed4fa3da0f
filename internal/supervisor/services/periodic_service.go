// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PeriodicConfig describes a task run on a fixed interval.
type PeriodicConfig struct {
	// Name identifies the service in supervisor and log output.
	Name string

	// Interval between runs. Non-positive values fall back to one minute.
	Interval time.Duration

	// RunOnStart runs the task once before the first tick.
	RunOnStart bool

	// Timeout bounds a single run. Zero means no bound beyond the service
	// context.
	Timeout time.Duration
}

// PeriodicService runs a task on a ticker under supervision. Task errors are
// logged and the schedule continues; only cancellation stops the service.
//
// Used for:
//   - matrix-refresh: MatrixBuilder.Build
//   - task-sweeper: Coordinator.Sweep
//   - kv-gc: kvstore.Store.RunGC
//   - experiment-expiry: experiment.Engine.StopExpired
type PeriodicService struct {
	cfg    PeriodicConfig
	task   func(ctx context.Context) error
	logger zerolog.Logger
}

// NewPeriodicService creates a new periodic service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPeriodicService(cfg PeriodicConfig, task func(ctx context.Context) error, logger zerolog.Logger) *PeriodicService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	return &PeriodicService{
		cfg:    cfg,
		task:   task,
		logger: logger.With().Str("service", cfg.Name).Logger(),
	}
}

// Serve implements suture.Service.
func (s *PeriodicService) Serve(ctx context.Context) error {
	s.logger.Debug().Dur("interval", s.cfg.Interval).Msg("Periodic service starting")

	if s.cfg.RunOnStart {
		s.run(ctx)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *PeriodicService) run(ctx context.Context) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := s.task(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("Periodic task failed")
		return
	}
	s.logger.Trace().Dur("elapsed", time.Since(start)).Msg("Periodic task completed")
}

// String implements fmt.Stringer for suture log messages.
func (s *PeriodicService) String() string {
	return s.cfg.Name
}
