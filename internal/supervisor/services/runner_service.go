// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package services

import (
	"context"
	"errors"
	"fmt"
)

// Runner is a component that blocks in Run until its context is canceled.
//
// Satisfied by:
//   - *realtime.Coordinator (worker pool)
//   - *events.Router (profile update consumer)
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerFunc adapts a function to Runner. It is used for components that
// must be rebuilt on every restart, such as a Watermill router, which cannot
// be run again once closed.
type RunnerFunc func(ctx context.Context) error

// Run calls f(ctx).
func (f RunnerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// RunnerService wraps a Runner as a supervised service. A Run that returns
// before cancellation is reported as a failure so suture restarts it.
type RunnerService struct {
	runner Runner
	name   string
}

// NewRunnerService creates a new runner service wrapper.
func NewRunnerService(name string, runner Runner) *RunnerService {
	return &RunnerService{runner: runner, name: name}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	err := s.runner.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s stopped unexpectedly", s.name)
	}
	return fmt.Errorf("%s failed: %w", s.name, err)
}

// String implements fmt.Stringer for suture log messages.
func (s *RunnerService) String() string {
	return s.name
}
