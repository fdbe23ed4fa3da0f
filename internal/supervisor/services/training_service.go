// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/jobrec/internal/recommend/training"
)

// TrainingRunner trains every registered model and activates the best one.
// Satisfied by *training.Pipeline.
type TrainingRunner interface {
	TrainAll(ctx context.Context) (*training.RunResult, error)
}

// TrainingServiceConfig holds configuration for the training scheduler.
type TrainingServiceConfig struct {
	// TrainOnStartup triggers training when the service starts.
	TrainOnStartup bool

	// TrainInterval is how often to retrain models. Default: 24h
	TrainInterval time.Duration

	// Timeout bounds a single training run. Default: 30m
	Timeout time.Duration
}

// TrainingService runs the training pipeline on a schedule.
type TrainingService struct {
	runner TrainingRunner
	config TrainingServiceConfig
	logger zerolog.Logger
	name   string
}

// NewTrainingService creates a new training scheduler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainingService(runner TrainingRunner, cfg TrainingServiceConfig, logger zerolog.Logger) *TrainingService {
	if cfg.TrainInterval <= 0 {
		cfg.TrainInterval = 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &TrainingService{
		runner: runner,
		config: cfg,
		logger: logger.With().Str("service", "training").Logger(),
		name:   "training-scheduler",
	}
}

// Serve implements suture.Service.
func (s *TrainingService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("Training scheduler starting")

	if s.config.TrainOnStartup {
		s.train(ctx)
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Training scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.train(ctx)
		}
	}
}

func (s *TrainingService) train(ctx context.Context) {
	trainCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	result, err := s.runner.TrainAll(trainCtx)
	switch {
	case errors.Is(err, training.ErrTrainingInProgress):
		s.logger.Info().Msg("Skipping scheduled training, a run is already in progress")
	case errors.Is(err, training.ErrNoTrainingData):
		s.logger.Info().Err(err).Msg("Skipping scheduled training until more interactions are logged")
	case err != nil:
		s.logger.Warn().Err(err).Msg("Scheduled training failed (will retry on schedule)")
	default:
		s.logger.Info().
			Str("version", result.Version).
			Str("best_model", result.BestModel).
			Msg("Scheduled training complete")
	}
}

// String returns the service name for logging.
func (s *TrainingService) String() string {
	return s.name
}
