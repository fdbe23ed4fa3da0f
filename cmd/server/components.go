// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/jobrec/internal/config"
	"github.com/tomtom215/jobrec/internal/database"
	"github.com/tomtom215/jobrec/internal/events"
	"github.com/tomtom215/jobrec/internal/kvstore"
	"github.com/tomtom215/jobrec/internal/matching"
	"github.com/tomtom215/jobrec/internal/recommend"
	"github.com/tomtom215/jobrec/internal/recommend/experiment"
	"github.com/tomtom215/jobrec/internal/recommend/realtime"
	"github.com/tomtom215/jobrec/internal/recommend/training"
)

// Components holds the domain services shared by the API and the
// supervised background services.
type Components struct {
	Engine      *recommend.Engine
	Coordinator *realtime.Coordinator
	Pipeline    *training.Pipeline
	Experiments *experiment.Engine
}

// buildEngineConfig maps the recommend section onto the engine config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	rc := cfg.Recommend
	return &recommend.Config{
		ItemType:      rc.ItemType,
		MaxCandidates: rc.MaxCandidates,
		DefaultLimit:  rc.DefaultLimit,
		MaxLimit:      rc.MaxLimit,
		Neighbours:    rc.Neighbours,
		MatrixMaxAge:  rc.MatrixMaxAge,
		FallbackWeights: recommend.Weights{
			Content:       rc.FallbackContentWeight,
			Collaborative: rc.FallbackCollaborativeWeight,
		},
	}
}

// buildRealtimeConfig maps the realtime section onto the coordinator config.
func buildRealtimeConfig(cfg *config.Config) realtime.Config {
	return realtime.Config{
		Workers:   cfg.Realtime.Workers,
		QueueSize: cfg.Realtime.QueueSize,
		SLA:       cfg.Realtime.SLA,
		Retention: cfg.Realtime.Retention,
		MinScore:  cfg.Realtime.MinScore,
		Limit:     cfg.Realtime.Limit,
	}
}

// buildTrainingConfig maps the training section onto the pipeline config.
func buildTrainingConfig(cfg *config.Config) training.Config {
	return training.Config{
		ItemType:        cfg.Recommend.ItemType,
		MinInteractions: cfg.Training.MinInteractions,
		TestSize:        cfg.Training.TestSize,
		Seed:            cfg.Training.Seed,
		Threshold:       cfg.Training.Threshold,
	}
}

// buildRouterConfig maps the nats router settings onto the event router
// config. The retry multiplier is not configurable.
func buildRouterConfig(cfg *config.Config) events.RouterConfig {
	rc := events.DefaultRouterConfig()
	nc := cfg.NATS
	if nc.RouterCloseTimeout > 0 {
		rc.CloseTimeout = nc.RouterCloseTimeout
	}
	rc.RetryMaxRetries = nc.RouterRetryMaxRetries
	if nc.RouterRetryInitialInterval > 0 {
		rc.RetryInitialInterval = nc.RouterRetryInitialInterval
	}
	if nc.RouterRetryMaxInterval > 0 {
		rc.RetryMaxInterval = nc.RouterRetryMaxInterval
	}
	rc.ThrottlePerSecond = nc.RouterThrottlePerSecond
	rc.PoisonQueueTopic = nc.RouterPoisonQueueTopic
	return rc
}

// initComponents wires the domain layer onto the stores. notifier may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initComponents(cfg *config.Config, db *database.DB, kv *kvstore.Store, notifier recommend.Notifier, logger zerolog.Logger) (*Components, error) {
	matcher := matching.NewBreakerMatcher(matching.NewMatcher(), &cfg.Matcher, logger)

	deps := recommend.Deps{
		Users:        db,
		Items:        db,
		Interactions: db,
		Matcher:      matcher,
		Store:        kv,
	}
	if notifier != nil {
		deps.Notifier = notifier
	}
	engine, err := recommend.NewEngine(buildEngineConfig(cfg), deps, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	registry := training.NewDefaultRegistry(matcher, engine.Collaborative(), engine.Blender())
	pipeline := training.NewPipeline(buildTrainingConfig(cfg), training.Stores{
		Interactions: db,
		Users:        db,
		Items:        db,
		Models:       kv,
	}, registry, logger)

	return &Components{
		Engine:      engine,
		Coordinator: realtime.NewCoordinator(buildRealtimeConfig(cfg), engine, logger),
		Pipeline:    pipeline,
		Experiments: experiment.NewEngine(cfg.Experiment.Seed, logger),
	}, nil
}
