// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/tomtom215/jobrec/internal/api"
	"github.com/tomtom215/jobrec/internal/config"
	"github.com/tomtom215/jobrec/internal/database"
	"github.com/tomtom215/jobrec/internal/events"
	"github.com/tomtom215/jobrec/internal/kvstore"
	"github.com/tomtom215/jobrec/internal/logging"
	"github.com/tomtom215/jobrec/internal/supervisor"
	"github.com/tomtom215/jobrec/internal/supervisor/services"
	"github.com/tomtom215/jobrec/internal/websocket"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("kv_path", cfg.KV.Path).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Dur("sla", cfg.Realtime.SLA).
		Msg("Starting Jobrec with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	kv, err := kvstore.Open(&cfg.KV, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open recommendation store")
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing recommendation store")
		}
	}()

	slogLogger := logging.NewSlogLogger()
	wmLogger := watermill.NewSlogLogger(slogLogger)

	bus, err := initEventBus(&cfg.NATS, wmLogger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()
	notifier := events.NewNotifier(bus.Publisher, cfg.Notify.RatePerSecond, cfg.Notify.Burst)

	comps, err := initComponents(cfg, db, kv, notifier, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation components")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === STORAGE LAYER ===

	if cfg.KV.GCInterval > 0 {
		tree.AddStorageService(services.NewPeriodicService(services.PeriodicConfig{
			Name:     "kv-gc",
			Interval: cfg.KV.GCInterval,
		}, func(context.Context) error {
			return kv.RunGC()
		}, logger))
	}

	if cfg.Recommend.MatrixRefreshInterval > 0 {
		matrix := comps.Engine.Matrix()
		tree.AddStorageService(services.NewPeriodicService(services.PeriodicConfig{
			Name:       "matrix-refresh",
			Interval:   cfg.Recommend.MatrixRefreshInterval,
			RunOnStart: true,
			Timeout:    cfg.Recommend.MatrixRefreshInterval,
		}, func(ctx context.Context) error {
			_, err := matrix.Build(ctx)
			return err
		}, logger))
	}

	// === PROCESSING LAYER ===

	tree.AddProcessingService(services.NewRunnerService("update-coordinator", comps.Coordinator))

	tree.AddProcessingService(services.NewPeriodicService(services.PeriodicConfig{
		Name:     "task-sweeper",
		Interval: cfg.Realtime.SweepInterval,
	}, func(context.Context) error {
		if n := comps.Coordinator.Sweep(time.Now()); n > 0 {
			logging.Debug().Int("removed", n).Msg("Swept finished update tasks")
		}
		return nil
	}, logger))

	hub := websocket.NewHub()

	// A Watermill router cannot be restarted after Close, so every supervised
	// run builds a fresh one on the shared subscriber.
	routerCfg := buildRouterConfig(cfg)
	tree.AddProcessingService(services.NewRunnerService("event-router", services.RunnerFunc(func(ctx context.Context) error {
		router, err := events.NewRouter(&routerCfg, bus.Subscriber, bus.Publisher, comps.Coordinator, wmLogger, logger)
		if err != nil {
			return err
		}
		router.AddReadyConsumer(bus.Subscriber, hub)
		defer func() {
			if err := router.Close(); err != nil {
				logging.Warn().Err(err).Msg("Error closing event router")
			}
		}()
		return router.Run(ctx)
	})))
	logging.Info().Str("transport", bus.Transport).Msg("Event router service added")

	if cfg.Training.Enabled {
		tree.AddProcessingService(services.NewTrainingService(comps.Pipeline, services.TrainingServiceConfig{
			TrainOnStartup: cfg.Training.RunOnStartup,
			TrainInterval:  cfg.Training.Interval,
		}, logger))
		logging.Info().Dur("interval", cfg.Training.Interval).Msg("Training scheduler added")
	}

	tree.AddProcessingService(services.NewPeriodicService(services.PeriodicConfig{
		Name:     "experiment-expiry",
		Interval: cfg.Experiment.ExpiryCheckInterval,
	}, func(context.Context) error {
		if n := comps.Experiments.StopExpired(time.Now()); n > 0 {
			logging.Info().Int("stopped", n).Msg("Stopped expired experiments")
		}
		return nil
	}, logger))

	// === API LAYER ===

	tree.AddAPIService(services.NewRunnerService("notification-hub", hub))

	handler := api.NewHandler(api.Deps{
		Recommender:   comps.Engine,
		Catalog:       db,
		Snapshots:     kv,
		Updates:       comps.Coordinator,
		Trainer:       comps.Pipeline,
		Experiments:   comps.Experiments,
		Notifications: hub,
	}, cfg.Server.Timeout)

	// No WriteTimeout: training endpoints answer once the run completes.
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, &cfg.Server),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	if path := config.ConfigFilePath(); path != "" {
		err := config.WatchConfigFile(path, func() {
			reloaded, err := config.LoadWithKoanf()
			if err != nil {
				logging.Warn().Err(err).Msg("Ignoring invalid config change")
				return
			}
			logging.SetLevelString(reloaded.Logging.Level)
			logging.Info().Str("level", reloaded.Logging.Level).Msg("Log level reloaded")
		})
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
		}
	}

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
