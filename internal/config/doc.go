// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

/*
Package config provides centralized configuration management for Jobrec.

Configuration is layered with Koanf v2. Later layers override earlier ones:

 1. Defaults: built-in values from defaultConfig()
 2. Config file: optional YAML file (CONFIG_PATH, then DefaultConfigPaths)
 3. Environment variables: explicit mappings in envTransformFunc

# Configuration Structure

  - ServerConfig: HTTP listener, timeouts and per-IP rate limiting
  - DatabaseConfig: DuckDB path and resource limits
  - KVConfig: BadgerDB recommendation cache and model registry
  - NATSConfig: NATS JetStream transport and event router settings
  - LoggingConfig: zerolog level, format and caller info
  - RecommendConfig: hybrid engine limits and matrix freshness
  - RealtimeConfig: update coordinator workers, queue and SLA
  - TrainingConfig: offline training pipeline and schedule
  - ExperimentConfig: A/B assignment seed and expiry checks
  - MatcherConfig: circuit breaker around the content matcher
  - NotifyConfig: rate limit for outbound notifications

# Environment Variables

Only mapped variables are read; anything else in the environment is ignored.

  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS
  - BADGER_PATH, BADGER_IN_MEMORY, RECOMMENDATION_TTL, BADGER_GC_INTERVAL
  - NATS_ENABLED, NATS_URL, NATS_QUEUE_GROUP, NATS_SUBSCRIBERS
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - REALTIME_WORKERS, REALTIME_QUEUE_SIZE, REALTIME_SLA
  - TRAINING_ENABLED, TRAINING_INTERVAL, TRAINING_SEED
  - EXPERIMENT_SEED, NOTIFY_RATE_PER_SECOND

See envTransformFunc for the full list.

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal(err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
*/
package config
