// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/jobrec/config.yaml",
	"/etc/jobrec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			Timeout:           30 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Database: DatabaseConfig{
			Path:      "/data/jobrec.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // Runtime CPU count
		},
		KV: KVConfig{
			Path:              "/data/jobrec.badger",
			InMemory:          false,
			RecommendationTTL: 7 * 24 * time.Hour,
			GCInterval:        10 * time.Minute,
		},
		NATS: NATSConfig{
			Enabled:                    false,
			URL:                        "nats://127.0.0.1:4222",
			ClientName:                 "jobrec",
			MaxReconnects:              -1,
			ReconnectWait:              2 * time.Second,
			MaxDeliver:                 5,
			AckWait:                    30 * time.Second,
			QueueGroup:                 "jobrec-profile",
			Subscribers:                2,
			DurableName:                "jobrec-profile",
			EmbeddedServer:             true,
			StoreDir:                   "/data/nats/jetstream",
			MaxMemory:                  64 * 1024 * 1024,
			MaxStore:                   1024 * 1024 * 1024,
			RouterCloseTimeout:         30 * time.Second,
			RouterRetryMaxRetries:      5,
			RouterRetryInitialInterval: time.Second,
			RouterRetryMaxInterval:     time.Minute,
			RouterThrottlePerSecond:    0,
			RouterPoisonQueueTopic:     "dlq.profile",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			ItemType:                    "job",
			MaxCandidates:               100,
			DefaultLimit:                20,
			MaxLimit:                    100,
			Neighbours:                  20,
			MatrixMaxAge:                24 * time.Hour,
			MatrixRefreshInterval:       time.Hour,
			FallbackContentWeight:       0.6,
			FallbackCollaborativeWeight: 0.4,
		},
		Realtime: RealtimeConfig{
			Workers:       4,
			QueueSize:     1000,
			SLA:           60 * time.Second,
			Retention:     5 * time.Minute,
			SweepInterval: time.Minute,
			MinScore:      0.3,
			Limit:         20,
		},
		Training: TrainingConfig{
			Enabled:         true,
			Interval:        7 * 24 * time.Hour,
			RunOnStartup:    false,
			MinInteractions: 5,
			TestSize:        0.2,
			Seed:            42,
			Threshold:       0.5,
		},
		Experiment: ExperimentConfig{
			Seed:                42,
			ExpiryCheckInterval: time.Hour,
		},
		Matcher: MatcherConfig{
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      30 * time.Second,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
		},
		Notify: NotifyConfig{
			RatePerSecond: 50,
			Burst:         100,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// DUCKDB_PATH -> database.path
	// REALTIME_SLA -> realtime.sla
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ConfigFilePath returns the config file LoadWithKoanf reads, or an empty
// string when configuration comes from defaults and environment only.
func ConfigFilePath() string {
	return findConfigFile()
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",
	"cors_origins":          "server.cors_origins",

	// DuckDB
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// BadgerDB
	"badger_path":        "kv.path",
	"badger_in_memory":   "kv.in_memory",
	"recommendation_ttl": "kv.recommendation_ttl",
	"badger_gc_interval": "kv.gc_interval",

	// NATS
	"nats_enabled":                  "nats.enabled",
	"nats_url":                      "nats.url",
	"nats_client_name":              "nats.client_name",
	"nats_max_reconnects":           "nats.max_reconnects",
	"nats_reconnect_wait":           "nats.reconnect_wait",
	"nats_max_deliver":              "nats.max_deliver",
	"nats_ack_wait":                 "nats.ack_wait",
	"nats_queue_group":              "nats.queue_group",
	"nats_subscribers":              "nats.subscribers",
	"nats_durable_name":             "nats.durable_name",
	"nats_embedded":                 "nats.embedded_server",
	"nats_store_dir":                "nats.store_dir",
	"nats_max_memory":               "nats.max_memory",
	"nats_max_store":                "nats.max_store",
	"nats_router_close_timeout":     "nats.router_close_timeout",
	"nats_router_retry_max_retries": "nats.router_retry_max_retries",
	"nats_router_throttle":          "nats.router_throttle_per_second",
	"nats_poison_queue_topic":       "nats.router_poison_queue_topic",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine
	"recommend_item_type":               "recommend.item_type",
	"recommend_max_candidates":          "recommend.max_candidates",
	"recommend_default_limit":           "recommend.default_limit",
	"recommend_max_limit":               "recommend.max_limit",
	"recommend_neighbours":              "recommend.neighbours",
	"recommend_matrix_max_age":          "recommend.matrix_max_age",
	"recommend_matrix_refresh_interval": "recommend.matrix_refresh_interval",

	// Real-time updates
	"realtime_workers":        "realtime.workers",
	"realtime_queue_size":     "realtime.queue_size",
	"realtime_sla":            "realtime.sla",
	"realtime_retention":      "realtime.retention",
	"realtime_sweep_interval": "realtime.sweep_interval",
	"realtime_min_score":      "realtime.min_score",
	"realtime_limit":          "realtime.limit",

	// Training
	"training_enabled":          "training.enabled",
	"training_interval":         "training.interval",
	"training_run_on_startup":   "training.run_on_startup",
	"training_min_interactions": "training.min_interactions",
	"training_test_size":        "training.test_size",
	"training_seed":             "training.seed",
	"training_threshold":        "training.threshold",

	// Experiments
	"experiment_seed":                  "experiment.seed",
	"experiment_expiry_check_interval": "experiment.expiry_check_interval",

	// Content matcher circuit breaker
	"matcher_breaker_timeout":       "matcher.breaker_timeout",
	"matcher_breaker_failure_ratio": "matcher.breaker_failure_ratio",
	"matcher_breaker_min_requests":  "matcher.breaker_min_requests",

	// Notifications
	"notify_rate_per_second": "notify.rate_per_second",
	"notify_burst":           "notify.burst",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
//   - REALTIME_SLA -> realtime.sla
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The caller is responsible for synchronizing access to any configuration
// it reloads from the callback.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
