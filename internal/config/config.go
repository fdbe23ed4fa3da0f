// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	KV         KVConfig         `koanf:"kv"`
	NATS       NATSConfig       `koanf:"nats"`
	Logging    LoggingConfig    `koanf:"logging"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Realtime   RealtimeConfig   `koanf:"realtime"`
	Training   TrainingConfig   `koanf:"training"`
	Experiment ExperimentConfig `koanf:"experiment"`
	Matcher    MatcherConfig    `koanf:"matcher"`
	Notify     NotifyConfig     `koanf:"notify"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimitRequests is the number of requests allowed per client IP
	// within RateLimitWindow. Default: 100
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	// RateLimitDisabled turns off per-IP limiting (testing only).
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`

	// CORSOrigins lists origins allowed for CORS and websocket upgrades.
	// "*" allows any origin. Default: ["*"]
	CORSOrigins []string `koanf:"cors_origins"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file, or ":memory:" for an in-process database.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// KVConfig holds BadgerDB settings for the recommendation cache and model
// registry.
type KVConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	// RecommendationTTL is how long a saved recommendation set stays
	// readable. Default: 168h (7 days)
	RecommendationTTL time.Duration `koanf:"recommendation_ttl"`

	// GCInterval is how often the value log is garbage collected.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// NATSConfig holds NATS JetStream transport and event router settings.
type NATSConfig struct {
	// Enabled switches profile update delivery from the in-process channel
	// to NATS JetStream. Default: false
	Enabled       bool          `koanf:"enabled"`
	URL           string        `koanf:"url"`
	ClientName    string        `koanf:"client_name"`
	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
	MaxDeliver    int           `koanf:"max_deliver"`
	AckWait       time.Duration `koanf:"ack_wait"`
	QueueGroup    string        `koanf:"queue_group"`
	Subscribers   int           `koanf:"subscribers"`
	DurableName   string        `koanf:"durable_name"`

	// EmbeddedServer starts an in-process NATS server with JetStream,
	// listening on the host and port of URL. Default: true
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
	// MaxMemory and MaxStore bound JetStream memory and disk use in bytes.
	MaxMemory int64 `koanf:"max_memory"`
	MaxStore  int64 `koanf:"max_store"`

	// Router middleware
	RouterCloseTimeout         time.Duration `koanf:"router_close_timeout"`
	RouterRetryMaxRetries      int           `koanf:"router_retry_max_retries"`
	RouterRetryInitialInterval time.Duration `koanf:"router_retry_initial_interval"`
	RouterRetryMaxInterval     time.Duration `koanf:"router_retry_max_interval"`
	RouterThrottlePerSecond    int64         `koanf:"router_throttle_per_second"`
	RouterPoisonQueueTopic     string        `koanf:"router_poison_queue_topic"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// RecommendConfig holds hybrid engine settings.
type RecommendConfig struct {
	ItemType      string `koanf:"item_type"`
	MaxCandidates int    `koanf:"max_candidates"`
	DefaultLimit  int    `koanf:"default_limit"`
	MaxLimit      int    `koanf:"max_limit"`
	Neighbours    int    `koanf:"neighbours"`

	// MatrixMaxAge is how stale the user-item matrix may be before a
	// request rebuilds it. Default: 24h
	MatrixMaxAge time.Duration `koanf:"matrix_max_age"`

	// MatrixRefreshInterval is how often the background service rebuilds
	// the matrix. Zero disables the service.
	MatrixRefreshInterval time.Duration `koanf:"matrix_refresh_interval"`

	FallbackContentWeight       float64 `koanf:"fallback_content_weight"`
	FallbackCollaborativeWeight float64 `koanf:"fallback_collaborative_weight"`
}

// RealtimeConfig holds update coordinator settings.
type RealtimeConfig struct {
	Workers       int           `koanf:"workers"`
	QueueSize     int           `koanf:"queue_size"`
	SLA           time.Duration `koanf:"sla"`
	Retention     time.Duration `koanf:"retention"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
	MinScore      float64       `koanf:"min_score"`
	Limit         int           `koanf:"limit"`
}

// TrainingConfig holds offline training settings.
type TrainingConfig struct {
	// Enabled runs TrainAll every Interval (default weekly). Manual runs
	// through the API are always available.
	Enabled         bool          `koanf:"enabled"`
	Interval        time.Duration `koanf:"interval"`
	RunOnStartup    bool          `koanf:"run_on_startup"`
	MinInteractions int           `koanf:"min_interactions"`
	TestSize        float64       `koanf:"test_size"`
	Seed            int64         `koanf:"seed"`
	Threshold       float64       `koanf:"threshold"`
}

// ExperimentConfig holds A/B testing settings.
type ExperimentConfig struct {
	Seed                int64         `koanf:"seed"`
	ExpiryCheckInterval time.Duration `koanf:"expiry_check_interval"`
}

// MatcherConfig holds the circuit breaker settings for the content matcher.
type MatcherConfig struct {
	// BreakerMaxRequests is the number of probes allowed in half-open state.
	BreakerMaxRequests uint32 `koanf:"breaker_max_requests"`
	// BreakerInterval is the closed-state window after which counts reset.
	BreakerInterval time.Duration `koanf:"breaker_interval"`
	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
	// BreakerMinRequests is the request floor before the ratio is checked.
	BreakerMinRequests  uint32  `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64 `koanf:"breaker_failure_ratio"`
}

// NotifyConfig holds outbound notification settings.
type NotifyConfig struct {
	// RatePerSecond limits "recommendations ready" publications. Zero or
	// less disables limiting.
	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`
}
