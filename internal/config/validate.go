// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateKV,
		c.validateNATS,
		c.validateRecommend,
		c.validateRealtime,
		c.validateTraining,
		c.validateMatcher,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Server.RateLimitRequests)
	}
	if c.Server.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %v", c.Server.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return errors.New("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateKV() error {
	if !c.KV.InMemory && c.KV.Path == "" {
		return errors.New("BADGER_PATH is required unless BADGER_IN_MEMORY is set")
	}
	if c.KV.RecommendationTTL < time.Second {
		return fmt.Errorf("RECOMMENDATION_TTL must be at least 1s, got %v", c.KV.RecommendationTTL)
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if c.NATS.URL == "" {
		return errors.New("NATS_URL is required when NATS_ENABLED is true")
	}
	if c.NATS.Subscribers < 1 {
		return fmt.Errorf("NATS_SUBSCRIBERS must be positive, got %d", c.NATS.Subscribers)
	}
	if c.NATS.RouterRetryMaxRetries < 0 {
		return fmt.Errorf("NATS_ROUTER_RETRY_MAX_RETRIES must be >= 0, got %d", c.NATS.RouterRetryMaxRetries)
	}
	if c.NATS.EmbeddedServer && c.NATS.StoreDir == "" {
		return errors.New("NATS_STORE_DIR is required when NATS_EMBEDDED is true")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.ItemType == "" {
		return errors.New("RECOMMEND_ITEM_TYPE must not be empty")
	}
	if r.MaxCandidates < 1 {
		return fmt.Errorf("RECOMMEND_MAX_CANDIDATES must be positive, got %d", r.MaxCandidates)
	}
	if r.DefaultLimit < 1 || r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be in [1, %d], got %d", r.MaxLimit, r.DefaultLimit)
	}
	if r.Neighbours < 1 {
		return fmt.Errorf("RECOMMEND_NEIGHBOURS must be positive, got %d", r.Neighbours)
	}
	if r.MatrixMaxAge <= 0 {
		return fmt.Errorf("RECOMMEND_MATRIX_MAX_AGE must be positive, got %v", r.MatrixMaxAge)
	}
	if r.FallbackContentWeight < 0 || r.FallbackCollaborativeWeight < 0 ||
		r.FallbackContentWeight+r.FallbackCollaborativeWeight == 0 {
		return errors.New("recommend fallback weights must be non-negative and not both zero")
	}
	return nil
}

func (c *Config) validateRealtime() error {
	r := c.Realtime
	if r.Workers < 1 {
		return fmt.Errorf("REALTIME_WORKERS must be positive, got %d", r.Workers)
	}
	if r.QueueSize < 1 {
		return fmt.Errorf("REALTIME_QUEUE_SIZE must be positive, got %d", r.QueueSize)
	}
	if r.SLA <= 0 {
		return fmt.Errorf("REALTIME_SLA must be positive, got %v", r.SLA)
	}
	if r.MinScore < 0 || r.MinScore > 100 {
		return fmt.Errorf("REALTIME_MIN_SCORE must be between 0 and 100, got %v", r.MinScore)
	}
	return nil
}

func (c *Config) validateTraining() error {
	t := c.Training
	if t.TestSize <= 0 || t.TestSize >= 1 {
		return fmt.Errorf("TRAINING_TEST_SIZE must be in (0, 1), got %v", t.TestSize)
	}
	if t.Threshold <= 0 || t.Threshold >= 1 {
		return fmt.Errorf("TRAINING_THRESHOLD must be in (0, 1), got %v", t.Threshold)
	}
	if t.Enabled && t.Interval < time.Minute {
		return fmt.Errorf("TRAINING_INTERVAL must be at least 1m, got %v", t.Interval)
	}
	return nil
}

func (c *Config) validateMatcher() error {
	if c.Matcher.BreakerFailureRatio <= 0 || c.Matcher.BreakerFailureRatio > 1 {
		return fmt.Errorf("MATCHER_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.Matcher.BreakerFailureRatio)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return errors.New("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return errors.New("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
