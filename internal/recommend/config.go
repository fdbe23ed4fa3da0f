// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// ItemType is the item kind recommended and used to build the matrix.
	// Default: "job".
	ItemType string `json:"item_type"`

	// MaxCandidates is the maximum number of active items scored per request.
	// Default: 100.
	MaxCandidates int `json:"max_candidates"`

	// DefaultLimit is the number of recommendations returned when a request
	// does not specify one.
	// Default: 20.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps Request.Limit.
	// Default: 100.
	MaxLimit int `json:"max_limit"`

	// Neighbours is the number of similar users consulted by the
	// collaborative recommender.
	// Default: 20.
	Neighbours int `json:"neighbours"`

	// MatrixMaxAge is how old the user-item matrix may get before a
	// request triggers a rebuild.
	// Default: 24h.
	MatrixMaxAge time.Duration `json:"matrix_max_age"`

	// FallbackWeights are used when the interaction count of a user
	// cannot be determined.
	// Default: content 0.6, collaborative 0.4.
	FallbackWeights Weights `json:"fallback_weights"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		ItemType:        "job",
		MaxCandidates:   100,
		DefaultLimit:    20,
		MaxLimit:        100,
		Neighbours:      20,
		MatrixMaxAge:    24 * time.Hour,
		FallbackWeights: Weights{Content: 0.6, Collaborative: 0.4},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.ItemType == "" {
		return fmt.Errorf("item_type must not be empty")
	}
	if c.MaxCandidates < 1 {
		return fmt.Errorf("max_candidates must be positive, got %d", c.MaxCandidates)
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit, got %d < %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.Neighbours < 1 {
		return fmt.Errorf("neighbours must be positive, got %d", c.Neighbours)
	}
	if c.MatrixMaxAge <= 0 {
		return fmt.Errorf("matrix_max_age must be positive, got %v", c.MatrixMaxAge)
	}
	w := c.FallbackWeights
	if w.Content < 0 || w.Collaborative < 0 || w.Content+w.Collaborative == 0 {
		return fmt.Errorf("fallback_weights must be non-negative and not both zero, got %+v", w)
	}
	return nil
}
