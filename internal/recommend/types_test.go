// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package recommend

import (
	"errors"
	"testing"
	"time"
)

func TestAction_Weight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		action Action
		want   float64
	}{
		{ActionApply, 1.0},
		{ActionLike, 0.8},
		{ActionSave, 0.7},
		{ActionView, 0.3},
		{ActionIgnore, -0.5},
		{Action("share"), 0},
	}
	for _, tt := range tests {
		if got := tt.action.Weight(); got != tt.want {
			t.Errorf("%s.Weight() = %v, want %v", tt.action, got, tt.want)
		}
	}
}

func TestParseAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Action
		wantErr bool
	}{
		{"apply", ActionApply, false},
		{" Like ", ActionLike, false},
		{"IGNORE", ActionIgnore, false},
		{"share", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidAction) {
				t.Errorf("ParseAction(%q) error = %v, want ErrInvalidAction", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseAction(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestItem_Active(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		item Item
		want bool
	}{
		{"active without expiry", Item{Status: ItemStatusActive}, true},
		{"active not yet expired", Item{Status: ItemStatusActive, ExpiresAt: now.Add(time.Hour)}, true},
		{"active but expired", Item{Status: ItemStatusActive, ExpiresAt: now.Add(-time.Hour)}, false},
		{"closed", Item{Status: ItemStatusClosed}, false},
	}
	for _, tt := range tests {
		if got := tt.item.Active(now); got != tt.want {
			t.Errorf("%s: Active() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty item type", func(c *Config) { c.ItemType = "" }, true},
		{"zero candidates", func(c *Config) { c.MaxCandidates = 0 }, true},
		{"max below default limit", func(c *Config) { c.MaxLimit = 5 }, true},
		{"zero neighbours", func(c *Config) { c.Neighbours = 0 }, true},
		{"zero matrix age", func(c *Config) { c.MatrixMaxAge = 0 }, true},
		{"zero fallback weights", func(c *Config) { c.FallbackWeights = Weights{} }, true},
		{"negative fallback weight", func(c *Config) { c.FallbackWeights.Content = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
