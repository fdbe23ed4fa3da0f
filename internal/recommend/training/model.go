// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package training

import (
	"context"
	"errors"
	"time"
)

// ErrModelNotFound is returned by ModelStore implementations when no record
// matches.
var ErrModelNotFound = errors.New("model not found")

// ModelRecord is the evaluation outcome of one strategy in one run.
type ModelRecord struct {
	ModelType          string    `json:"model_type"`
	Version            string    `json:"version"`
	Metrics            Metrics   `json:"metrics"`
	TrainedAt          time.Time `json:"trained_at"`
	TrainSize          int       `json:"train_size"`
	TestSize           int       `json:"test_size"`
	PredictionFailures int       `json:"prediction_failures"`
	Active             bool      `json:"active"`
}

// ModelStore persists model records.
type ModelStore interface {
	// SaveModel stores a record, replacing one with the same type and version.
	SaveModel(ctx context.Context, rec ModelRecord) error

	// ActivateModel marks the given version active and every other version
	// of the same type inactive.
	ActivateModel(ctx context.Context, modelType, version string) error

	// ActiveModel returns the active record of a type or ErrModelNotFound.
	ActiveModel(ctx context.Context, modelType string) (ModelRecord, error)

	// ListModels returns all records of a type, newest first.
	ListModels(ctx context.Context, modelType string) ([]ModelRecord, error)
}
