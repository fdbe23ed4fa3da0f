// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package api

import (
	"context"
	"time"

	"github.com/tomtom215/jobrec/internal/kvstore"
	"github.com/tomtom215/jobrec/internal/recommend"
	"github.com/tomtom215/jobrec/internal/recommend/experiment"
	"github.com/tomtom215/jobrec/internal/recommend/realtime"
	"github.com/tomtom215/jobrec/internal/recommend/training"
	"github.com/tomtom215/jobrec/internal/websocket"
)

// Recommender generates recommendations. Implemented by *recommend.Engine.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	ContentRecommendations(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	CollaborativeRecommendations(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	Stats() recommend.Stats
}

// Catalog stores users, items and interactions. Implemented by *database.DB.
type Catalog interface {
	GetUser(ctx context.Context, userID string) (recommend.User, error)
	UpsertUser(ctx context.Context, u recommend.User) error
	UpsertItem(ctx context.Context, it recommend.Item) error
	LogInteraction(ctx context.Context, in recommend.Interaction) (recommend.Interaction, error)
	Ping(ctx context.Context) error
}

// SnapshotStore reads persisted recommendation lists. Implemented by
// *kvstore.Store.
type SnapshotStore interface {
	LoadRecommendations(ctx context.Context, userID string) (kvstore.Snapshot, error)
	ListModels(ctx context.Context, modelType string) ([]training.ModelRecord, error)
}

// UpdateCoordinator schedules real-time refreshes. Implemented by
// *realtime.Coordinator.
type UpdateCoordinator interface {
	Submit(userID string, fields []string) (realtime.Ticket, error)
	Task(userID string) (realtime.Task, bool)
	Stats() realtime.Stats
	SLA() time.Duration
}

// Trainer runs training and reports active models. Implemented by
// *training.Pipeline.
type Trainer interface {
	TrainAll(ctx context.Context) (*training.RunResult, error)
	TrainSingle(ctx context.Context, modelType string) (training.ModelRecord, error)
	ActiveModel(ctx context.Context, modelType string) (training.ModelRecord, error)
}

// Experiments manages A/B tests. Implemented by *experiment.Engine.
type Experiments interface {
	Create(ctx context.Context, cfg experiment.Config) (experiment.Experiment, error)
	Assign(expID, userID string) (experiment.Group, error)
	ModelFor(expID, userID string) (string, experiment.Group, error)
	Track(ctx context.Context, expID, userID string, ev experiment.Event) error
	Get(expID string) (experiment.Experiment, error)
	Stop(expID string) (experiment.Experiment, error)
	List() []experiment.Experiment
	Analyze(expID string) (experiment.Analysis, error)
}

// Deps are the services behind the HTTP handlers. Any may be nil; the
// corresponding endpoints then answer 503.
type Deps struct {
	Recommender Recommender
	Catalog     Catalog
	Snapshots   SnapshotStore
	Updates     UpdateCoordinator
	Trainer     Trainer
	Experiments Experiments

	// Notifications receives websocket clients for "recommendations ready"
	// pushes.
	Notifications *websocket.Hub
}

// Handler serves the Jobrec HTTP API.
type Handler struct {
	deps           Deps
	startTime      time.Time
	requestTimeout time.Duration
	trainTimeout   time.Duration

	// allowedOrigins gates websocket upgrades; set from the server config
	// by NewRouter.
	allowedOrigins []string
}

// NewHandler creates a handler. requestTimeout bounds each recommendation
// request; zero means 10 seconds.
func NewHandler(deps Deps, requestTimeout time.Duration) *Handler {
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}
	return &Handler{
		deps:           deps,
		startTime:      time.Now(),
		requestTimeout: requestTimeout,
		trainTimeout:   30 * time.Minute,
	}
}
