// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/jobrec/internal/kvstore"
	"github.com/tomtom215/jobrec/internal/recommend"
	"github.com/tomtom215/jobrec/internal/recommend/realtime"
	"github.com/tomtom215/jobrec/internal/recommend/training"
)

type mockRecommender struct {
	err      error
	lastReq  recommend.Request
	strategy string
	mu       sync.Mutex
}

func (m *mockRecommender) respond(strategy string, req recommend.Request) (*recommend.Response, error) {
	m.mu.Lock()
	m.lastReq = req
	m.strategy = strategy
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return &recommend.Response{
		UserID: req.UserID,
		Recommendations: []recommend.Recommendation{
			{ItemID: "job-1", Score: 78, Source: recommend.SourceHybrid},
		},
		Metadata: recommend.ResponseMetadata{Strategy: strategy, LatencyMs: 3},
	}, nil
}

func (m *mockRecommender) Recommend(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	return m.respond(recommend.StrategyHybrid, req)
}

func (m *mockRecommender) ContentRecommendations(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	return m.respond(recommend.StrategyContent, req)
}

func (m *mockRecommender) CollaborativeRecommendations(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	return m.respond(recommend.StrategyCollaborative, req)
}

func (m *mockRecommender) Stats() recommend.Stats {
	return recommend.Stats{Requests: 7, Errors: 1}
}

type mockCatalog struct {
	mu           sync.Mutex
	users        map[string]recommend.User
	items        map[string]recommend.Item
	interactions []recommend.Interaction
	pingErr      error
	writeErr     error
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		users: make(map[string]recommend.User),
		items: make(map[string]recommend.Item),
	}
}

func (m *mockCatalog) GetUser(_ context.Context, userID string) (recommend.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return recommend.User{}, fmt.Errorf("%w: %s", recommend.ErrUserNotFound, userID)
	}
	return u, nil
}

//nolint:gocritic // mirrors the store API
func (m *mockCatalog) UpsertUser(_ context.Context, u recommend.User) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

//nolint:gocritic // mirrors the store API
func (m *mockCatalog) UpsertItem(_ context.Context, it recommend.Item) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[it.ID] = it
	return nil
}

//nolint:gocritic // mirrors the store API
func (m *mockCatalog) LogInteraction(_ context.Context, in recommend.Interaction) (recommend.Interaction, error) {
	if m.writeErr != nil {
		return recommend.Interaction{}, m.writeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	in.ID = fmt.Sprintf("int-%d", len(m.interactions)+1)
	m.interactions = append(m.interactions, in)
	return in, nil
}

func (m *mockCatalog) Ping(_ context.Context) error { return m.pingErr }

type mockSnapshots struct {
	snapshots map[string]kvstore.Snapshot
	models    map[string][]training.ModelRecord
}

func (m *mockSnapshots) LoadRecommendations(_ context.Context, userID string) (kvstore.Snapshot, error) {
	s, ok := m.snapshots[userID]
	if !ok {
		return kvstore.Snapshot{}, fmt.Errorf("%w: recommendations for %s", kvstore.ErrNotFound, userID)
	}
	return s, nil
}

func (m *mockSnapshots) ListModels(_ context.Context, modelType string) ([]training.ModelRecord, error) {
	return m.models[modelType], nil
}

type submitCall struct {
	userID string
	fields []string
}

type mockUpdates struct {
	mu        sync.Mutex
	calls     []submitCall
	submitErr error
	tasks     map[string]realtime.Task
}

func (m *mockUpdates) Submit(userID string, fields []string) (realtime.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, submitCall{userID: userID, fields: fields})
	if m.submitErr != nil {
		return realtime.Ticket{}, m.submitErr
	}
	if !realtime.IsRelevant(fields) {
		return realtime.Ticket{}, realtime.ErrNotRelevant
	}
	return realtime.Ticket{TaskID: "task-" + userID, ExpectedCompletionAt: time.Now().Add(time.Minute)}, nil
}

func (m *mockUpdates) Task(userID string) (realtime.Task, bool) {
	t, ok := m.tasks[userID]
	return t, ok
}

func (m *mockUpdates) Stats() realtime.Stats {
	return realtime.Stats{QueueDepth: 2, Processed: 10, SLAHitRatio: 0.9}
}

func (m *mockUpdates) SLA() time.Duration { return time.Minute }

func (m *mockUpdates) submitted() []submitCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]submitCall(nil), m.calls...)
}

type mockTrainer struct {
	err    error
	active map[string]training.ModelRecord
}

func (m *mockTrainer) TrainAll(_ context.Context) (*training.RunResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &training.RunResult{Version: "v1", BestModel: training.ModelHybrid, TrainSize: 80, TestSize: 20}, nil
}

func (m *mockTrainer) TrainSingle(_ context.Context, modelType string) (training.ModelRecord, error) {
	if m.err != nil {
		return training.ModelRecord{}, m.err
	}
	if modelType != training.ModelHybrid && modelType != training.ModelContentBased && modelType != training.ModelCollaborative {
		return training.ModelRecord{}, fmt.Errorf("%w: %s", training.ErrUnknownModel, modelType)
	}
	return training.ModelRecord{ModelType: modelType, Version: "v2"}, nil
}

func (m *mockTrainer) ActiveModel(_ context.Context, modelType string) (training.ModelRecord, error) {
	rec, ok := m.active[modelType]
	if !ok {
		return training.ModelRecord{}, fmt.Errorf("%w: %s", training.ErrModelNotFound, modelType)
	}
	return rec, nil
}
