// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/jobrec/internal/config"
	"github.com/tomtom215/jobrec/internal/kvstore"
	"github.com/tomtom215/jobrec/internal/recommend"
	"github.com/tomtom215/jobrec/internal/recommend/experiment"
	"github.com/tomtom215/jobrec/internal/recommend/realtime"
	"github.com/tomtom215/jobrec/internal/recommend/training"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Metadata struct {
		Cached bool `json:"cached"`
	} `json:"metadata"`
}

type testServer struct {
	recommender *mockRecommender
	catalog     *mockCatalog
	snapshots   *mockSnapshots
	updates     *mockUpdates
	trainer     *mockTrainer
	experiments *experiment.Engine
	router      http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		recommender: &mockRecommender{},
		catalog:     newMockCatalog(),
		snapshots: &mockSnapshots{
			snapshots: map[string]kvstore.Snapshot{
				"u1": {UserID: "u1", Recommendations: []recommend.Recommendation{{ItemID: "job-9", Score: 64}}},
			},
			models: map[string][]training.ModelRecord{
				training.ModelHybrid: {{ModelType: training.ModelHybrid, Version: "v2"}, {ModelType: training.ModelHybrid, Version: "v1"}},
			},
		},
		updates: &mockUpdates{tasks: map[string]realtime.Task{
			"u1": {ID: "task-1", UserID: "u1", Status: realtime.StatusCompleted, WithinSLA: true},
		}},
		trainer: &mockTrainer{active: map[string]training.ModelRecord{
			training.ModelHybrid: {ModelType: training.ModelHybrid, Version: "v1", Active: true},
		}},
		experiments: experiment.NewEngine(42, zerolog.Nop()),
	}
	h := NewHandler(Deps{
		Recommender: ts.recommender,
		Catalog:     ts.catalog,
		Snapshots:   ts.snapshots,
		Updates:     ts.updates,
		Trainer:     ts.trainer,
		Experiments: ts.experiments,
	}, time.Second)
	ts.router = NewRouter(h, &config.ServerConfig{RateLimitDisabled: true})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: response is not JSON: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec, env
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, env envelope, want int, wantCode string) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
	if wantCode == "" {
		if env.Status != "success" {
			t.Errorf("envelope status = %q, want success", env.Status)
		}
		return
	}
	if env.Error == nil || env.Error.Code != wantCode {
		t.Errorf("error = %+v, want code %s", env.Error, wantCode)
	}
}

func TestGenerateRecommendations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         string
		err          error
		wantStatus   int
		wantCode     string
		wantStrategy string
	}{
		{name: "default hybrid", body: `{"limit": 5}`, wantStatus: http.StatusOK, wantStrategy: recommend.StrategyHybrid},
		{name: "empty body", body: ``, wantStatus: http.StatusOK, wantStrategy: recommend.StrategyHybrid},
		{name: "content only", body: `{"strategy": "content"}`, wantStatus: http.StatusOK, wantStrategy: recommend.StrategyContent},
		{name: "collaborative only", body: `{"strategy": "collaborative"}`, wantStatus: http.StatusOK, wantStrategy: recommend.StrategyCollaborative},
		{name: "unknown strategy", body: `{"strategy": "random"}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "limit too large", body: `{"limit": 500}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "malformed JSON", body: `{"limit": `, wantStatus: http.StatusBadRequest, wantCode: "INVALID_JSON"},
		{name: "engine failure", body: `{}`, err: errors.New("duckdb down"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t)
			ts.recommender.err = tt.err

			rec, env := ts.do(t, http.MethodPost, "/api/v1/users/u1/recommendations", tt.body)
			expectStatus(t, rec, env, tt.wantStatus, tt.wantCode)
			if tt.wantStrategy == "" {
				return
			}
			if ts.recommender.strategy != tt.wantStrategy {
				t.Errorf("strategy = %q, want %q", ts.recommender.strategy, tt.wantStrategy)
			}
			if ts.recommender.lastReq.UserID != "u1" {
				t.Errorf("user = %q, want u1", ts.recommender.lastReq.UserID)
			}
		})
	}
}

func TestGetStoredRecommendations(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/users/u1/recommendations", "")
	expectStatus(t, rec, env, http.StatusOK, "")
	if !env.Metadata.Cached {
		t.Error("stored recommendations should be flagged as cached")
	}
	var snap kvstore.Snapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Recommendations) != 1 || snap.Recommendations[0].ItemID != "job-9" {
		t.Errorf("snapshot = %+v", snap)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/users/nobody/recommendations", "")
	expectStatus(t, rec, env, http.StatusNotFound, "NOT_FOUND")
}

func TestUpsertUser_SchedulesRefreshOnRelevantChange(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	body := `{"skills": ["go", "sql"], "city": "Berlin"}`
	rec, env := ts.do(t, http.MethodPut, "/api/v1/users/u7", body)
	expectStatus(t, rec, env, http.StatusOK, "")

	calls := ts.updates.submitted()
	if len(calls) != 1 {
		t.Fatalf("submit calls = %d, want 1", len(calls))
	}
	if calls[0].userID != "u7" || !slices.Equal(calls[0].fields, []string{"skills", "city"}) {
		t.Errorf("submit = %+v, want u7 [skills city]", calls[0])
	}

	// Same profile again: nothing changed, nothing scheduled.
	rec, env = ts.do(t, http.MethodPut, "/api/v1/users/u7", body)
	expectStatus(t, rec, env, http.StatusOK, "")
	if got := len(ts.updates.submitted()); got != 1 {
		t.Errorf("submit calls after identical upsert = %d, want 1", got)
	}
}

func TestUpsertUser_SaveFailure(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.catalog.writeErr = errors.New("disk full")

	rec, env := ts.do(t, http.MethodPut, "/api/v1/users/u7", `{"skills": ["go"]}`)
	expectStatus(t, rec, env, http.StatusInternalServerError, "INTERNAL_ERROR")
	if len(ts.updates.submitted()) != 0 {
		t.Error("no refresh should be scheduled when the profile was not saved")
	}
}

func TestChangedFields(t *testing.T) {
	t.Parallel()

	before := recommend.User{ID: "u", Skills: []string{"go"}, City: "Berlin", Country: "DE"}
	tests := []struct {
		name  string
		after recommend.User
		want  []string
	}{
		{name: "identical", after: before, want: nil},
		{name: "city case only", after: recommend.User{ID: "u", Skills: []string{"go"}, City: "berlin", Country: "DE"}, want: nil},
		{name: "skills and country", after: recommend.User{ID: "u", Skills: []string{"go", "k8s"}, City: "Berlin", Country: "AT"}, want: []string{"skills", "country"}},
		{name: "experience", after: recommend.User{ID: "u", Skills: []string{"go"}, City: "Berlin", Country: "DE", ExperienceList: []string{"acme"}}, want: []string{"experienceList"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := changedFields(before, tt.after)
			if !slices.Equal(got, tt.want) {
				t.Errorf("changedFields() = %v, want %v", got, tt.want)
			}
			if len(got) > 0 && !realtime.IsRelevant(got) {
				t.Errorf("changed fields %v are not recognized by the coordinator", got)
			}
		})
	}
}

func TestUpsertItem(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodPut, "/api/v1/items/job-1", `{"title": "Go Developer", "skills": ["go"], "status": "active"}`)
	expectStatus(t, rec, env, http.StatusOK, "")
	if _, ok := ts.catalog.items["job-1"]; !ok {
		t.Error("item was not stored")
	}

	rec, env = ts.do(t, http.MethodPut, "/api/v1/items/job-2", `{"title": "x", "status": "draft"}`)
	expectStatus(t, rec, env, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestLogInteraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "apply", body: `{"user_id": "u1", "item_id": "job-1", "action": "apply"}`, wantStatus: http.StatusCreated},
		{name: "mixed case action", body: `{"user_id": "u1", "item_id": "job-1", "action": "View", "duration": 12}`, wantStatus: http.StatusCreated},
		{name: "unknown action", body: `{"user_id": "u1", "item_id": "job-1", "action": "share"}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "missing item", body: `{"user_id": "u1", "action": "like"}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "negative duration", body: `{"user_id": "u1", "item_id": "job-1", "action": "view", "duration": -3}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t)
			rec, env := ts.do(t, http.MethodPost, "/api/v1/interactions", tt.body)
			expectStatus(t, rec, env, tt.wantStatus, tt.wantCode)
			if tt.wantCode != "" {
				return
			}
			var stored recommend.Interaction
			if err := json.Unmarshal(env.Data, &stored); err != nil {
				t.Fatalf("decode interaction: %v", err)
			}
			if stored.ID == "" || !stored.Action.Valid() {
				t.Errorf("stored interaction = %+v", stored)
			}
		})
	}
}

func TestSubmitProfileUpdate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		body          string
		submitErr     error
		wantStatus    int
		wantCode      string
		wantScheduled bool
	}{
		{name: "relevant", body: `{"user_id": "u1", "updated_fields": ["skills"]}`, wantStatus: http.StatusAccepted, wantScheduled: true},
		{name: "not relevant", body: `{"user_id": "u1", "updated_fields": ["avatar"]}`, wantStatus: http.StatusOK},
		{name: "queue full", body: `{"user_id": "u1", "updated_fields": ["city"]}`, submitErr: realtime.ErrQueueFull, wantStatus: http.StatusServiceUnavailable, wantCode: "QUEUE_FULL"},
		{name: "no fields", body: `{"user_id": "u1", "updated_fields": []}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "no user", body: `{"updated_fields": ["skills"]}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t)
			ts.updates.submitErr = tt.submitErr

			rec, env := ts.do(t, http.MethodPost, "/api/v1/profile-updates", tt.body)
			expectStatus(t, rec, env, tt.wantStatus, tt.wantCode)
			if tt.wantCode != "" {
				return
			}
			var data struct {
				Scheduled bool   `json:"scheduled"`
				TaskID    string `json:"task_id"`
			}
			if err := json.Unmarshal(env.Data, &data); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if data.Scheduled != tt.wantScheduled {
				t.Errorf("scheduled = %v, want %v", data.Scheduled, tt.wantScheduled)
			}
			if tt.wantScheduled && data.TaskID == "" {
				t.Error("scheduled update should carry a task id")
			}
		})
	}
}

func TestGetUpdateTask(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/update-tasks/u1", "")
	expectStatus(t, rec, env, http.StatusOK, "")
	var task realtime.Task
	if err := json.Unmarshal(env.Data, &task); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if task.Status != realtime.StatusCompleted || !task.WithinSLA {
		t.Errorf("task = %+v", task)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/update-tasks/u2", "")
	expectStatus(t, rec, env, http.StatusNotFound, "NOT_FOUND")

	rec, env = ts.do(t, http.MethodGet, "/api/v1/update-tasks", "")
	expectStatus(t, rec, env, http.StatusOK, "")
}

func TestTrainingEndpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		path       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "run", method: http.MethodPost, path: "/api/v1/training/runs", wantStatus: http.StatusOK},
		{name: "run in progress", method: http.MethodPost, path: "/api/v1/training/runs", err: training.ErrTrainingInProgress, wantStatus: http.StatusConflict, wantCode: "CONFLICT"},
		{name: "run without data", method: http.MethodPost, path: "/api/v1/training/runs", err: training.ErrNoTrainingData, wantStatus: http.StatusUnprocessableEntity, wantCode: "UNPROCESSABLE"},
		{name: "single", method: http.MethodPost, path: "/api/v1/training/models/content_based", wantStatus: http.StatusOK},
		{name: "single unknown", method: http.MethodPost, path: "/api/v1/training/models/neural", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "active", method: http.MethodGet, path: "/api/v1/models/hybrid/active", wantStatus: http.StatusOK},
		{name: "no active", method: http.MethodGet, path: "/api/v1/models/collaborative/active", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "list", method: http.MethodGet, path: "/api/v1/models/hybrid", wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t)
			ts.trainer.err = tt.err
			rec, env := ts.do(t, tt.method, tt.path, "")
			expectStatus(t, rec, env, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestListModels_Empty(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/models/collaborative", "")
	expectStatus(t, rec, env, http.StatusOK, "")
	var data struct {
		Models []training.ModelRecord `json:"models"`
		Count  int                    `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Models == nil || data.Count != 0 {
		t.Errorf("empty model list should be [] with count 0, got %+v", data)
	}
}

func TestCreateExperiment_ExplicitZeroSplit(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/experiments", `{"model_a": "content_based", "model_b": "hybrid", "split_ratio": 0}`)
	expectStatus(t, rec, env, http.StatusCreated, "")
	var exp experiment.Experiment
	if err := json.Unmarshal(env.Data, &exp); err != nil {
		t.Fatalf("decode experiment: %v", err)
	}
	if exp.Config.SplitRatio == nil || *exp.Config.SplitRatio != 0 {
		t.Fatalf("SplitRatio = %v, want explicit 0", exp.Config.SplitRatio)
	}

	_, env = ts.do(t, http.MethodGet, "/api/v1/experiments/"+exp.ID+"/assignment/u1", "")
	var assignment struct {
		Group string `json:"group"`
	}
	if err := json.Unmarshal(env.Data, &assignment); err != nil {
		t.Fatalf("decode assignment: %v", err)
	}
	if assignment.Group != string(experiment.GroupB) {
		t.Errorf("group = %q, want B", assignment.Group)
	}
}

func TestExperimentLifecycle(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/experiments", `{"name": "ranker", "model_a": "content_based", "model_b": "hybrid", "duration_days": 14}`)
	expectStatus(t, rec, env, http.StatusCreated, "")
	var exp experiment.Experiment
	if err := json.Unmarshal(env.Data, &exp); err != nil {
		t.Fatalf("decode experiment: %v", err)
	}
	if exp.ID == "" || exp.Config.SplitRatio == nil || *exp.Config.SplitRatio != experiment.DefaultSplitRatio {
		t.Fatalf("experiment = %+v", exp)
	}
	base := "/api/v1/experiments/" + exp.ID

	// Sticky assignment.
	_, env = ts.do(t, http.MethodGet, base+"/assignment/u1", "")
	var first struct {
		Group string `json:"group"`
		Model string `json:"model"`
	}
	if err := json.Unmarshal(env.Data, &first); err != nil {
		t.Fatalf("decode assignment: %v", err)
	}
	for i := 0; i < 5; i++ {
		_, env = ts.do(t, http.MethodGet, base+"/assignment/u1", "")
		var again struct {
			Group string `json:"group"`
		}
		_ = json.Unmarshal(env.Data, &again)
		if again.Group != first.Group {
			t.Fatalf("assignment changed from %s to %s", first.Group, again.Group)
		}
	}
	wantModel := map[string]string{"A": "content_based", "B": "hybrid"}[first.Group]
	if first.Model != wantModel {
		t.Errorf("model for group %s = %q, want %q", first.Group, first.Model, wantModel)
	}

	rec, env = ts.do(t, http.MethodPost, base+"/events", `{"user_id": "u1", "type": "impression"}`)
	expectStatus(t, rec, env, http.StatusAccepted, "")
	rec, env = ts.do(t, http.MethodPost, base+"/events", `{"user_id": "u1", "type": "purchase"}`)
	expectStatus(t, rec, env, http.StatusBadRequest, "VALIDATION_ERROR")

	rec, env = ts.do(t, http.MethodGet, base+"/analysis", "")
	expectStatus(t, rec, env, http.StatusOK, "")

	rec, env = ts.do(t, http.MethodGet, "/api/v1/experiments", "")
	expectStatus(t, rec, env, http.StatusOK, "")

	rec, env = ts.do(t, http.MethodPost, base+"/stop", "")
	expectStatus(t, rec, env, http.StatusOK, "")
	rec, env = ts.do(t, http.MethodPost, base+"/events", `{"user_id": "u1", "type": "click"}`)
	expectStatus(t, rec, env, http.StatusConflict, "CONFLICT")

	rec, env = ts.do(t, http.MethodGet, base, "")
	expectStatus(t, rec, env, http.StatusOK, "")
	var stopped experiment.Experiment
	_ = json.Unmarshal(env.Data, &stopped)
	if stopped.Status != experiment.StatusStopped {
		t.Errorf("status = %s, want stopped", stopped.Status)
	}
}

func TestExperimentErrors(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "same models", method: http.MethodPost, path: "/api/v1/experiments", body: `{"model_a": "hybrid", "model_b": "hybrid"}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "bad split", method: http.MethodPost, path: "/api/v1/experiments", body: `{"model_a": "a", "model_b": "b", "split_ratio": 1.5}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "unknown get", method: http.MethodGet, path: "/api/v1/experiments/missing", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "unknown assignment", method: http.MethodGet, path: "/api/v1/experiments/missing/assignment/u1", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "unknown analysis", method: http.MethodGet, path: "/api/v1/experiments/missing/analysis", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "unknown stop", method: http.MethodPost, path: "/api/v1/experiments/missing/stop", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, env := ts.do(t, tt.method, tt.path, tt.body)
			expectStatus(t, rec, env, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pingErr    error
		wantStatus string
	}{
		{name: "healthy", wantStatus: "healthy"},
		{name: "database down", pingErr: errors.New("closed"), wantStatus: "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t)
			ts.catalog.pingErr = tt.pingErr

			rec, env := ts.do(t, http.MethodGet, "/health", "")
			expectStatus(t, rec, env, http.StatusOK, "")
			var health HealthStatus
			if err := json.Unmarshal(env.Data, &health); err != nil {
				t.Fatalf("decode health: %v", err)
			}
			if health.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", health.Status, tt.wantStatus)
			}
			if health.UpdateQueueDepth != 2 {
				t.Errorf("queue depth = %d, want 2", health.UpdateQueueDepth)
			}
		})
	}
}

func TestUnavailableServices(t *testing.T) {
	t.Parallel()

	router := NewRouter(NewHandler(Deps{}, 0), nil)
	paths := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/users/u1/recommendations"},
		{http.MethodGet, "/api/v1/users/u1/recommendations"},
		{http.MethodPost, "/api/v1/profile-updates"},
		{http.MethodPost, "/api/v1/training/runs"},
		{http.MethodGet, "/api/v1/experiments"},
	}
	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s = %d, want 503", p.method, p.path, rec.Code)
		}
	}
}
