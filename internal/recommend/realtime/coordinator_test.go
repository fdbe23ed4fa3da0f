// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package realtime

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/jobrec/internal/recommend"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// recommenderFunc adapts a function to the Recommender interface.
type recommenderFunc func(ctx context.Context, req recommend.Request) (*recommend.Response, error)

func (f recommenderFunc) Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
	return f(ctx, req)
}

func okRecommender(items ...string) recommenderFunc {
	return func(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
		resp := &recommend.Response{UserID: req.UserID}
		for _, id := range items {
			resp.Recommendations = append(resp.Recommendations, recommend.Recommendation{ItemID: id, Score: 50})
		}
		return resp, nil
	}
}

func newTestCoordinator(rec Recommender, clock *fakeClock) *Coordinator {
	c := NewCoordinator(Config{Workers: 2}, rec, zerolog.Nop())
	if clock != nil {
		c.now = clock.Now
	}
	return c
}

// drain processes queued users on the calling goroutine.
func drain(c *Coordinator) {
	for {
		userID, ok := c.next()
		if !ok {
			return
		}
		c.process(context.Background(), userID)
	}
}

func TestIsRelevant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fields []string
		want   bool
	}{
		{[]string{"skills"}, true},
		{[]string{"Skills"}, true},
		{[]string{"skills.0.name"}, true},
		{[]string{"experienceList"}, true},
		{[]string{"lang"}, true},
		{[]string{"city"}, true},
		{[]string{"avatar", "country"}, true},
		{[]string{"avatar"}, false},
		{[]string{"phoneNumber", "email"}, false},
		{[]string{""}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsRelevant(tt.fields); got != tt.want {
			t.Errorf("IsRelevant(%v) = %v, want %v", tt.fields, got, tt.want)
		}
	}
}

func TestSubmit_Validation(t *testing.T) {
	t.Parallel()
	c := newTestCoordinator(okRecommender(), nil)

	if _, err := c.Submit("u1", []string{"avatar"}); !errors.Is(err, ErrNotRelevant) {
		t.Errorf("Submit(irrelevant) error = %v, want ErrNotRelevant", err)
	}
	if _, err := c.Submit("", []string{"skills"}); err == nil {
		t.Error("Submit with empty user should fail")
	}
	if _, ok := c.Task("u1"); ok {
		t.Error("irrelevant updates must not create tasks")
	}
}

func TestSubmit_Ticket(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	c := newTestCoordinator(okRecommender(), clock)

	ticket, err := c.Submit("u1", []string{"skills"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if ticket.TaskID == "" {
		t.Error("expected a task ID")
	}
	if want := clock.Now().Add(60 * time.Second); !ticket.ExpectedCompletionAt.Equal(want) {
		t.Errorf("ExpectedCompletionAt = %v, want %v", ticket.ExpectedCompletionAt, want)
	}

	task, ok := c.Task("u1")
	if !ok || task.Status != StatusPending {
		t.Fatalf("Task() = %+v, %v; want pending task", task, ok)
	}
}

func TestSubmit_CoalescesPending(t *testing.T) {
	t.Parallel()
	c := newTestCoordinator(okRecommender(), newFakeClock())

	first, _ := c.Submit("u1", []string{"skills", "city"})
	second, err := c.Submit("u1", []string{"city", "languages"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if first.TaskID != second.TaskID {
		t.Errorf("second submit created task %s, want coalesced into %s", second.TaskID, first.TaskID)
	}

	task, _ := c.Task("u1")
	if got := strings.Join(task.UpdatedFields, ","); got != "skills,city,languages" {
		t.Errorf("UpdatedFields = %s, want skills,city,languages", got)
	}
	if s := c.Stats(); s.Pending != 1 || s.QueueDepth != 1 {
		t.Errorf("Stats() = %+v, want one pending task queued once", s)
	}
}

func TestProcess_SLAReporting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		processing time.Duration
		want       bool
	}{
		{"well within", 1500 * time.Millisecond, true},
		{"just under", 59999 * time.Millisecond, true},
		{"exactly at", 60000 * time.Millisecond, true},
		{"just over", 60001 * time.Millisecond, false},
		{"far over", 5 * time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			clock := newFakeClock()
			rec := recommenderFunc(func(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
				clock.Advance(tt.processing)
				return &recommend.Response{UserID: req.UserID}, nil
			})
			c := newTestCoordinator(rec, clock)

			if _, err := c.Submit("u1", []string{"skills"}); err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			drain(c)

			task, _ := c.Task("u1")
			if task.Status != StatusCompleted {
				t.Fatalf("Status = %s, want completed", task.Status)
			}
			if task.ProcessingTimeMs != tt.processing.Milliseconds() {
				t.Errorf("ProcessingTimeMs = %d, want %d", task.ProcessingTimeMs, tt.processing.Milliseconds())
			}
			if task.WithinSLA != tt.want {
				t.Errorf("WithinSLA = %v, want %v", task.WithinSLA, tt.want)
			}
		})
	}
}

func TestProcess_RequestParameters(t *testing.T) {
	t.Parallel()

	var got recommend.Request
	rec := recommenderFunc(func(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
		got = req
		return okRecommender("j1", "j2", "j3", "j4", "j5", "j6")(ctx, req)
	})
	c := newTestCoordinator(rec, newFakeClock())

	_, _ = c.Submit("u7", []string{"skills"})
	drain(c)

	if got.UserID != "u7" || got.Limit != 20 || got.MinScore != 0.3 {
		t.Errorf("request = %+v, want user u7, limit 20, min score 0.3", got)
	}
	task, _ := c.Task("u7")
	if task.Result == nil || task.Result.RecommendationCount != 6 || len(task.Result.TopItemIDs) != 5 {
		t.Errorf("Result = %+v, want 6 recommendations and top 5 IDs", task.Result)
	}
}

func TestProcess_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rec     recommenderFunc
		wantErr string
	}{
		{
			name: "error",
			rec: func(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
				return nil, errors.New("matcher offline")
			},
			wantErr: "matcher offline",
		},
		{
			name: "panic",
			rec: func(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
				panic("nil map write")
			},
			wantErr: "panic during refresh",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestCoordinator(tt.rec, newFakeClock())
			_, _ = c.Submit("u1", []string{"skills"})
			drain(c)

			task, _ := c.Task("u1")
			if task.Status != StatusFailed {
				t.Fatalf("Status = %s, want failed", task.Status)
			}
			if !strings.Contains(task.Error, tt.wantErr) {
				t.Errorf("Error = %q, want it to contain %q", task.Error, tt.wantErr)
			}
			if s := c.Stats(); s.Failed != 1 {
				t.Errorf("Stats().Failed = %d, want 1", s.Failed)
			}
		})
	}
}

func TestSubmit_WhileProcessingQueuesFollowUp(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 4)
	var calls atomic.Int32
	rec := recommenderFunc(func(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
		if calls.Add(1) == 1 {
			started <- struct{}{}
			<-release
		}
		return &recommend.Response{UserID: req.UserID}, nil
	})
	c := newTestCoordinator(rec, newFakeClock())

	first, _ := c.Submit("u1", []string{"skills"})
	userID, ok := c.next()
	if !ok {
		t.Fatal("expected queued user")
	}
	done := make(chan struct{})
	go func() {
		c.process(context.Background(), userID)
		close(done)
	}()
	<-started

	second, err := c.Submit("u1", []string{"city"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if second.TaskID == first.TaskID {
		t.Error("update during processing must create a follow-up task")
	}
	third, _ := c.Submit("u1", []string{"country"})
	if third.TaskID != second.TaskID {
		t.Error("further updates must coalesce into the follow-up task")
	}
	if _, ok := c.next(); ok {
		t.Error("follow-up must not be runnable while the first task is processing")
	}

	close(release)
	<-done

	drain(c)
	task, _ := c.Task("u1")
	if task.ID != second.TaskID || task.Status != StatusCompleted {
		t.Errorf("Task() = %s/%s, want follow-up %s completed", task.ID, task.Status, second.TaskID)
	}
	if got := strings.Join(task.UpdatedFields, ","); got != "city,country" {
		t.Errorf("follow-up fields = %s, want city,country", got)
	}
	if calls.Load() != 2 {
		t.Errorf("recommender called %d times, want 2", calls.Load())
	}
}

func TestRun_PerUserExclusion(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		inFlight = make(map[string]int)
		overlap  atomic.Bool
		finished atomic.Int32
	)
	rec := recommenderFunc(func(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
		mu.Lock()
		inFlight[req.UserID]++
		if inFlight[req.UserID] > 1 {
			overlap.Store(true)
		}
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		inFlight[req.UserID]--
		mu.Unlock()
		finished.Add(1)
		return &recommend.Response{UserID: req.UserID}, nil
	})

	c := NewCoordinator(Config{Workers: 4}, rec, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- c.Run(ctx) }()

	users := []string{"u1", "u2", "u3"}
	for round := 0; round < 20; round++ {
		for _, u := range users {
			if _, err := c.Submit(u, []string{"skills"}); err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
		}
		time.Sleep(time.Millisecond)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		s := c.Stats()
		if s.Pending == 0 && s.Processing == 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	if err := <-runDone; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}

	if overlap.Load() {
		t.Error("two refreshes ran concurrently for the same user")
	}
	s := c.Stats()
	if s.Pending != 0 || s.Processing != 0 {
		t.Errorf("Stats() = %+v, want all tasks finished", s)
	}
	if s.Completed != len(users) {
		t.Errorf("Completed = %d, want %d", s.Completed, len(users))
	}
	if finished.Load() < int32(len(users)) {
		t.Errorf("finished %d refreshes, want at least %d", finished.Load(), len(users))
	}
}

func TestSubmit_QueueFull(t *testing.T) {
	t.Parallel()
	c := NewCoordinator(Config{Workers: 1, QueueSize: 2}, okRecommender(), zerolog.Nop())

	for _, u := range []string{"u1", "u2"} {
		if _, err := c.Submit(u, []string{"skills"}); err != nil {
			t.Fatalf("Submit(%s) error = %v", u, err)
		}
	}
	if _, err := c.Submit("u3", []string{"skills"}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Submit() error = %v, want ErrQueueFull", err)
	}
	// Coalescing into an existing task is still accepted.
	if _, err := c.Submit("u1", []string{"city"}); err != nil {
		t.Errorf("coalescing submit error = %v", err)
	}
	if _, ok := c.Task("u3"); ok {
		t.Error("rejected submit must not leave a task behind")
	}
}

func TestSweep(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	c := newTestCoordinator(okRecommender("j1"), clock)

	_, _ = c.Submit("u1", []string{"skills"})
	_, _ = c.Submit("u2", []string{"skills"})
	drain(c)
	_, _ = c.Submit("u3", []string{"skills"})

	if n := c.Sweep(clock.Now().Add(4 * time.Minute)); n != 0 {
		t.Errorf("Sweep() before retention removed %d, want 0", n)
	}
	if n := c.Sweep(clock.Now().Add(6 * time.Minute)); n != 2 {
		t.Errorf("Sweep() after retention removed %d, want 2", n)
	}
	if _, ok := c.Task("u1"); ok {
		t.Error("swept task should no longer be visible")
	}
	if task, ok := c.Task("u3"); !ok || task.Status != StatusPending {
		t.Error("pending tasks must survive a sweep")
	}
}

func TestStats_SLAHitRatio(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	durations := map[string]time.Duration{"u1": time.Second, "u2": 2 * time.Minute}
	rec := recommenderFunc(func(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
		clock.Advance(durations[req.UserID])
		return &recommend.Response{}, nil
	})
	c := newTestCoordinator(rec, clock)

	_, _ = c.Submit("u1", []string{"skills"})
	_, _ = c.Submit("u2", []string{"skills"})
	drain(c)

	s := c.Stats()
	if s.Processed != 2 || s.Completed != 2 {
		t.Errorf("Stats() = %+v, want 2 processed and completed", s)
	}
	if s.SLAHitRatio != 0.5 {
		t.Errorf("SLAHitRatio = %v, want 0.5", s.SLAHitRatio)
	}
}
