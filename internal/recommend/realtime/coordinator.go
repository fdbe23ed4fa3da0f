// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package realtime

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/jobrec/internal/metrics"
	"github.com/tomtom215/jobrec/internal/recommend"
)

var (
	// ErrNotRelevant is returned by Submit when none of the updated fields
	// affect recommendations. Callers may ignore it.
	ErrNotRelevant = errors.New("profile update does not affect recommendations")

	// ErrQueueFull is returned by Submit when the ready queue is at capacity.
	ErrQueueFull = errors.New("update queue is full")
)

// relevantFields are the profile fields that feed the content matcher.
var relevantFields = []string{
	"skills",
	"experiencelist",
	"educationlist",
	"traininglist",
	"languages",
	"specialization",
	"interests",
	"city",
	"country",
	"location",
}

// IsRelevant reports whether any updated field relates to a matching field.
// A field matches when either name contains the other, ignoring case, so
// "skills.0" and "city" both count.
func IsRelevant(fields []string) bool {
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		for _, r := range relevantFields {
			if strings.Contains(f, r) || strings.Contains(r, f) {
				return true
			}
		}
	}
	return false
}

// Status is the lifecycle state of an update task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether s is completed or failed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Result summarizes a successful recommendation refresh.
type Result struct {
	RecommendationCount int      `json:"recommendation_count"`
	TopItemIDs          []string `json:"top_item_ids"`
}

// Task is a recommendation refresh for one user.
type Task struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	UpdatedFields    []string  `json:"updated_fields"`
	EnqueuedAt       time.Time `json:"enqueued_at"`
	StartedAt        time.Time `json:"started_at"`
	CompletedAt      time.Time `json:"completed_at"`
	Status           Status    `json:"status"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	WithinSLA        bool      `json:"within_sla"`
	Result           *Result   `json:"result,omitempty"`
	Error            string    `json:"error,omitempty"`
}

func (t *Task) clone() Task {
	c := *t
	c.UpdatedFields = slices.Clone(t.UpdatedFields)
	if t.Result != nil {
		r := *t.Result
		r.TopItemIDs = slices.Clone(t.Result.TopItemIDs)
		c.Result = &r
	}
	return c
}

// Ticket acknowledges a submitted update.
type Ticket struct {
	TaskID               string    `json:"task_id"`
	ExpectedCompletionAt time.Time `json:"expected_completion_at"`
}

// Stats is a point-in-time view of the coordinator.
type Stats struct {
	Pending     int     `json:"pending"`
	Processing  int     `json:"processing"`
	Completed   int     `json:"completed"`
	Failed      int     `json:"failed"`
	QueueDepth  int     `json:"queue_depth"`
	Processed   int64   `json:"processed"`
	SLAHitRatio float64 `json:"sla_hit_ratio"`
}

// Recommender regenerates recommendations for a user.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// Config configures a Coordinator.
type Config struct {
	// Workers is the number of concurrent refreshes. Default: 4.
	Workers int
	// QueueSize caps the number of users waiting for a worker. Default: 1000.
	QueueSize int
	// SLA is the processing-time target. Default: 60s.
	SLA time.Duration
	// Retention is how long finished tasks stay visible. Default: 5m.
	Retention time.Duration
	// MinScore is the score floor for refreshed recommendations. Default: 0.3.
	MinScore float64
	// Limit is the number of recommendations generated. Default: 20.
	Limit int
}

// DefaultConfig returns the production coordinator settings.
func DefaultConfig() Config {
	return Config{
		Workers:   4,
		QueueSize: 1000,
		SLA:       60 * time.Second,
		Retention: 5 * time.Minute,
		MinScore:  0.3,
		Limit:     20,
	}
}

// userState holds at most one waiting and one running task for a user.
type userState struct {
	pending *Task
	running *Task
	last    *Task
	queued  bool
}

// Coordinator schedules per-user recommendation refreshes.
type Coordinator struct {
	cfg    Config
	rec    Recommender
	logger zerolog.Logger
	now    func() time.Time

	mu        sync.Mutex
	users     map[string]*userState
	queue     *userQueue
	processed int64
	withinSLA int64
	wake      chan struct{}
}

// NewCoordinator creates a coordinator. Zero config fields take defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCoordinator(cfg Config, rec Recommender, logger zerolog.Logger) *Coordinator {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.SLA <= 0 {
		cfg.SLA = def.SLA
	}
	if cfg.Retention <= 0 {
		cfg.Retention = def.Retention
	}
	if cfg.Limit <= 0 {
		cfg.Limit = def.Limit
	}
	// Follow-up tasks re-enter the queue without the size check, at most one
	// per worker.
	return &Coordinator{
		cfg:    cfg,
		rec:    rec,
		logger: logger.With().Str("component", "realtime").Logger(),
		now:    time.Now,
		users:  make(map[string]*userState),
		queue:  newUserQueue(cfg.QueueSize + cfg.Workers),
		wake:   make(chan struct{}, cfg.Workers),
	}
}

// Submit schedules a refresh for userID. It never blocks on the refresh.
//
// If the user already has a pending task the fields are merged into it and
// its ticket is returned. If the user's task is running, a new pending task
// is queued behind it.
func (c *Coordinator) Submit(userID string, fields []string) (Ticket, error) {
	if userID == "" {
		return Ticket{}, errors.New("user id is required")
	}
	if !IsRelevant(fields) {
		return Ticket{}, ErrNotRelevant
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.users[userID]
	if !ok {
		st = &userState{}
		c.users[userID] = st
	}

	if st.pending != nil {
		st.pending.UpdatedFields = mergeFields(st.pending.UpdatedFields, fields)
		metrics.UpdateTasks.WithLabelValues("coalesced").Inc()
		c.logger.Debug().
			Str("user_id", userID).
			Str("task_id", st.pending.ID).
			Strs("fields", st.pending.UpdatedFields).
			Msg("Coalesced profile update into pending task")
		return c.ticket(st.pending), nil
	}

	needsQueue := st.running == nil && !st.queued
	if needsQueue && c.queue.Len() >= c.cfg.QueueSize {
		if !ok {
			delete(c.users, userID)
		}
		return Ticket{}, ErrQueueFull
	}

	t := &Task{
		ID:            uuid.NewString(),
		UserID:        userID,
		UpdatedFields: mergeFields(nil, fields),
		EnqueuedAt:    c.now(),
		Status:        StatusPending,
	}
	st.pending = t
	if needsQueue {
		c.enqueueLocked(userID, st)
	}
	metrics.UpdateTasks.WithLabelValues("submitted").Inc()

	c.logger.Debug().
		Str("user_id", userID).
		Str("task_id", t.ID).
		Strs("fields", t.UpdatedFields).
		Bool("behind_running", st.running != nil).
		Msg("Profile update task submitted")

	return c.ticket(t), nil
}

func (c *Coordinator) ticket(t *Task) Ticket {
	return Ticket{TaskID: t.ID, ExpectedCompletionAt: t.EnqueuedAt.Add(c.cfg.SLA)}
}

func (c *Coordinator) enqueueLocked(userID string, st *userState) {
	st.queued = true
	c.queue.Push(userID)
	metrics.UpdateQueueDepth.Set(float64(c.queue.Len()))
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// mergeFields appends the fields of add missing from base, keeping
// first-seen order.
func mergeFields(base, add []string) []string {
	out := slices.Clone(base)
	for _, f := range add {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// Run drives the worker pool until ctx is cancelled. In-flight refreshes are
// allowed to finish; Run returns after all workers have stopped.
func (c *Coordinator) Run(ctx context.Context) error {
	c.logger.Info().Int("workers", c.cfg.Workers).Msg("Update coordinator started")

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.worker(ctx)
		}()
	}
	wg.Wait()

	c.logger.Info().Msg("Update coordinator stopped")
	return ctx.Err()
}

func (c *Coordinator) worker(ctx context.Context) {
	for {
		for {
			if ctx.Err() != nil {
				return
			}
			userID, ok := c.next()
			if !ok {
				break
			}
			c.process(ctx, userID)
		}

		select {
		case <-ctx.Done():
			return
		case <-c.wake:
		}
	}
}

// next pops the next user and moves its pending task to processing.
func (c *Coordinator) next() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		userID, ok := c.queue.Pop()
		if !ok {
			return "", false
		}
		metrics.UpdateQueueDepth.Set(float64(c.queue.Len()))

		st, ok := c.users[userID]
		if !ok {
			continue
		}
		st.queued = false
		if st.pending == nil || st.running != nil {
			continue
		}
		st.running = st.pending
		st.pending = nil
		st.running.Status = StatusProcessing
		st.running.StartedAt = c.now()
		return userID, true
	}
}

func (c *Coordinator) process(ctx context.Context, userID string) {
	c.mu.Lock()
	task := c.users[userID].running
	c.mu.Unlock()

	// Refreshes outlive the submitter and shutdown alike.
	resp, err := c.refresh(context.WithoutCancel(ctx), userID)

	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.users[userID]
	task.CompletedAt = c.now()
	elapsed := task.CompletedAt.Sub(task.StartedAt)
	task.ProcessingTimeMs = elapsed.Milliseconds()
	task.WithinSLA = task.ProcessingTimeMs <= c.cfg.SLA.Milliseconds()

	log := c.logger.Info()
	if err != nil {
		task.Status = StatusFailed
		task.Error = err.Error()
		log = c.logger.Warn().Err(err)
	} else {
		task.Status = StatusCompleted
		task.Result = summarize(resp)
	}

	c.processed++
	if task.WithinSLA {
		c.withinSLA++
	}
	metrics.RecordUpdateTask(err == nil, elapsed, task.WithinSLA)

	log.Str("user_id", userID).
		Str("task_id", task.ID).
		Str("status", string(task.Status)).
		Int64("processing_ms", task.ProcessingTimeMs).
		Bool("within_sla", task.WithinSLA).
		Msg("Recommendation refresh finished")

	st.last = task
	st.running = nil
	if st.pending != nil && !st.queued {
		c.enqueueLocked(userID, st)
	}
}

func (c *Coordinator) refresh(ctx context.Context, userID string) (resp *recommend.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during refresh: %v", r)
		}
	}()
	resp, err = c.rec.Recommend(ctx, recommend.Request{
		UserID:   userID,
		Limit:    c.cfg.Limit,
		MinScore: c.cfg.MinScore,
	})
	if err != nil {
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}
	return resp, nil
}

func summarize(resp *recommend.Response) *Result {
	r := &Result{}
	if resp == nil {
		return r
	}
	r.RecommendationCount = len(resp.Recommendations)
	for i := range resp.Recommendations {
		if i == 5 {
			break
		}
		r.TopItemIDs = append(r.TopItemIDs, resp.Recommendations[i].ItemID)
	}
	return r
}

// Task returns the most recent task of userID: the pending one if any, else
// the running one, else the last finished one still retained.
func (c *Coordinator) Task(userID string) (Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.users[userID]
	if !ok {
		return Task{}, false
	}
	for _, t := range []*Task{st.pending, st.running, st.last} {
		if t != nil {
			return t.clone(), true
		}
	}
	return Task{}, false
}

// Sweep removes finished tasks that completed more than the retention period
// before now and returns how many were removed.
func (c *Coordinator) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for userID, st := range c.users {
		if st.last != nil && now.Sub(st.last.CompletedAt) > c.cfg.Retention {
			st.last = nil
			removed++
		}
		if st.pending == nil && st.running == nil && st.last == nil && !st.queued {
			delete(c.users, userID)
		}
	}
	if removed > 0 {
		c.logger.Debug().Int("removed", removed).Msg("Swept finished update tasks")
	}
	return removed
}

// Stats returns task counts and the SLA hit ratio of all processed tasks.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{QueueDepth: c.queue.Len(), Processed: c.processed}
	for _, st := range c.users {
		if st.pending != nil {
			s.Pending++
		}
		if st.running != nil {
			s.Processing++
		}
		if st.last != nil {
			switch st.last.Status {
			case StatusCompleted:
				s.Completed++
			case StatusFailed:
				s.Failed++
			}
		}
	}
	if c.processed > 0 {
		s.SLAHitRatio = float64(c.withinSLA) / float64(c.processed)
	}
	return s
}

// SLA returns the configured processing-time target.
func (c *Coordinator) SLA() time.Duration { return c.cfg.SLA }
