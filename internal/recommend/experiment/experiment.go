// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package experiment

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/jobrec/internal/metrics"
)

var (
	// ErrExperimentNotFound is returned for an unknown experiment ID.
	ErrExperimentNotFound = errors.New("experiment not found")

	// ErrExperimentStopped is returned when tracking events on a stopped
	// experiment.
	ErrExperimentStopped = errors.New("experiment stopped")
)

// Group is an experiment arm.
type Group string

const (
	GroupA Group = "A"
	GroupB Group = "B"
)

// Status is the lifecycle state of an experiment.
type Status string

const (
	StatusActive  Status = "active"
	StatusStopped Status = "stopped"
)

// EventType classifies a tracked event.
type EventType string

const (
	EventImpression EventType = "impression"
	EventClick      EventType = "click"
	EventConversion EventType = "conversion"
)

// DefaultSplitRatio is the share of users assigned to group A when a config
// leaves SplitRatio out.
const DefaultSplitRatio = 0.5

// Config describes a new experiment.
type Config struct {
	Name         string   `json:"name" validate:"max=200"`
	ModelA       string   `json:"model_a" validate:"required"`
	ModelB       string   `json:"model_b" validate:"required,nefield=ModelA"`
	SplitRatio   *float64 `json:"split_ratio,omitempty" validate:"omitempty,gte=0,lte=1"`
	DurationDays int      `json:"duration_days" validate:"gte=0,lte=365"`
	Metrics      []string `json:"metrics" validate:"dive,oneof=ctr conversion_rate engagement_time"`
}

// Event is one tracked interaction of an experiment participant.
type Event struct {
	Type              EventType `json:"type" validate:"required,oneof=impression click conversion"`
	EngagementSeconds float64   `json:"engagement_seconds" validate:"gte=0"`
}

// Participants counts assigned users per group.
type Participants struct {
	GroupA int `json:"group_a"`
	GroupB int `json:"group_b"`
}

// GroupResults are the raw counters and derived rates of one group.
type GroupResults struct {
	Participants      int     `json:"participants"`
	Impressions       int     `json:"impressions"`
	Clicks            int     `json:"clicks"`
	Conversions       int     `json:"conversions"`
	EngagementSeconds float64 `json:"engagement_seconds"`

	// CTR is clicks / impressions.
	CTR float64 `json:"ctr"`
	// ConversionRate is conversions / clicks.
	ConversionRate float64 `json:"conversion_rate"`
	// AvgEngagement is engagement seconds per participant.
	AvgEngagement float64 `json:"avg_engagement"`
}

func (g *GroupResults) derive() {
	g.CTR = ratio(float64(g.Clicks), float64(g.Impressions))
	g.ConversionRate = ratio(float64(g.Conversions), float64(g.Clicks))
	g.AvgEngagement = ratio(g.EngagementSeconds, float64(g.Participants))
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Results holds both groups' results.
type Results struct {
	GroupA GroupResults `json:"group_a"`
	GroupB GroupResults `json:"group_b"`
}

// Experiment is a snapshot of an experiment's state.
type Experiment struct {
	ID           string       `json:"id"`
	Config       Config       `json:"config"`
	Status       Status       `json:"status"`
	Participants Participants `json:"participants"`
	Results      Results      `json:"results"`
	CreatedAt    time.Time    `json:"created_at"`
	EndsAt       time.Time    `json:"ends_at"`
	StoppedAt    time.Time    `json:"stopped_at"`
}

// experiment is the live, mutex-guarded state.
type experiment struct {
	mu          sync.Mutex
	id          string
	cfg         Config
	status      Status
	createdAt   time.Time
	endsAt      time.Time
	stoppedAt   time.Time
	assignments map[string]Group
	results     map[Group]*GroupResults
}

func (e *experiment) snapshot() Experiment {
	a, b := *e.results[GroupA], *e.results[GroupB]
	a.derive()
	b.derive()
	cfg := e.cfg
	cfg.Metrics = slices.Clone(e.cfg.Metrics)
	split := *e.cfg.SplitRatio
	cfg.SplitRatio = &split
	return Experiment{
		ID:           e.id,
		Config:       cfg,
		Status:       e.status,
		Participants: Participants{GroupA: a.Participants, GroupB: b.Participants},
		Results:      Results{GroupA: a, GroupB: b},
		CreatedAt:    e.createdAt,
		EndsAt:       e.endsAt,
		StoppedAt:    e.stoppedAt,
	}
}

// Engine owns all experiments. It is safe for concurrent use.
type Engine struct {
	logger   zerolog.Logger
	validate *validator.Validate
	now      func() time.Time

	mu          sync.RWMutex
	experiments map[string]*experiment

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewEngine creates an experiment engine whose assignments are driven by seed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(seed int64, logger zerolog.Logger) *Engine {
	return &Engine{
		logger:      logger.With().Str("component", "experiment").Logger(),
		validate:    validator.New(),
		now:         time.Now,
		experiments: make(map[string]*experiment),
		rng:         rand.New(rand.NewSource(seed)), //nolint:gosec // bucketing, not security sensitive
	}
}

// Create validates cfg and starts a new experiment. An omitted SplitRatio
// defaults to DefaultSplitRatio; an explicit 0 sends everyone to group B.
//
//nolint:gocritic // Config passed by value for immutability
func (e *Engine) Create(ctx context.Context, cfg Config) (Experiment, error) {
	split := DefaultSplitRatio
	if cfg.SplitRatio != nil {
		split = *cfg.SplitRatio
	}
	cfg.SplitRatio = &split
	if err := e.validate.StructCtx(ctx, cfg); err != nil {
		return Experiment{}, fmt.Errorf("invalid experiment config: %w", err)
	}
	if len(cfg.Metrics) == 0 {
		cfg.Metrics = []string{"ctr", "conversion_rate", "engagement_time"}
	}

	now := e.now()
	exp := &experiment{
		id:          uuid.NewString(),
		cfg:         cfg,
		status:      StatusActive,
		createdAt:   now,
		assignments: make(map[string]Group),
		results:     map[Group]*GroupResults{GroupA: {}, GroupB: {}},
	}
	if cfg.DurationDays > 0 {
		exp.endsAt = now.AddDate(0, 0, cfg.DurationDays)
	}

	e.mu.Lock()
	e.experiments[exp.id] = exp
	e.mu.Unlock()

	e.logger.Info().
		Str("experiment_id", exp.id).
		Str("model_a", cfg.ModelA).
		Str("model_b", cfg.ModelB).
		Float64("split_ratio", *cfg.SplitRatio).
		Msg("Experiment created")

	exp.mu.Lock()
	defer exp.mu.Unlock()
	return exp.snapshot(), nil
}

func (e *Engine) get(expID string) (*experiment, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	exp, ok := e.experiments[expID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrExperimentNotFound, expID)
	}
	return exp, nil
}

// Assign returns the group of userID, assigning one on first touch. The
// check and the assignment happen under the experiment lock, so concurrent
// first touches agree. Stopped experiments return existing assignments and
// still assign newcomers so callers always get a model to serve.
func (e *Engine) Assign(expID, userID string) (Group, error) {
	exp, err := e.get(expID)
	if err != nil {
		return "", err
	}

	exp.mu.Lock()
	defer exp.mu.Unlock()

	if g, ok := exp.assignments[userID]; ok {
		return g, nil
	}

	g := GroupB
	if e.draw() < *exp.cfg.SplitRatio {
		g = GroupA
	}
	exp.assignments[userID] = g
	exp.results[g].Participants++
	metrics.ExperimentAssignments.WithLabelValues(string(g)).Inc()
	return g, nil
}

func (e *Engine) draw() float64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64()
}

// ModelFor returns the model a user should be served in an experiment.
func (e *Engine) ModelFor(expID, userID string) (string, Group, error) {
	g, err := e.Assign(expID, userID)
	if err != nil {
		return "", "", err
	}
	exp, _ := e.get(expID)
	exp.mu.Lock()
	defer exp.mu.Unlock()
	if g == GroupA {
		return exp.cfg.ModelA, g, nil
	}
	return exp.cfg.ModelB, g, nil
}

// Track attributes an event to the group of userID, assigning the user
// first if needed.
func (e *Engine) Track(ctx context.Context, expID, userID string, ev Event) error {
	if err := e.validate.StructCtx(ctx, ev); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}
	exp, err := e.get(expID)
	if err != nil {
		return err
	}

	exp.mu.Lock()
	stopped := exp.status == StatusStopped
	exp.mu.Unlock()
	if stopped {
		return fmt.Errorf("%w: %s", ErrExperimentStopped, expID)
	}

	g, err := e.Assign(expID, userID)
	if err != nil {
		return err
	}

	exp.mu.Lock()
	defer exp.mu.Unlock()
	if exp.status == StatusStopped {
		return fmt.Errorf("%w: %s", ErrExperimentStopped, expID)
	}
	r := exp.results[g]
	switch ev.Type {
	case EventImpression:
		r.Impressions++
	case EventClick:
		r.Clicks++
	case EventConversion:
		r.Conversions++
	}
	r.EngagementSeconds += ev.EngagementSeconds
	metrics.ExperimentEvents.WithLabelValues(string(g), string(ev.Type)).Inc()
	return nil
}

// Get returns a snapshot of an experiment.
func (e *Engine) Get(expID string) (Experiment, error) {
	exp, err := e.get(expID)
	if err != nil {
		return Experiment{}, err
	}
	exp.mu.Lock()
	defer exp.mu.Unlock()
	return exp.snapshot(), nil
}

// Results returns both groups' counters and derived rates.
func (e *Engine) Results(expID string) (Results, error) {
	snap, err := e.Get(expID)
	if err != nil {
		return Results{}, err
	}
	return snap.Results, nil
}

// Stop ends an experiment. Stopping twice is a no-op.
func (e *Engine) Stop(expID string) (Experiment, error) {
	exp, err := e.get(expID)
	if err != nil {
		return Experiment{}, err
	}
	exp.mu.Lock()
	defer exp.mu.Unlock()
	if exp.status != StatusStopped {
		exp.status = StatusStopped
		exp.stoppedAt = e.now()
		e.logger.Info().Str("experiment_id", expID).Msg("Experiment stopped")
	}
	return exp.snapshot(), nil
}

// List returns snapshots of all experiments, oldest first.
func (e *Engine) List() []Experiment {
	e.mu.RLock()
	exps := make([]*experiment, 0, len(e.experiments))
	for _, exp := range e.experiments {
		exps = append(exps, exp)
	}
	e.mu.RUnlock()

	out := make([]Experiment, 0, len(exps))
	for _, exp := range exps {
		exp.mu.Lock()
		out = append(out, exp.snapshot())
		exp.mu.Unlock()
	}
	slices.SortFunc(out, func(a, b Experiment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// StopExpired stops active experiments whose end time has passed and returns
// how many were stopped.
func (e *Engine) StopExpired(now time.Time) int {
	stopped := 0
	for _, snap := range e.List() {
		if snap.Status == StatusActive && !snap.EndsAt.IsZero() && !now.Before(snap.EndsAt) {
			if _, err := e.Stop(snap.ID); err == nil {
				stopped++
			}
		}
	}
	return stopped
}
