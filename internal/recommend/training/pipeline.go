// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package training

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/jobrec/internal/metrics"
	"github.com/tomtom215/jobrec/internal/recommend"
)

// ErrTrainingInProgress is returned when a run is started while another is
// still executing.
var ErrTrainingInProgress = errors.New("training already in progress")

// Config configures a Pipeline.
type Config struct {
	// ItemType restricts samples to one item kind. Default: "job".
	ItemType string
	// MinInteractions is the activity a user needs to contribute samples.
	// Default: 5.
	MinInteractions int
	// TestSize is the held-out share. Default: 0.2.
	TestSize float64
	// Seed drives the split shuffle. Default: 42.
	Seed int64
	// Threshold is the decision threshold. Default: 0.5.
	Threshold float64
}

// DefaultConfig returns the production pipeline settings.
func DefaultConfig() Config {
	return Config{
		ItemType:        "job",
		MinInteractions: 5,
		TestSize:        0.2,
		Seed:            42,
		Threshold:       DefaultThreshold,
	}
}

// Evaluation is the scored outcome of one strategy.
type Evaluation struct {
	ModelType          string  `json:"model_type"`
	Metrics            Metrics `json:"metrics"`
	PredictionFailures int     `json:"prediction_failures"`
}

// RunResult summarizes a full training run.
type RunResult struct {
	Version     string        `json:"version"`
	BestModel   string        `json:"best_model"`
	Evaluations []Evaluation  `json:"evaluations"`
	TrainSize   int           `json:"train_size"`
	TestSize    int           `json:"test_size"`
	Duration    time.Duration `json:"duration"`
}

// Pipeline collects samples, evaluates registered predictors and records
// the winner.
type Pipeline struct {
	cfg          Config
	interactions recommend.InteractionStore
	users        recommend.UserStore
	items        recommend.ItemStore
	registry     *Registry
	models       ModelStore
	logger       zerolog.Logger
	now          func() time.Time

	// runMu serializes runs; TryLock rejects overlapping ones.
	runMu sync.Mutex
}

// Stores groups the data sources a pipeline reads from.
type Stores struct {
	Interactions recommend.InteractionStore
	Users        recommend.UserStore
	Items        recommend.ItemStore
	Models       ModelStore
}

// NewPipeline creates a training pipeline.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPipeline(cfg Config, stores Stores, registry *Registry, logger zerolog.Logger) *Pipeline {
	def := DefaultConfig()
	if cfg.ItemType == "" {
		cfg.ItemType = def.ItemType
	}
	if cfg.MinInteractions <= 0 {
		cfg.MinInteractions = def.MinInteractions
	}
	if cfg.TestSize <= 0 || cfg.TestSize >= 1 {
		cfg.TestSize = def.TestSize
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	return &Pipeline{
		cfg:          cfg,
		interactions: stores.Interactions,
		users:        stores.Users,
		items:        stores.Items,
		models:       stores.Models,
		registry:     registry,
		logger:       logger.With().Str("component", "training").Logger(),
		now:          time.Now,
	}
}

// CollectSamples returns one labelled sample per interaction of every user
// with at least MinInteractions interactions, joined with item details.
// Interactions on items that no longer exist are skipped.
func (p *Pipeline) CollectSamples(ctx context.Context) ([]Sample, error) {
	all, err := p.interactions.ListInteractions(ctx, recommend.InteractionFilter{ItemType: p.cfg.ItemType})
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}

	perUser := make(map[string]int)
	for i := range all {
		perUser[all[i].UserID]++
	}

	var eligible []recommend.Interaction
	itemIDs := make(map[string]struct{})
	for i := range all {
		if perUser[all[i].UserID] >= p.cfg.MinInteractions {
			eligible = append(eligible, all[i])
			itemIDs[all[i].ItemID] = struct{}{}
		}
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(itemIDs))
	for id := range itemIDs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	items, err := p.items.ItemsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	samples := make([]Sample, 0, len(eligible))
	for i := range eligible {
		in := &eligible[i]
		item, ok := items[in.ItemID]
		if !ok {
			continue
		}
		samples = append(samples, Sample{
			UserID: in.UserID,
			ItemID: in.ItemID,
			Action: in.Action,
			Label:  LabelFor(in.Action),
			Features: Features{
				Title:  item.Title,
				Skills: item.Skills,
				City:   item.City,
			},
		})
	}
	return samples, nil
}

// TrainAll evaluates every registered strategy, stores one record per
// strategy and activates the one with the best F1.
func (p *Pipeline) TrainAll(ctx context.Context) (*RunResult, error) {
	if !p.runMu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer p.runMu.Unlock()

	start := p.now()
	result, err := p.trainAll(ctx)
	metrics.RecordTrainingRun(p.now().Sub(start), err)
	if err != nil {
		p.logger.Error().Err(err).Msg("Training run failed")
		return nil, err
	}
	result.Duration = p.now().Sub(start)

	p.logger.Info().
		Str("version", result.Version).
		Str("best_model", result.BestModel).
		Int("train_size", result.TrainSize).
		Int("test_size", result.TestSize).
		Dur("duration", result.Duration).
		Msg("Training run completed")
	return result, nil
}

func (p *Pipeline) trainAll(ctx context.Context) (*RunResult, error) {
	names := p.registry.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no predictors registered", ErrUnknownModel)
	}

	train, test, err := p.prepare(ctx)
	if err != nil {
		return nil, err
	}

	evals := make([]Evaluation, 0, len(names))
	for _, name := range names {
		ev, err := p.evaluate(ctx, name, test)
		if err != nil {
			return nil, err
		}
		evals = append(evals, ev)
	}

	ranked := slices.Clone(evals)
	slices.SortStableFunc(ranked, func(a, b Evaluation) int {
		return cmp.Compare(b.Metrics.F1, a.Metrics.F1)
	})
	best := ranked[0].ModelType

	trainedAt := p.now()
	version := strconv.FormatInt(trainedAt.UnixMilli(), 10)
	for _, ev := range evals {
		rec := ModelRecord{
			ModelType:          ev.ModelType,
			Version:            version,
			Metrics:            ev.Metrics,
			TrainedAt:          trainedAt,
			TrainSize:          len(train),
			TestSize:           len(test),
			PredictionFailures: ev.PredictionFailures,
		}
		if err := p.models.SaveModel(ctx, rec); err != nil {
			return nil, fmt.Errorf("save %s model: %w", ev.ModelType, err)
		}
	}
	if err := p.models.ActivateModel(ctx, best, version); err != nil {
		return nil, fmt.Errorf("activate %s model: %w", best, err)
	}

	return &RunResult{
		Version:     version,
		BestModel:   best,
		Evaluations: evals,
		TrainSize:   len(train),
		TestSize:    len(test),
	}, nil
}

// TrainSingle evaluates one strategy, stores its record and activates it.
func (p *Pipeline) TrainSingle(ctx context.Context, modelType string) (ModelRecord, error) {
	if _, ok := p.registry.Get(modelType); !ok {
		return ModelRecord{}, fmt.Errorf("%w: %s", ErrUnknownModel, modelType)
	}
	if !p.runMu.TryLock() {
		return ModelRecord{}, ErrTrainingInProgress
	}
	defer p.runMu.Unlock()

	start := p.now()
	rec, err := p.trainSingle(ctx, modelType)
	metrics.RecordTrainingRun(p.now().Sub(start), err)
	if err != nil {
		p.logger.Error().Err(err).Str("model_type", modelType).Msg("Single-model training failed")
		return ModelRecord{}, err
	}

	p.logger.Info().
		Str("model_type", modelType).
		Str("version", rec.Version).
		Float64("f1", rec.Metrics.F1).
		Msg("Single-model training completed")
	return rec, nil
}

func (p *Pipeline) trainSingle(ctx context.Context, modelType string) (ModelRecord, error) {
	train, test, err := p.prepare(ctx)
	if err != nil {
		return ModelRecord{}, err
	}
	ev, err := p.evaluate(ctx, modelType, test)
	if err != nil {
		return ModelRecord{}, err
	}

	trainedAt := p.now()
	rec := ModelRecord{
		ModelType:          modelType,
		Version:            strconv.FormatInt(trainedAt.UnixMilli(), 10),
		Metrics:            ev.Metrics,
		TrainedAt:          trainedAt,
		TrainSize:          len(train),
		TestSize:           len(test),
		PredictionFailures: ev.PredictionFailures,
	}
	if err := p.models.SaveModel(ctx, rec); err != nil {
		return ModelRecord{}, fmt.Errorf("save %s model: %w", modelType, err)
	}
	if err := p.models.ActivateModel(ctx, modelType, rec.Version); err != nil {
		return ModelRecord{}, fmt.Errorf("activate %s model: %w", modelType, err)
	}
	rec.Active = true
	return rec, nil
}

// ActiveModel returns the active record for modelType.
func (p *Pipeline) ActiveModel(ctx context.Context, modelType string) (ModelRecord, error) {
	if _, ok := p.registry.Get(modelType); !ok {
		return ModelRecord{}, fmt.Errorf("%w: %s", ErrUnknownModel, modelType)
	}
	return p.models.ActiveModel(ctx, modelType)
}

func (p *Pipeline) prepare(ctx context.Context) (train, test []Sample, err error) {
	samples, err := p.CollectSamples(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, ErrNoTrainingData
	}
	train, test = Split(samples, p.cfg.TestSize, p.cfg.Seed)
	p.logger.Debug().
		Int("samples", len(samples)).
		Int("train", len(train)).
		Int("test", len(test)).
		Msg("Samples collected")
	return train, test, nil
}

// evaluate scores test samples with one predictor. A sample whose user or
// item cannot be loaded, or whose prediction fails, scores 0.
func (p *Pipeline) evaluate(ctx context.Context, modelType string, test []Sample) (Evaluation, error) {
	predictor, ok := p.registry.Get(modelType)
	if !ok {
		return Evaluation{}, fmt.Errorf("%w: %s", ErrUnknownModel, modelType)
	}

	itemIDs := make([]string, 0, len(test))
	for i := range test {
		itemIDs = append(itemIDs, test[i].ItemID)
	}
	items, err := p.items.ItemsByID(ctx, itemIDs)
	if err != nil {
		return Evaluation{}, fmt.Errorf("load items: %w", err)
	}

	users := make(map[string]*recommend.User)
	failures := 0
	preds := make([]Prediction, 0, len(test))
	for i := range test {
		s := &test[i]
		score, err := p.predict(ctx, predictor, users, items, s)
		if err != nil {
			failures++
			metrics.PredictionFailures.WithLabelValues(modelType).Inc()
			p.logger.Debug().Err(err).
				Str("model_type", modelType).
				Str("user_id", s.UserID).
				Str("item_id", s.ItemID).
				Msg("Prediction failed, scoring 0")
			score = 0
		}
		preds = append(preds, Prediction{UserID: s.UserID, Score: score, Label: s.Label})
	}

	m := Evaluate(preds, p.cfg.Threshold)
	metrics.ModelF1.WithLabelValues(modelType).Set(m.F1)
	return Evaluation{ModelType: modelType, Metrics: m, PredictionFailures: failures}, nil
}

func (p *Pipeline) predict(ctx context.Context, predictor Predictor, users map[string]*recommend.User, items map[string]recommend.Item, s *Sample) (float64, error) {
	user, ok := users[s.UserID]
	if !ok {
		u, err := p.users.GetUser(ctx, s.UserID)
		if err != nil {
			users[s.UserID] = nil
			return 0, fmt.Errorf("get user: %w", err)
		}
		user = &u
		users[s.UserID] = user
	}
	if user == nil {
		return 0, recommend.ErrUserNotFound
	}
	item, ok := items[s.ItemID]
	if !ok {
		return 0, fmt.Errorf("item %s not found", s.ItemID)
	}
	return predictor.Predict(ctx, *user, item)
}
