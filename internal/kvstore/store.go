// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package kvstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/jobrec/internal/config"
)

// ErrNotFound is returned when a key is missing or has expired.
var ErrNotFound = errors.New("not found")

// DefaultRecommendationTTL is how long saved recommendations stay readable.
const DefaultRecommendationTTL = 7 * 24 * time.Hour

// Store wraps a BadgerDB instance.
type Store struct {
	db     *badger.DB
	ttl    time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// Open opens (or creates) the Badger database described by cfg.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(cfg *config.KVConfig, logger zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	ttl := cfg.RecommendationTTL
	if ttl <= 0 {
		ttl = DefaultRecommendationTTL
	}
	return New(db, ttl, logger), nil
}

// New wraps an already opened database.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(db *badger.DB, ttl time.Duration, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		ttl:    ttl,
		logger: logger.With().Str("component", "kvstore").Logger(),
		now:    time.Now,
	}
}

// RunGC reclaims value log space. It returns nil when there was nothing to
// collect.
func (s *Store) RunGC() error {
	collected := 0
	for {
		err := s.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			break
		}
		if err != nil {
			return fmt.Errorf("value log gc: %w", err)
		}
		collected++
	}
	if collected > 0 {
		s.logger.Debug().Int("rewrites", collected).Msg("Value log GC completed")
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
