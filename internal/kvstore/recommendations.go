// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/jobrec/internal/recommend"
)

const recsKeyPrefix = "recs:"

// Snapshot is the persisted recommendation list of a user.
type Snapshot struct {
	UserID          string                     `json:"user_id"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	GeneratedAt     time.Time                  `json:"generated_at"`
	ExpiresAt       time.Time                  `json:"expires_at"`
}

// Save replaces the stored recommendations of userID. The entry expires
// after the configured TTL.
func (s *Store) Save(_ context.Context, userID string, recs []recommend.Recommendation) error {
	if userID == "" {
		return errors.New("user id is required")
	}
	now := s.now()
	snap := Snapshot{
		UserID:          userID,
		Recommendations: recs,
		GeneratedAt:     now,
		ExpiresAt:       now.Add(s.ttl),
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(recsKeyPrefix+userID), data).WithTTL(s.ttl)
		if err := txn.SetEntry(e); err != nil {
			return fmt.Errorf("set recommendations: %w", err)
		}
		return nil
	})
}

// LoadRecommendations returns the stored snapshot of userID or ErrNotFound.
func (s *Store) LoadRecommendations(_ context.Context, userID string) (Snapshot, error) {
	var snap Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(recsKeyPrefix + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: recommendations for %s", ErrNotFound, userID)
		}
		if err != nil {
			return fmt.Errorf("get recommendations: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// DeleteRecommendations removes the stored snapshot of userID.
func (s *Store) DeleteRecommendations(_ context.Context, userID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(recsKeyPrefix + userID))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete recommendations: %w", err)
		}
		return nil
	})
}
