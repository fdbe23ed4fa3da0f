// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/jobrec/internal/recommend/training"
)

// Key prefixes for model records
const (
	modelKeyPrefix       = "model:"
	modelActiveKeyPrefix = "model_active:"
)

func modelKey(modelType, version string) []byte {
	return []byte(modelKeyPrefix + modelType + ":" + version)
}

func modelTypePrefix(modelType string) []byte {
	return []byte(modelKeyPrefix + modelType + ":")
}

// SaveModel stores a record, replacing one with the same type and version.
// The active flag is taken as given; use ActivateModel to switch versions.
//
//nolint:gocritic // ModelRecord passed by value to match the store API
func (s *Store) SaveModel(_ context.Context, rec training.ModelRecord) error {
	if rec.ModelType == "" || rec.Version == "" {
		return errors.New("model type and version are required")
	}
	if strings.Contains(rec.ModelType, ":") {
		return fmt.Errorf("model type %q must not contain ':'", rec.ModelType)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal model record: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(modelKey(rec.ModelType, rec.Version), data); err != nil {
			return fmt.Errorf("set model record: %w", err)
		}
		if rec.Active {
			if err := txn.Set([]byte(modelActiveKeyPrefix+rec.ModelType), []byte(rec.Version)); err != nil {
				return fmt.Errorf("set active model: %w", err)
			}
		}
		return nil
	})
}

// ActivateModel marks version active and every other version of modelType
// inactive, in a single transaction.
func (s *Store) ActivateModel(_ context.Context, modelType, version string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		records, err := scanModels(txn, modelType)
		if err != nil {
			return err
		}
		found := false
		for i := range records {
			rec := &records[i]
			want := rec.Version == version
			found = found || want
			if rec.Active == want {
				continue
			}
			rec.Active = want
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("marshal model record: %w", err)
			}
			if err := txn.Set(modelKey(rec.ModelType, rec.Version), data); err != nil {
				return fmt.Errorf("set model record: %w", err)
			}
		}
		if !found {
			return fmt.Errorf("%w: %s version %s", training.ErrModelNotFound, modelType, version)
		}
		if err := txn.Set([]byte(modelActiveKeyPrefix+modelType), []byte(version)); err != nil {
			return fmt.Errorf("set active model: %w", err)
		}
		return nil
	})
}

// ActiveModel returns the active record of modelType or
// training.ErrModelNotFound.
func (s *Store) ActiveModel(_ context.Context, modelType string) (training.ModelRecord, error) {
	var rec training.ModelRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(modelActiveKeyPrefix + modelType))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: no active %s model", training.ErrModelNotFound, modelType)
		}
		if err != nil {
			return fmt.Errorf("get active model: %w", err)
		}
		version, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("read active model: %w", err)
		}

		item, err = txn.Get(modelKey(modelType, string(version)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s version %s", training.ErrModelNotFound, modelType, version)
		}
		if err != nil {
			return fmt.Errorf("get model record: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return training.ModelRecord{}, err
	}
	return rec, nil
}

// ListModels returns all records of modelType, newest first.
func (s *Store) ListModels(_ context.Context, modelType string) ([]training.ModelRecord, error) {
	var records []training.ModelRecord
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		records, err = scanModels(txn, modelType)
		return err
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(records, func(a, b training.ModelRecord) int {
		if c := b.TrainedAt.Compare(a.TrainedAt); c != 0 {
			return c
		}
		return strings.Compare(b.Version, a.Version)
	})
	return records, nil
}

func scanModels(txn *badger.Txn, modelType string) ([]training.ModelRecord, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)
	defer it.Close()

	var records []training.ModelRecord
	prefix := modelTypePrefix(modelType)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var rec training.ModelRecord
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		}); err != nil {
			return nil, fmt.Errorf("decode model record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
