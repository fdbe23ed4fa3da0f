// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/jobrec/internal/metrics"
	"github.com/tomtom215/jobrec/internal/recommend"
)

const itemColumns = `id, item_type, title, description, skills, city, country, status, expires_at`

// UpsertItem inserts or replaces an item. Empty Type defaults to "job" and
// empty Status to active.
//
//nolint:gocritic // Item passed by value to match the store API
func (db *DB) UpsertItem(ctx context.Context, it recommend.Item) (err error) {
	if it.ID == "" {
		return errors.New("item id is required")
	}
	if it.Type == "" {
		it.Type = "job"
	}
	if it.Status == "" {
		it.Status = recommend.ItemStatusActive
	}
	start := time.Now()
	defer func() { metrics.RecordDBQuery("upsert", "items", time.Since(start), err) }()

	skills, err := encodeList(it.Skills)
	if err != nil {
		return err
	}
	var expires any
	if !it.ExpiresAt.IsZero() {
		expires = it.ExpiresAt.UTC()
	}

	query := `
		INSERT INTO items (id, item_type, title, description, skills, city, country,
			status, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			item_type = EXCLUDED.item_type,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			skills = EXCLUDED.skills,
			city = EXCLUDED.city,
			country = EXCLUDED.country,
			status = EXCLUDED.status,
			expires_at = EXCLUDED.expires_at
	`
	_, err = db.conn.ExecContext(ctx, query,
		it.ID, it.Type, it.Title, it.Description, skills, it.City, it.Country,
		it.Status, expires, db.now().UTC())
	if err != nil {
		return fmt.Errorf("upsert item %s: %w", it.ID, err)
	}
	return nil
}

// GetItem returns a single item or ErrNotFound.
func (db *DB) GetItem(ctx context.Context, itemID string) (recommend.Item, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, itemID)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("select", "items", time.Since(start), nil)
		return recommend.Item{}, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
	}
	metrics.RecordDBQuery("select", "items", time.Since(start), err)
	if err != nil {
		return recommend.Item{}, fmt.Errorf("get item %s: %w", itemID, err)
	}
	return it, nil
}

// ListActiveItems returns up to limit active, unexpired items of itemType,
// newest first. An empty itemType matches every type.
func (db *DB) ListActiveItems(ctx context.Context, itemType string, limit int) (items []recommend.Item, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "items", time.Since(start), err) }()

	var (
		where = []string{"status = ?", "(expires_at IS NULL OR expires_at > ?)"}
		args  = []any{recommend.ItemStatusActive, db.now().UTC()}
	)
	if itemType != "" {
		where = append(where, "item_type = ?")
		args = append(args, itemType)
	}
	query := `SELECT ` + itemColumns + ` FROM items WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active items: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// ItemsByID returns the items that exist among ids, regardless of status.
func (db *DB) ItemsByID(ctx context.Context, ids []string) (found map[string]recommend.Item, err error) {
	found = make(map[string]recommend.Item, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "items", time.Since(start), err) }()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("items by id: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		found[it.ID] = it
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return found, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (recommend.Item, error) {
	var (
		it      recommend.Item
		skills  string
		expires sql.NullTime
	)
	if err := row.Scan(&it.ID, &it.Type, &it.Title, &it.Description, &skills,
		&it.City, &it.Country, &it.Status, &expires); err != nil {
		return recommend.Item{}, err
	}
	var err error
	if it.Skills, err = decodeList(skills); err != nil {
		return recommend.Item{}, fmt.Errorf("item %s: %w", it.ID, err)
	}
	if expires.Valid {
		it.ExpiresAt = expires.Time.UTC()
	}
	return it, nil
}
