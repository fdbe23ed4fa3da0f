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

	"github.com/google/uuid"

	"github.com/tomtom215/jobrec/internal/metrics"
	"github.com/tomtom215/jobrec/internal/recommend"
)

// DuplicateWindow is how close a repeated (user, item, action) must be to an
// existing interaction to be merged into it.
const DuplicateWindow = 5 * time.Minute

const interactionColumns = `id, user_id, item_id, item_type, action, duration, ts, context`

// LogInteraction records an interaction, merging near-duplicates.
//
//nolint:gocritic // Interaction passed by value to match the store API
func (db *DB) LogInteraction(ctx context.Context, in recommend.Interaction) (out recommend.Interaction, err error) {
	if in.UserID == "" || in.ItemID == "" {
		return recommend.Interaction{}, errors.New("interaction requires user_id and item_id")
	}
	if !in.Action.Valid() {
		return recommend.Interaction{}, fmt.Errorf("%w: %q", recommend.ErrInvalidAction, in.Action)
	}
	if in.ItemType == "" {
		in.ItemType = "job"
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = db.now()
	}
	in.Timestamp = in.Timestamp.UTC()
	if in.Duration < 0 {
		in.Duration = 0
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("log", "interactions", time.Since(start), err) }()

	contextJSON, err := encodeContext(in.Context)
	if err != nil {
		return recommend.Interaction{}, err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return recommend.Interaction{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	existing, err := scanInteraction(tx.QueryRowContext(ctx, `
		SELECT `+interactionColumns+`
		FROM interactions
		WHERE user_id = ? AND item_id = ? AND action = ?
		  AND ts > ? AND ts <= ?
		ORDER BY ts DESC
		LIMIT 1
	`, in.UserID, in.ItemID, string(in.Action), in.Timestamp.Add(-DuplicateWindow), in.Timestamp))

	switch {
	case err == nil:
		out = existing
		out.Duration = max(existing.Duration, in.Duration)
		out.Context = in.Context
		if _, err = tx.ExecContext(ctx,
			`UPDATE interactions SET duration = ?, context = ? WHERE id = ?`,
			out.Duration, contextJSON, out.ID); err != nil {
			return recommend.Interaction{}, fmt.Errorf("merge interaction: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		out = in
		out.ID = uuid.NewString()
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO interactions (`+interactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			out.ID, out.UserID, out.ItemID, out.ItemType, string(out.Action),
			out.Duration, out.Timestamp, contextJSON); err != nil {
			return recommend.Interaction{}, fmt.Errorf("insert interaction: %w", err)
		}
	default:
		return recommend.Interaction{}, fmt.Errorf("find duplicate interaction: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return recommend.Interaction{}, fmt.Errorf("commit interaction: %w", err)
	}
	return out, nil
}

// ListInteractions returns interactions matching filter ordered by timestamp.
func (db *DB) ListInteractions(ctx context.Context, filter recommend.InteractionFilter) (list []recommend.Interaction, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "interactions", time.Since(start), err) }()

	where, args := buildInteractionWhere(filter)
	query := `SELECT ` + interactionColumns + ` FROM interactions`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY ts, id`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return list, nil
}

// CountInteractions returns how many interactions a user has.
func (db *DB) CountInteractions(ctx context.Context, userID string) (n int, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("count", "interactions", time.Since(start), err) }()

	if err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interactions WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return n, nil
}

// buildInteractionWhere builds a parameterized WHERE clause for filter.
func buildInteractionWhere(filter recommend.InteractionFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if filter.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.ItemType != "" {
		clauses = append(clauses, "item_type = ?")
		args = append(args, filter.ItemType)
	}
	if len(filter.Actions) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.Actions)), ", ")
		clauses = append(clauses, "action IN ("+placeholders+")")
		for _, a := range filter.Actions {
			args = append(args, string(a))
		}
	}
	if !filter.Since.IsZero() {
		clauses = append(clauses, "ts >= ?")
		args = append(args, filter.Since.UTC())
	}
	return strings.Join(clauses, " AND "), args
}

func scanInteraction(row rowScanner) (recommend.Interaction, error) {
	var (
		in          recommend.Interaction
		action      string
		contextJSON string
	)
	if err := row.Scan(&in.ID, &in.UserID, &in.ItemID, &in.ItemType, &action,
		&in.Duration, &in.Timestamp, &contextJSON); err != nil {
		return recommend.Interaction{}, err
	}
	in.Action = recommend.Action(action)
	in.Timestamp = in.Timestamp.UTC()
	var err error
	if in.Context, err = decodeContext(contextJSON); err != nil {
		return recommend.Interaction{}, fmt.Errorf("interaction %s: %w", in.ID, err)
	}
	return in, nil
}
