// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the tables and indexes if they do not exist
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// List columns hold JSON arrays encoded with go-json; Context holds a JSON object.
var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR PRIMARY KEY,
		skills VARCHAR NOT NULL DEFAULT '[]',
		experience_list VARCHAR NOT NULL DEFAULT '[]',
		education_list VARCHAR NOT NULL DEFAULT '[]',
		languages VARCHAR NOT NULL DEFAULT '[]',
		specialization VARCHAR NOT NULL DEFAULT '',
		interests VARCHAR NOT NULL DEFAULT '[]',
		city VARCHAR NOT NULL DEFAULT '',
		country VARCHAR NOT NULL DEFAULT '',
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id VARCHAR PRIMARY KEY,
		item_type VARCHAR NOT NULL,
		title VARCHAR NOT NULL DEFAULT '',
		description VARCHAR NOT NULL DEFAULT '',
		skills VARCHAR NOT NULL DEFAULT '[]',
		city VARCHAR NOT NULL DEFAULT '',
		country VARCHAR NOT NULL DEFAULT '',
		status VARCHAR NOT NULL,
		expires_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS interactions (
		id VARCHAR PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		item_id VARCHAR NOT NULL,
		item_type VARCHAR NOT NULL,
		action VARCHAR NOT NULL,
		duration INTEGER NOT NULL DEFAULT 0,
		ts TIMESTAMP NOT NULL,
		context VARCHAR NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_dedupe ON interactions(user_id, item_id, action)`,
}
