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
	"time"

	"github.com/tomtom215/jobrec/internal/metrics"
	"github.com/tomtom215/jobrec/internal/recommend"
)

// UpsertUser inserts or replaces a user profile.
//
//nolint:gocritic // User passed by value to match the store API
func (db *DB) UpsertUser(ctx context.Context, u recommend.User) (err error) {
	if u.ID == "" {
		return errors.New("user id is required")
	}
	start := time.Now()
	defer func() { metrics.RecordDBQuery("upsert", "users", time.Since(start), err) }()

	lists, err := encodeLists(u.Skills, u.ExperienceList, u.EducationList, u.Languages, u.Interests)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, skills, experience_list, education_list, languages,
			specialization, interests, city, country, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			skills = EXCLUDED.skills,
			experience_list = EXCLUDED.experience_list,
			education_list = EXCLUDED.education_list,
			languages = EXCLUDED.languages,
			specialization = EXCLUDED.specialization,
			interests = EXCLUDED.interests,
			city = EXCLUDED.city,
			country = EXCLUDED.country,
			updated_at = EXCLUDED.updated_at
	`
	_, err = db.conn.ExecContext(ctx, query,
		u.ID, lists[0], lists[1], lists[2], lists[3],
		u.Specialization, lists[4], u.City, u.Country, db.now().UTC())
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", u.ID, err)
	}
	return nil
}

// GetUser returns a user profile. Unknown users yield an error matching both
// ErrNotFound and recommend.ErrUserNotFound.
func (db *DB) GetUser(ctx context.Context, userID string) (recommend.User, error) {
	start := time.Now()
	query := `
		SELECT id, skills, experience_list, education_list, languages,
			specialization, interests, city, country
		FROM users WHERE id = ?
	`
	var (
		u                                          recommend.User
		skills, experience, education, langs, ints string
	)
	err := db.conn.QueryRowContext(ctx, query, userID).Scan(
		&u.ID, &skills, &experience, &education, &langs,
		&u.Specialization, &ints, &u.City, &u.Country,
	)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("select", "users", time.Since(start), nil)
		return recommend.User{}, fmt.Errorf("%w: %w: %s", recommend.ErrUserNotFound, ErrNotFound, userID)
	}
	metrics.RecordDBQuery("select", "users", time.Since(start), err)
	if err != nil {
		return recommend.User{}, fmt.Errorf("get user %s: %w", userID, err)
	}

	for _, f := range []struct {
		raw string
		dst *[]string
	}{
		{skills, &u.Skills},
		{experience, &u.ExperienceList},
		{education, &u.EducationList},
		{langs, &u.Languages},
		{ints, &u.Interests},
	} {
		if *f.dst, err = decodeList(f.raw); err != nil {
			return recommend.User{}, fmt.Errorf("user %s: %w", userID, err)
		}
	}
	return u, nil
}
