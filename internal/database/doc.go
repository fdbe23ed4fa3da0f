// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

/*
Package database is the DuckDB-backed store for users, jobs and interactions.

It implements the recommend.InteractionStore, recommend.ItemStore and
recommend.UserStore contracts on top of database/sql with the duckdb-go
driver.

# Tables

	users         one row per profile, list fields stored as JSON text
	items         jobs and other recommendable items
	interactions  append-mostly user-item events

# Near-Duplicate Interactions

LogInteraction runs inside a transaction. When the same user performed the
same action on the same item less than five minutes before the new event, the
existing row is updated instead of inserting a new one: the duration becomes
the maximum of both and the context becomes the newer one. The original
timestamp is kept, so a burst of repeats never extends the window.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	engine, err := recommend.NewEngine(recCfg, recommend.Deps{
	    Users:        db,
	    Items:        db,
	    Interactions: db,
	    Matcher:      matcher,
	}, logger)

In-memory databases (Path ":memory:") are used by tests.
*/
package database
