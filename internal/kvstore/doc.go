// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

// Package kvstore persists recommendation snapshots and model records in
// BadgerDB.
//
// Keys:
//
//	recs:<userID>                latest recommendations of a user (TTL)
//	model:<type>:<version>       one evaluated model record
//	model_active:<type>          version of the active model of a type
//
// Values are JSON encoded with goccy/go-json. Store implements
// recommend.RecommendationStore and training.ModelStore.
package kvstore
