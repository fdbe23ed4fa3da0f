// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

// Package recommend implements the hybrid job recommendation engine.
//
// # Architecture
//
// Recommendations combine two strategies:
//
//   - Content matching: a ContentMatcher scores each active job against the
//     user's profile (skills, interests, location) on a 0-100 scale.
//   - User-based collaborative filtering: the user-item matrix holds the
//     strongest action weight each user gave each job; neighbours are ranked
//     by cosine similarity and their weights are averaged into a 0-100 score.
//
// The Blender merges both lists with weights that depend on how much history
// the user has:
//
//	interactions < 5   content 0.9, collaborative 0.1
//	interactions < 20  content 0.7, collaborative 0.3
//	otherwise          content 0.5, collaborative 0.5
//
// When the interaction count cannot be read the configured fallback blend
// (0.6 / 0.4) is used.
//
// # Action Weights
//
//	apply  1.0
//	like   0.8
//	save   0.7
//	view   0.3
//	ignore -0.5
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), recommend.Deps{
//	    Users:        db,
//	    Items:        db,
//	    Interactions: db,
//	    Matcher:      matcher,
//	    Store:        kv,
//	    Notifier:     notifier,
//	}, logger)
//
//	resp, err := engine.Recommend(ctx, recommend.Request{UserID: "u1", Limit: 20})
//
// # Thread Safety
//
// The engine is safe for concurrent use. The user-item matrix is an immutable
// snapshot swapped atomically after each rebuild, and concurrent rebuild
// requests share one scan of the interaction store.
package recommend
