// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

// Package training evaluates the recommendation strategies offline and
// selects the active model.
//
// A run collects labelled samples from the interaction history of users with
// enough activity, holds out a seeded random share as the test set, asks every
// registered Predictor to score the held-out pairs and computes accuracy,
// precision, recall, F1, NDCG@10 and MRR at a 0.5 decision threshold. The
// strategy with the highest F1 becomes the active model; on a tie the one
// registered first wins.
//
// Predictors do not fit parameters. The training share of the split is
// reported in the model record only.
package training
