// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

// Package matching provides the reference content matcher and a circuit
// breaker wrapper for any recommend.ContentMatcher.
//
// The reference Matcher scores a profile against a job on a 0-100 scale:
//
//	skills    up to 60  share of the job's skills the user lists
//	keywords  up to 25  share of the job title keywords found in the profile
//	location  up to 15  same city (15) or same country (7.5)
//
// Every non-zero component contributes a human-readable reason.
package matching
