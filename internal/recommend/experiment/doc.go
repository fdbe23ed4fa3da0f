// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

// Package experiment runs A/B tests between two recommendation models.
//
// Users are assigned to group A with probability SplitRatio on first touch
// and keep that group for the lifetime of the experiment. Impressions, clicks,
// conversions and engagement time are attributed to the user's group.
// Analyze compares the groups metric by metric, picks a winner with a
// weighted vote (CTR 30%, conversion rate 50%, engagement time 20%) and runs
// a two-proportion z-test on CTR whose p-value is read from a coarse band
// table (see ApproximateSignificance).
package experiment
