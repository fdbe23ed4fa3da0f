// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package experiment

import "math"

// Metric names used in analyses.
const (
	MetricCTR            = "ctr"
	MetricConversionRate = "conversion_rate"
	MetricEngagementTime = "engagement_time"
)

// Winner weights of each metric.
var winnerWeights = []struct {
	metric string
	weight float64
}{
	{MetricCTR, 0.3},
	{MetricConversionRate, 0.5},
	{MetricEngagementTime, 0.2},
}

// WinnerTie is reported when neither group scores higher.
const WinnerTie = "tie"

// MetricComparison compares one metric between the groups.
type MetricComparison struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	// Delta is B - A.
	Delta float64 `json:"delta"`
	// PercentChange is Delta relative to A, or 0 when A is 0.
	PercentChange float64 `json:"percent_change"`
}

// Significance is the outcome of the CTR z-test.
type Significance struct {
	ZScore      float64 `json:"z_score"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
}

// Analysis is the comparison of the two arms of an experiment.
type Analysis struct {
	ExperimentID string                      `json:"experiment_id"`
	Status       Status                      `json:"status"`
	Results      Results                     `json:"results"`
	Comparisons  map[string]MetricComparison `json:"comparisons"`
	ScoreA       float64                     `json:"score_a"`
	ScoreB       float64                     `json:"score_b"`
	// Winner is "A", "B" or "tie".
	Winner       string       `json:"winner"`
	WinnerModel  string       `json:"winner_model,omitempty"`
	Significance Significance `json:"significance"`
}

// Analyze compares the groups of an experiment.
//
// Each metric votes its weight for the group with the higher value; equal
// values give no vote. The group with the larger total wins. Significance is
// a two-proportion z-test on CTR.
func (e *Engine) Analyze(expID string) (Analysis, error) {
	snap, err := e.Get(expID)
	if err != nil {
		return Analysis{}, err
	}
	a, b := snap.Results.GroupA, snap.Results.GroupB

	values := map[string][2]float64{
		MetricCTR:            {a.CTR, b.CTR},
		MetricConversionRate: {a.ConversionRate, b.ConversionRate},
		MetricEngagementTime: {a.AvgEngagement, b.AvgEngagement},
	}

	an := Analysis{
		ExperimentID: snap.ID,
		Status:       snap.Status,
		Results:      snap.Results,
		Comparisons:  make(map[string]MetricComparison, len(values)),
	}
	for name, v := range values {
		an.Comparisons[name] = compare(v[0], v[1])
	}

	for _, w := range winnerWeights {
		v := values[w.metric]
		switch {
		case v[0] > v[1]:
			an.ScoreA += w.weight
		case v[1] > v[0]:
			an.ScoreB += w.weight
		}
	}
	switch {
	case an.ScoreA > an.ScoreB:
		an.Winner = string(GroupA)
		an.WinnerModel = snap.Config.ModelA
	case an.ScoreB > an.ScoreA:
		an.Winner = string(GroupB)
		an.WinnerModel = snap.Config.ModelB
	default:
		an.Winner = WinnerTie
	}

	z := TwoProportionZ(a.Clicks, a.Impressions, b.Clicks, b.Impressions)
	p := ApproximateSignificance(z)
	an.Significance = Significance{ZScore: z, PValue: p, Significant: p < 0.05}

	return an, nil
}

func compare(a, b float64) MetricComparison {
	c := MetricComparison{A: a, B: b, Delta: b - a}
	if a != 0 {
		c.PercentChange = (b - a) / a * 100
	}
	return c
}

// TwoProportionZ returns the absolute z statistic comparing the success
// rates x1/n1 and x2/n2 with a pooled standard error. It is 0 when either
// sample is empty or the pooled rate is 0 or 1.
func TwoProportionZ(x1, n1, x2, n2 int) float64 {
	if n1 <= 0 || n2 <= 0 {
		return 0
	}
	p1 := float64(x1) / float64(n1)
	p2 := float64(x2) / float64(n2)
	pooled := float64(x1+x2) / float64(n1+n2)
	se := math.Sqrt(pooled * (1 - pooled) * (1/float64(n1) + 1/float64(n2)))
	if se == 0 || math.IsNaN(se) {
		return 0
	}
	return math.Abs(p2-p1) / se
}

// ApproximateSignificance maps a z statistic to a coarse two-sided p-value
// band instead of evaluating the normal distribution:
//
//	z > 3.00  0.001
//	z > 2.58  0.01
//	z > 1.96  0.05
//	z > 1.65  0.1
//	otherwise 0.5
//
// The sign of z is ignored. A result is significant when p < 0.05, i.e. only
// for z > 2.58.
func ApproximateSignificance(z float64) float64 {
	z = math.Abs(z)
	switch {
	case z > 3:
		return 0.001
	case z > 2.58:
		return 0.01
	case z > 1.96:
		return 0.05
	case z > 1.65:
		return 0.1
	default:
		return 0.5
	}
}
