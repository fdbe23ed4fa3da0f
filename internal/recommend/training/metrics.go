// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package training

import (
	"cmp"
	"math"
	"slices"
)

// DefaultThreshold separates predicted positives from negatives, and relevant
// from irrelevant labels.
const DefaultThreshold = 0.5

// ndcgCutoff is the ranking depth for NDCG.
const ndcgCutoff = 10

// Metrics are evaluation results, each in [0, 1].
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	NDCG      float64 `json:"ndcg"`
	MRR       float64 `json:"mrr"`
}

// Prediction pairs a predicted score with the true label for one user.
type Prediction struct {
	UserID string
	Score  float64
	Label  float64
}

// Evaluate computes classification metrics over all predictions. NDCG@10 and
// MRR rank the whole test set by predicted score, across users.
func Evaluate(preds []Prediction, threshold float64) Metrics {
	if len(preds) == 0 {
		return Metrics{}
	}

	var tp, fp, tn, fn float64
	for _, p := range preds {
		predicted := p.Score >= threshold
		actual := p.Label >= threshold
		switch {
		case predicted && actual:
			tp++
		case predicted && !actual:
			fp++
		case !predicted && actual:
			fn++
		default:
			tn++
		}
	}

	m := Metrics{Accuracy: (tp + tn) / float64(len(preds))}
	if tp+fp > 0 {
		m.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		m.Recall = tp / (tp + fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	scores := make([]float64, len(preds))
	labels := make([]float64, len(preds))
	for i, p := range preds {
		scores[i] = p.Score
		labels[i] = p.Label
	}
	m.NDCG = NDCGAtK(scores, labels, ndcgCutoff)
	m.MRR = reciprocalRank(scores, labels, threshold)

	return clampMetrics(m)
}

// NDCGAtK returns the normalized discounted cumulative gain of ranking items
// by scores, with labels as graded relevance. It is 0 when no label is
// positive.
func NDCGAtK(scores, labels []float64, k int) float64 {
	order := rankOrder(scores)
	predicted := make([]float64, len(order))
	for i, idx := range order {
		predicted[i] = labels[idx]
	}

	ideal := slices.Clone(labels)
	slices.SortStableFunc(ideal, func(a, b float64) int { return cmp.Compare(b, a) })

	idcg := dcg(ideal, k)
	if idcg == 0 {
		return 0
	}
	return dcg(predicted, k) / idcg
}

func dcg(rels []float64, k int) float64 {
	var sum float64
	for i := 0; i < len(rels) && i < k; i++ {
		sum += rels[i] / math.Log2(float64(i)+2)
	}
	return sum
}

// reciprocalRank is 1/rank of the first relevant item in score order, or 0.
func reciprocalRank(scores, labels []float64, threshold float64) float64 {
	for rank, idx := range rankOrder(scores) {
		if labels[idx] >= threshold {
			return 1 / float64(rank+1)
		}
	}
	return 0
}

// rankOrder returns indices sorted by descending score, stable on ties.
func rankOrder(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(scores[b], scores[a]) })
	return order
}

func clampMetrics(m Metrics) Metrics {
	c := func(v float64) float64 { return max(0, min(1, v)) }
	return Metrics{
		Accuracy:  c(m.Accuracy),
		Precision: c(m.Precision),
		Recall:    c(m.Recall),
		F1:        c(m.F1),
		NDCG:      c(m.NDCG),
		MRR:       c(m.MRR),
	}
}
