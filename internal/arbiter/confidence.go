// Package arbiter scores competing worker outputs along independent
// dimensions and resolves them into a single, explainable verdict.
package arbiter

import (
	"github.com/quorumhq/quorum/pkg/models"
)

// Weights for the multi-dimensional confidence score. Self-reported
// confidence and quality are cross-checked by relative response speed, so
// an output cannot win on self-reporting alone.
const (
	confidenceWeight = 0.4
	qualityWeight    = 0.4
	speedWeight      = 0.2
)

// ScoreMultiDimensional combines each output's self-reported confidence and
// quality with its speed relative to the set's fastest responder.
//
// The contract is monotonicity, not the literal values: if A beats B on
// quality and confidence and is at least as fast, A scores at least as
// high as B.
func ScoreMultiDimensional(outputs []models.WorkerOutput) map[string]float64 {
	scores := make(map[string]float64, len(outputs))
	if len(outputs) == 0 {
		return scores
	}

	fastest := outputs[0].ResponseTimeMs
	for _, o := range outputs[1:] {
		if o.ResponseTimeMs < fastest {
			fastest = o.ResponseTimeMs
		}
	}
	if fastest <= 0 {
		fastest = 1
	}

	for _, o := range outputs {
		speed := 1.0
		if o.ResponseTimeMs > fastest {
			speed = fastest / o.ResponseTimeMs
		}
		score := confidenceWeight*clamp01(o.Confidence) +
			qualityWeight*clamp01(o.QualityScore) +
			speedWeight*speed
		scores[o.WorkerID] = clamp01(score)
	}
	return scores
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
