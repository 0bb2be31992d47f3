package arbiter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/quorumhq/quorum/pkg/models"
)

// ErrNoOutputs is returned when arbitration is asked to resolve an empty
// output set. Arbitrating zero opinions is undefined and must be rejected
// rather than defaulted.
var ErrNoOutputs = errors.New("no worker outputs to arbitrate")

// Phase tracks an arbitration call's progress for logging. Arbitration is
// a single-pass pure function; there is no partial or retry state, and
// late-arriving outputs constitute a new call.
type Phase string

const (
	// PhaseCollecting is the initial phase over the fixed input set.
	PhaseCollecting Phase = "collecting"
	// PhaseScoring runs the confidence scorer and quality assessor.
	PhaseScoring Phase = "scoring"
	// PhaseResolving combines scores and picks the winner.
	PhaseResolving Phase = "resolving"
	// PhaseVerdictIssued means the verdict is complete.
	PhaseVerdictIssued Phase = "verdict_issued"
)

// Weights for combining dimension scores into one individual score.
const (
	multiDimWeight     = 0.30
	completenessWeight = 0.20
	correctnessWeight  = 0.25
	consistencyWeight  = 0.15
	innovationWeight   = 0.10
)

// lowConsensusFloor marks the consensus score below which the engine
// suggests revisiting its own weights.
const lowConsensusFloor = 0.5

// scoreSpreadFloor is the winner-to-loser gap beyond which low scorers get
// performance improvement entries.
const scoreSpreadFloor = 0.2

// Engine arbitrates competing worker outputs into a single verdict.
type Engine struct {
	// logf writes debug lines; a nil logf is a no-op.
	logf func(format string, args ...interface{})
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogf sets the engine's debug log function.
func WithLogf(logf func(format string, args ...interface{})) EngineOption {
	return func(e *Engine) {
		e.logf = logf
	}
}

// NewEngine creates an arbitration Engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveConflicts scores every output, combines the dimension scores into
// one individual score per worker, and issues a verdict for the highest
// scorer. Ties break toward the earliest response. Fails only on an empty
// output set.
func (e *Engine) ResolveConflicts(outputs []models.WorkerOutput) (models.ArbitrationVerdict, error) {
	e.log("[arbiter] phase=%s outputs=%d", PhaseCollecting, len(outputs))
	if len(outputs) == 0 {
		return models.ArbitrationVerdict{}, ErrNoOutputs
	}

	e.log("[arbiter] phase=%s", PhaseScoring)
	multiDim := ScoreMultiDimensional(outputs)
	qa := AssessQuality(outputs)

	e.log("[arbiter] phase=%s", PhaseResolving)
	individual := make(map[string]float64, len(outputs))
	for _, o := range outputs {
		individual[o.WorkerID] = multiDimWeight*multiDim[o.WorkerID] +
			completenessWeight*qa.Completeness[o.WorkerID] +
			correctnessWeight*qa.Correctness[o.WorkerID] +
			consistencyWeight*qa.Consistency[o.WorkerID] +
			innovationWeight*qa.Innovation[o.WorkerID]
	}

	winner := pickWinner(outputs, individual)
	consensus := consensusScore(individual)

	verdict := models.ArbitrationVerdict{
		TaskID:           winner.TaskID,
		FinalDecision:    winner.Output,
		WinnerID:         winner.WorkerID,
		Confidence:       multiDim[winner.WorkerID],
		QualityScore:     qa.OverallQuality,
		ConsensusScore:   consensus,
		Reasoning:        buildReasoning(winner, individual, qa, consensus),
		IndividualScores: individual,
		Insights:         buildInsights(winner, individual, qa, consensus),
	}

	e.log("[arbiter] phase=%s winner=%s score=%.3f consensus=%.3f",
		PhaseVerdictIssued, winner.WorkerID, individual[winner.WorkerID], consensus)
	return verdict, nil
}

func (e *Engine) log(format string, args ...interface{}) {
	if e.logf != nil {
		e.logf(format, args...)
	}
}

// pickWinner returns the output with the highest individual score,
// breaking ties by earliest response time.
func pickWinner(outputs []models.WorkerOutput, individual map[string]float64) models.WorkerOutput {
	winner := outputs[0]
	for _, o := range outputs[1:] {
		score, best := individual[o.WorkerID], individual[winner.WorkerID]
		if score > best || (score == best && o.ResponseTimeMs < winner.ResponseTimeMs) {
			winner = o
		}
	}
	return winner
}

// consensusScore measures agreement across individual scores as one minus
// normalized variance. Scores lie in [0,1], so variance is at most 0.25.
func consensusScore(individual map[string]float64) float64 {
	if len(individual) < 2 {
		return 1
	}

	var sum float64
	for _, s := range individual {
		sum += s
	}
	mean := sum / float64(len(individual))

	var variance float64
	for _, s := range individual {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(individual))

	return clamp01(1 - variance/0.25)
}

// buildReasoning explains which dimensions drove the winner.
func buildReasoning(winner models.WorkerOutput, individual map[string]float64, qa models.QualityAssessment, consensus float64) string {
	dims := []struct {
		name  string
		score float64
	}{
		{"completeness", qa.Completeness[winner.WorkerID]},
		{"correctness", qa.Correctness[winner.WorkerID]},
		{"consistency", qa.Consistency[winner.WorkerID]},
		{"innovation", qa.Innovation[winner.WorkerID]},
	}
	sort.SliceStable(dims, func(i, j int) bool { return dims[i].score > dims[j].score })

	var b strings.Builder
	fmt.Fprintf(&b, "Worker %s won with combined score %.3f. ", winner.WorkerID, individual[winner.WorkerID])
	fmt.Fprintf(&b, "Strongest dimensions: %s (%.2f) and %s (%.2f). ",
		dims[0].name, dims[0].score, dims[1].name, dims[1].score)
	if consensus >= lowConsensusFloor {
		fmt.Fprintf(&b, "The judges largely agreed (consensus %.2f).", consensus)
	} else {
		fmt.Fprintf(&b, "The judges disagreed substantially (consensus %.2f).", consensus)
	}
	return b.String()
}

// buildInsights derives the always-non-empty learning feedback from the
// spread between winning and losing scores and from the consensus level.
// The content is advisory telemetry; only non-emptiness is guaranteed.
func buildInsights(winner models.WorkerOutput, individual map[string]float64, qa models.QualityAssessment, consensus float64) models.LearningInsights {
	insights := models.LearningInsights{}
	winning := individual[winner.WorkerID]

	// Stable iteration order for deterministic telemetry.
	ids := make([]string, 0, len(individual))
	for id := range individual {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if id == winner.WorkerID {
			continue
		}
		if winning-individual[id] > scoreSpreadFloor {
			insights.PerformanceImprovements = append(insights.PerformanceImprovements,
				fmt.Sprintf("worker %s trailed the winner by %.2f; review its completeness and correctness signals",
					id, winning-individual[id]))
		}
	}
	if len(insights.PerformanceImprovements) == 0 {
		insights.PerformanceImprovements = append(insights.PerformanceImprovements,
			"scores were closely grouped; no individual worker needs attention")
	}

	insights.QualityInsights = append(insights.QualityInsights,
		fmt.Sprintf("overall output quality across the set was %.2f", qa.OverallQuality))
	if qa.Correctness[winner.WorkerID] >= qa.Completeness[winner.WorkerID] {
		insights.QualityInsights = append(insights.QualityInsights,
			"the winning output read as confident and verified rather than merely long")
	}

	if consensus < lowConsensusFloor {
		insights.OptimizationSuggestions = append(insights.OptimizationSuggestions,
			fmt.Sprintf("consensus was low (%.2f); consider rebalancing the dimension weights", consensus))
	} else {
		insights.OptimizationSuggestions = append(insights.OptimizationSuggestions,
			"scoring weights produced agreeing judges; no rebalancing needed")
	}

	return insights
}
