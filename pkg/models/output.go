package models

// WorkerOutput is one worker's answer for a task, produced by the external
// execution step. Outputs are immutable once produced.
//
// Confidence and QualityScore are self-reported by the worker and must be
// treated as untrusted inputs; the scorer cross-checks them against response
// time and textual signals.
type WorkerOutput struct {
	// WorkerID identifies the worker that produced this output.
	WorkerID string `json:"worker_id"`
	// TaskID identifies the task the output answers.
	TaskID string `json:"task_id"`
	// Output is the worker's free-text answer.
	Output string `json:"output"`
	// Confidence is the worker's self-reported confidence in [0,1].
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
	// QualityScore is the worker's self-reported quality in [0,1].
	QualityScore float64 `json:"quality_score" validate:"gte=0,lte=1"`
	// ResponseTimeMs is how long the worker took, in milliseconds.
	ResponseTimeMs float64 `json:"response_time_ms" validate:"gte=0"`
	// Metadata carries free-form worker metadata.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// QualityAssessment holds per-worker scores along four independent
// dimensions plus an overall aggregate. All scores lie in [0,1].
type QualityAssessment struct {
	// Completeness maps worker ID to how thorough the output is.
	Completeness map[string]float64 `json:"completeness"`
	// Correctness maps worker ID to how certain the output reads.
	Correctness map[string]float64 `json:"correctness"`
	// Consistency maps worker ID to agreement with the other outputs.
	Consistency map[string]float64 `json:"consistency"`
	// Innovation maps worker ID to novelty of phrasing.
	Innovation map[string]float64 `json:"innovation"`
	// OverallQuality aggregates the four dimensions across all workers.
	OverallQuality float64 `json:"overall_quality"`
}

// LearningInsights carries advisory feedback derived from an arbitration.
// All three lists are always non-empty; their content is telemetry, not
// something callers should match exactly.
type LearningInsights struct {
	// PerformanceImprovements suggests what low scorers should change.
	PerformanceImprovements []string `json:"performance_improvements"`
	// QualityInsights describes what drove the verdict.
	QualityInsights []string `json:"quality_insights"`
	// OptimizationSuggestions targets the scoring weights themselves.
	OptimizationSuggestions []string `json:"optimization_suggestions"`
}

// ArbitrationVerdict is the single, explainable outcome of arbitrating a
// set of competing worker outputs. Produced once per arbitration call.
type ArbitrationVerdict struct {
	// TaskID identifies the arbitrated task.
	TaskID string `json:"task_id"`
	// FinalDecision is the content of the winning output.
	FinalDecision string `json:"final_decision"`
	// WinnerID is the worker whose output won.
	WinnerID string `json:"winner_id"`
	// Confidence is the winner's combined confidence score.
	Confidence float64 `json:"confidence"`
	// QualityScore is the overall quality aggregate across outputs.
	QualityScore float64 `json:"quality_score"`
	// ConsensusScore measures how much the individual scores agreed.
	// 1 means full agreement, 0 means maximal disagreement.
	ConsensusScore float64 `json:"consensus_score"`
	// Reasoning explains which dimensions drove the winner.
	Reasoning string `json:"reasoning"`
	// IndividualScores maps worker ID to its combined score.
	IndividualScores map[string]float64 `json:"individual_scores"`
	// Insights carries the always-non-empty learning feedback.
	Insights LearningInsights `json:"insights"`
}
