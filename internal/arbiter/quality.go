package arbiter

import (
	"strings"
	"unicode"

	"github.com/quorumhq/quorum/pkg/models"
)

// hedgingPhrases weaken the correctness score: they signal the worker is
// unsure of its own answer.
var hedgingPhrases = []string{
	"maybe", "might", "possibly", "not sure", "unclear", "i think", "perhaps", "could be",
}

// certaintyPhrases strengthen the correctness score.
var certaintyPhrases = []string{
	"verified", "tested", "confirmed", "guaranteed", "checked",
}

// AssessQuality derives four independent per-worker score maps from
// textual signals: length and structure for completeness, hedging versus
// certainty language for correctness, cross-output agreement for
// consistency, and novelty of phrasing for innovation. All scores lie in
// [0,1]. An empty output list yields empty maps.
func AssessQuality(outputs []models.WorkerOutput) models.QualityAssessment {
	qa := models.QualityAssessment{
		Completeness: make(map[string]float64, len(outputs)),
		Correctness:  make(map[string]float64, len(outputs)),
		Consistency:  make(map[string]float64, len(outputs)),
		Innovation:   make(map[string]float64, len(outputs)),
	}
	if len(outputs) == 0 {
		return qa
	}

	tokenSets := make([]map[string]bool, len(outputs))
	for i, o := range outputs {
		tokenSets[i] = tokenize(o.Output)
	}

	var total float64
	for i, o := range outputs {
		completeness := scoreCompleteness(o.Output)
		correctness := scoreCorrectness(o.Output)
		consistency := scoreConsistency(i, tokenSets)
		innovation := scoreInnovation(i, tokenSets)

		qa.Completeness[o.WorkerID] = completeness
		qa.Correctness[o.WorkerID] = correctness
		qa.Consistency[o.WorkerID] = consistency
		qa.Innovation[o.WorkerID] = innovation
		total += (completeness + correctness + consistency + innovation) / 4
	}
	qa.OverallQuality = total / float64(len(outputs))

	return qa
}

// scoreCompleteness uses length as a detail proxy with small bonuses for
// visible structure.
func scoreCompleteness(text string) float64 {
	if text == "" {
		return 0
	}
	score := float64(len(text)) / 400
	if score > 0.8 {
		score = 0.8
	}
	if strings.Contains(text, "\n") {
		score += 0.1
	}
	if strings.ContainsAny(text, "0123456789") {
		score += 0.1
	}
	return clamp01(score)
}

// scoreCorrectness reads certainty from the language: hedging lowers the
// score, explicit verification language raises it.
func scoreCorrectness(text string) float64 {
	lower := strings.ToLower(text)
	score := 0.7
	for _, phrase := range hedgingPhrases {
		if strings.Contains(lower, phrase) {
			score -= 0.1
		}
	}
	for _, phrase := range certaintyPhrases {
		if strings.Contains(lower, phrase) {
			score += 0.1
		}
	}
	return clamp01(score)
}

// scoreConsistency is the mean token overlap with every other output.
// A lone output is trivially consistent.
func scoreConsistency(i int, tokenSets []map[string]bool) float64 {
	if len(tokenSets) < 2 {
		return 1
	}
	var total float64
	for j, other := range tokenSets {
		if j == i {
			continue
		}
		total += jaccard(tokenSets[i], other)
	}
	return clamp01(total / float64(len(tokenSets)-1))
}

// scoreInnovation rewards phrasing the other outputs did not use.
// A lone output gets a neutral score.
func scoreInnovation(i int, tokenSets []map[string]bool) float64 {
	if len(tokenSets) < 2 {
		return 0.5
	}
	maxSim := 0.0
	for j, other := range tokenSets {
		if j == i {
			continue
		}
		if sim := jaccard(tokenSets[i], other); sim > maxSim {
			maxSim = sim
		}
	}
	return clamp01(1 - maxSim)
}

// tokenize splits text into a lowercase word set.
func tokenize(text string) map[string]bool {
	set := make(map[string]bool)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		set[w] = true
	}
	return set
}

// jaccard computes set overlap as intersection over union.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
