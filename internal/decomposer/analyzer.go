// Package decomposer converts a task description into a complexity score
// and, when warranted, a list of typed subtask patterns.
package decomposer

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/quorumhq/quorum/pkg/models"
)

// Default decomposition thresholds per category. A task decomposes when its
// complexity score strictly exceeds its category threshold.
const (
	defaultReactThreshold    = 50.0
	defaultFileEditThreshold = 30.0
	defaultResearchThreshold = 40.0
	defaultCodeGenThreshold  = 60.0
)

// cacheTTL bounds how long a cached analysis is served. Analysis is
// deterministic over an immutable task, so caching only trades memory for
// repeated submissions of the same task ID.
const cacheTTL = 5 * time.Minute

// Thresholds holds per-category decomposition thresholds.
type Thresholds struct {
	ReactComponent float64
	FileEditing    float64
	Research       float64
	CodeGeneration float64
}

// DefaultThresholds returns the built-in category thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ReactComponent: defaultReactThreshold,
		FileEditing:    defaultFileEditThreshold,
		Research:       defaultResearchThreshold,
		CodeGeneration: defaultCodeGenThreshold,
	}
}

// For returns the threshold for the given category.
func (t Thresholds) For(category models.TaskCategory) float64 {
	switch category {
	case models.CategoryReactComponent:
		return t.ReactComponent
	case models.CategoryFileEditing:
		return t.FileEditing
	case models.CategoryResearch:
		return t.Research
	default:
		return t.CodeGeneration
	}
}

// Analyzer scores task complexity and identifies subtask patterns.
type Analyzer struct {
	thresholds Thresholds
	// cache holds recent analyses keyed by task ID.
	cache *gocache.Cache
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithThresholds overrides the default category thresholds.
func WithThresholds(t Thresholds) Option {
	return func(a *Analyzer) {
		a.thresholds = t
	}
}

// NewAnalyzer creates an Analyzer with the given options.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		thresholds: DefaultThresholds(),
		cache:      gocache.New(cacheTTL, 2*cacheTTL),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze derives a TaskAnalysis from a task. It is deterministic and has
// no side effects beyond caching; calling it twice on an unmodified task
// yields the same analysis.
func (a *Analyzer) Analyze(task models.Task) (models.TaskAnalysis, error) {
	if task.ID != "" {
		if cached, ok := a.cache.Get(task.ID); ok {
			return cached.(models.TaskAnalysis), nil
		}
	}

	category := Classify(task.Name, task.Description)
	score := ComplexityScore(task)

	patterns, err := identifyPatterns(task, category)
	if err != nil {
		return models.TaskAnalysis{}, err
	}

	estimated := len(patterns)
	if estimated < 1 {
		estimated = 1
	}

	analysis := models.TaskAnalysis{
		TaskID:            task.ID,
		Category:          category,
		ComplexityScore:   score,
		ShouldDecompose:   score > a.thresholds.For(category),
		Patterns:          patterns,
		EstimatedSubtasks: estimated,
	}

	if task.ID != "" {
		a.cache.SetDefault(task.ID, analysis)
	}
	return analysis, nil
}

// ComplexityScore computes the heuristic complexity of a task:
// 10 per required tool, 5 per parameter, one tenth of the combined
// name/description length, plus the priority weight.
func ComplexityScore(task models.Task) float64 {
	score := 10.0 * float64(len(task.RequiredTools))
	score += 5.0 * float64(len(task.Parameters))
	score += float64(len(task.Name)+len(task.Description)) / 10.0
	score += task.Priority.ComplexityWeight()
	return score
}
