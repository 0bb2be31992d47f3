package models

// TaskCategory classifies a task into one of a closed set of categories.
// Classification drives decomposition thresholds and specialty routing.
type TaskCategory string

const (
	// CategoryReactComponent covers React component work.
	CategoryReactComponent TaskCategory = "react-component"
	// CategoryFileEditing covers direct file modification work.
	CategoryFileEditing TaskCategory = "file-editing"
	// CategoryResearch covers research and search work.
	CategoryResearch TaskCategory = "research"
	// CategoryCodeGeneration is the catch-all for everything else.
	CategoryCodeGeneration TaskCategory = "code-generation"
)

// Valid returns true if the category is a known value.
func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryReactComponent, CategoryFileEditing, CategoryResearch, CategoryCodeGeneration:
		return true
	default:
		return false
	}
}

// TaskPattern describes one identified unit of decomposed work.
// Each pattern becomes one subtask during fan-out.
type TaskPattern struct {
	// Category is the pattern's category tag.
	Category TaskCategory `json:"category"`
	// Description is the human-readable pattern description.
	Description string `json:"description"`
	// ComplexityWeight is the per-pattern complexity weight.
	ComplexityWeight float64 `json:"complexity_weight"`
	// RequiredTools lists the tool identifiers this pattern needs.
	RequiredTools []string `json:"required_tools,omitempty"`
}

// TaskAnalysis is the deterministic result of analyzing a task.
// It is never mutated after creation.
type TaskAnalysis struct {
	// TaskID is the ID of the analyzed task.
	TaskID string `json:"task_id"`
	// Category is the task's classified category.
	Category TaskCategory `json:"category"`
	// ComplexityScore is the heuristic complexity score (>= 0).
	ComplexityScore float64 `json:"complexity_score"`
	// ShouldDecompose reports whether the score exceeded the category threshold.
	ShouldDecompose bool `json:"should_decompose"`
	// Patterns lists the identified subtask patterns, in dispatch order.
	Patterns []TaskPattern `json:"patterns"`
	// EstimatedSubtasks is max(len(Patterns), 1).
	EstimatedSubtasks int `json:"estimated_subtasks"`
}
