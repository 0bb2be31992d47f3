package models

import "time"

// Priority represents how urgent a task is.
type Priority string

const (
	// PriorityLow indicates background work that can wait.
	PriorityLow Priority = "low"
	// PriorityNormal indicates routine work.
	PriorityNormal Priority = "normal"
	// PriorityHigh indicates work that should jump most queues.
	PriorityHigh Priority = "high"
	// PriorityCritical indicates work that must not be deferred.
	PriorityCritical Priority = "critical"
)

// Valid returns true if the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// ComplexityWeight returns the contribution of this priority to a task's
// complexity score.
func (p Priority) ComplexityWeight() float64 {
	switch p {
	case PriorityLow:
		return 0
	case PriorityNormal:
		return 5
	case PriorityHigh:
		return 10
	case PriorityCritical:
		return 15
	default:
		return 5
	}
}

// AdmissionValue returns the priority mapped onto [0,1] for admission
// decisions. Under backpressure only values above 0.7 are admitted.
func (p Priority) AdmissionValue() float64 {
	switch p {
	case PriorityLow:
		return 0.25
	case PriorityNormal:
		return 0.5
	case PriorityHigh:
		return 0.75
	case PriorityCritical:
		return 1.0
	default:
		return 0.5
	}
}

// Task represents a unit of work submitted to the coordinator.
// Tasks are immutable after submission.
type Task struct {
	// ID is the unique identifier for this task. Assigned at submission
	// if the caller leaves it empty.
	ID string `json:"id"`
	// Name is the short name or category hint for the task.
	Name string `json:"name,omitempty"`
	// Description provides the free-text description of the work.
	Description string `json:"description,omitempty"`
	// RequiredTools lists tool identifiers the task needs, in order.
	RequiredTools []string `json:"required_tools,omitempty"`
	// Parameters is a free-form parameter bag passed to the tool executor.
	Parameters map[string]string `json:"parameters,omitempty"`
	// Priority is the task's urgency.
	Priority Priority `json:"priority" validate:"required"`
	// Timeout bounds execution; zero means the pool default applies.
	Timeout time.Duration `json:"timeout,omitempty" validate:"gte=0"`
	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`
}

// TaskResult captures the outcome of executing a task on a worker.
type TaskResult struct {
	// TaskID is the ID of the executed task.
	TaskID string `json:"task_id"`
	// WorkerID is the ID of the worker that executed the task.
	WorkerID string `json:"worker_id"`
	// Success reports whether the tool executor succeeded.
	Success bool `json:"success"`
	// Output is the executor's output text.
	Output string `json:"output,omitempty"`
	// ErrorMessage carries the executor's failure message, if any.
	ErrorMessage string `json:"error_message,omitempty"`
	// ToolUsed is the tool identifier the executor ran.
	ToolUsed string `json:"tool_used,omitempty"`
	// Elapsed is the wall-clock execution time.
	Elapsed time.Duration `json:"elapsed"`
	// QualityScore is a placeholder until arbitration assigns a real score.
	QualityScore float64 `json:"quality_score"`
}
