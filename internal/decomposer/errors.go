package decomposer

import "fmt"

// DecompositionError describes a failure while analyzing a task.
// These are treated as defects rather than retryable conditions.
type DecompositionError struct {
	// TaskID is the task being analyzed.
	TaskID string
	// Reason describes what went wrong.
	Reason string
}

// Error implements the error interface.
func (e *DecompositionError) Error() string {
	return fmt.Sprintf("decomposition failed for task %s: %s", e.TaskID, e.Reason)
}
