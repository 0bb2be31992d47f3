// Package dispatch admits subtasks under queue-health backpressure and
// routes admitted tasks to matching workers for execution.
package dispatch

import (
	"context"
	"fmt"
	"time"
)

// ExecutionContext is the request handed to the external tool executor.
type ExecutionContext struct {
	// TaskID is the task being executed.
	TaskID string `json:"task_id"`
	// WorkerID is the worker assigned to the task.
	WorkerID string `json:"worker_id"`
	// ToolID is the tool the executor should run.
	ToolID string `json:"tool_id"`
	// Parameters is the task's parameter bag.
	Parameters map[string]string `json:"parameters,omitempty"`
	// Timeout bounds the execution.
	Timeout time.Duration `json:"timeout"`
}

// ExecutionOutcome is the external executor's response.
type ExecutionOutcome struct {
	// Success reports whether the tool ran successfully.
	Success bool `json:"success"`
	// Output is the tool's output text.
	Output string `json:"output,omitempty"`
	// ErrorMessage carries the failure message when Success is false.
	ErrorMessage string `json:"error_message,omitempty"`
	// ToolID is the tool that was run.
	ToolID string `json:"tool_id"`
}

// ToolExecutor is the external collaborator that performs a subtask's
// actual work. This package never implements tool execution itself.
// Execute must honor ctx cancellation.
type ToolExecutor interface {
	Execute(ctx context.Context, ec ExecutionContext) (ExecutionOutcome, error)
}

// EchoExecutor is a stand-in executor that succeeds immediately and echoes
// the execution context back. Used by the CLI demo pipeline.
type EchoExecutor struct{}

// Execute implements ToolExecutor.
func (EchoExecutor) Execute(_ context.Context, ec ExecutionContext) (ExecutionOutcome, error) {
	return ExecutionOutcome{
		Success: true,
		Output:  fmt.Sprintf("executed %s for task %s on worker %s", ec.ToolID, ec.TaskID, ec.WorkerID),
		ToolID:  ec.ToolID,
	}, nil
}
