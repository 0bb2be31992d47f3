package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quorumhq/quorum/internal/queue"
	"github.com/quorumhq/quorum/internal/registry"
	"github.com/quorumhq/quorum/pkg/models"
)

// Decision is the outcome of an admission check.
type Decision string

const (
	// DecisionAdmitted means the subtask may be dispatched now.
	DecisionAdmitted Decision = "admitted"
	// DecisionDeferred means the caller should back off and retry.
	// Deferral is not an error and leaves no state behind.
	DecisionDeferred Decision = "deferred"
)

// DefaultTaskTimeout bounds execution when a task carries no timeout.
const DefaultTaskTimeout = 2 * time.Minute

// Dispatcher combines queue-health admission control with first-fit worker
// matching and drives the external tool executor.
type Dispatcher struct {
	workers  *registry.Registry
	tools    *registry.ToolRegistry
	monitor  *queue.Monitor
	executor ToolExecutor

	// defaultTimeout applies to tasks without their own timeout.
	defaultTimeout time.Duration

	// counters track task outcomes; guarded separately from the registry.
	mu        sync.RWMutex
	active    int
	completed int64
	failed    int64
	deferred  int64
}

// Config carries the dispatcher's collaborators.
type Config struct {
	Workers  *registry.Registry
	Tools    *registry.ToolRegistry
	Monitor  *queue.Monitor
	Executor ToolExecutor
	// DefaultTimeout overrides DefaultTaskTimeout when positive.
	DefaultTimeout time.Duration
}

// NewDispatcher creates a Dispatcher from the given collaborators.
func NewDispatcher(cfg Config) *Dispatcher {
	timeout := cfg.DefaultTimeout
	if timeout <= 0 {
		timeout = DefaultTaskTimeout
	}
	return &Dispatcher{
		workers:        cfg.Workers,
		tools:          cfg.Tools,
		monitor:        cfg.Monitor,
		executor:       cfg.Executor,
		defaultTimeout: timeout,
	}
}

// SetDefaultTimeout updates the pool default timeout. Used by config reload.
func (d *Dispatcher) SetDefaultTimeout(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.defaultTimeout = timeout
}

// Admit decides whether a subtask may be dispatched. The check is
// synchronous, never blocks on I/O, and records admitted arrivals in the
// queue window. A deferred task is retryable by the caller.
func (d *Dispatcher) Admit(task models.Task) Decision {
	if !d.monitor.ShouldAcceptTask(task.Priority.AdmissionValue()) {
		d.mu.Lock()
		d.deferred++
		d.mu.Unlock()
		return DecisionDeferred
	}

	d.monitor.RecordArrival()
	return DecisionAdmitted
}

// ExecuteTask runs the full dispatch pipeline for one task: match a worker,
// validate tool requirements, build the execution context, and invoke the
// external executor under the task's timeout.
//
// Executor failures are wrapped as ToolExecutionError and never retried
// here; retry policy belongs to the orchestration layer above.
func (d *Dispatcher) ExecuteTask(ctx context.Context, task models.Task) (models.TaskResult, error) {
	worker, err := d.workers.FindSuitableWorker(task)
	if err != nil {
		return models.TaskResult{}, fmt.Errorf("dispatch task %s: %w", task.ID, err)
	}

	if err := d.tools.ValidateTaskRequirements(task); err != nil {
		return models.TaskResult{}, fmt.Errorf("dispatch task %s: %w", task.ID, err)
	}

	timeout := task.Timeout
	if timeout <= 0 {
		d.mu.RLock()
		timeout = d.defaultTimeout
		d.mu.RUnlock()
	}

	ec := ExecutionContext{
		TaskID:     task.ID,
		WorkerID:   worker.ID,
		Parameters: task.Parameters,
		Timeout:    timeout,
	}
	if len(task.RequiredTools) > 0 {
		ec.ToolID = task.RequiredTools[0]
	}

	d.mu.Lock()
	d.active++
	d.mu.Unlock()

	start := time.Now()
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outcome, execErr := d.executor.Execute(execCtx, ec)
	elapsed := time.Since(start)

	d.mu.Lock()
	d.active--
	d.mu.Unlock()
	d.monitor.RecordCompletion(elapsed)

	if execErr != nil {
		d.recordFailure()
		if errors.Is(execErr, context.DeadlineExceeded) || execCtx.Err() == context.DeadlineExceeded {
			return models.TaskResult{}, fmt.Errorf("dispatch task %s after %s: %w", task.ID, elapsed, ErrTimeoutExceeded)
		}
		return models.TaskResult{}, fmt.Errorf("dispatch task %s: %w", task.ID, &ToolExecutionError{Message: execErr.Error()})
	}

	result := models.TaskResult{
		TaskID:       task.ID,
		WorkerID:     worker.ID,
		Success:      outcome.Success,
		Output:       outcome.Output,
		ErrorMessage: outcome.ErrorMessage,
		ToolUsed:     outcome.ToolID,
		Elapsed:      elapsed,
		// Placeholder until arbitration assigns a real score.
		QualityScore: 0,
	}

	if outcome.Success {
		d.recordSuccess()
	} else {
		d.recordFailure()
	}
	return result, nil
}

// Stats returns the dispatcher's task counters merged with registry and
// queue state. Reads are eventually consistent with in-flight work.
func (d *Dispatcher) Stats() models.WorkerPoolStats {
	d.mu.RLock()
	active, completed, failed, deferred := d.active, d.completed, d.failed, d.deferred
	d.mu.RUnlock()

	return models.WorkerPoolStats{
		TotalWorkers:       d.workers.Count(),
		UnavailableWorkers: d.workers.UnavailableCount(),
		ActiveTasks:        active,
		CompletedTasks:     completed,
		FailedTasks:        failed,
		DeferredTasks:      deferred,
		PoolHealth:         d.workers.AggregateHealth(),
	}
}

// QueueHealth returns the current queue health snapshot.
func (d *Dispatcher) QueueHealth() queue.Health {
	return d.monitor.Snapshot()
}

func (d *Dispatcher) recordSuccess() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.completed++
}

func (d *Dispatcher) recordFailure() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failed++
}
