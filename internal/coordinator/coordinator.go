package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/quorumhq/quorum/internal/arbiter"
	"github.com/quorumhq/quorum/internal/decomposer"
	"github.com/quorumhq/quorum/internal/dispatch"
	"github.com/quorumhq/quorum/internal/queue"
	"github.com/quorumhq/quorum/internal/registry"
	"github.com/quorumhq/quorum/pkg/models"
)

// defaultEventBuffer sizes the event channel.
const defaultEventBuffer = 100

// Config carries the coordinator's collaborators. Zero-value fields get
// sensible defaults; only Executor is required.
type Config struct {
	// Analyzer scores and decomposes tasks.
	Analyzer *decomposer.Analyzer
	// Workers is the worker directory.
	Workers *registry.Registry
	// Tools is the tool registry backing requirement validation.
	Tools *registry.ToolRegistry
	// Monitor drives admission control.
	Monitor *queue.Monitor
	// Executor performs the actual subtask work. Required.
	Executor dispatch.ToolExecutor
	// DefaultTimeout bounds tasks that carry no timeout.
	DefaultTimeout time.Duration
	// EventBuffer sizes the event channel; zero means the default.
	EventBuffer int
	// Logger receives debug output; nil disables it.
	Logger *DebugLogger
}

// Coordinator exposes the public pipeline operations: submit, dispatch,
// register, execute, stats, health, and arbitrate.
type Coordinator struct {
	analyzer   *decomposer.Analyzer
	workers    *registry.Registry
	tools      *registry.ToolRegistry
	monitor    *queue.Monitor
	dispatcher *dispatch.Dispatcher
	engine     *arbiter.Engine

	validate *validator.Validate
	emitter  *eventEmitter
	logger   *DebugLogger
}

// New creates a Coordinator from the given config.
func New(cfg Config) (*Coordinator, error) {
	if cfg.Executor == nil {
		return nil, fmt.Errorf("coordinator: Executor is required")
	}

	if cfg.Analyzer == nil {
		cfg.Analyzer = decomposer.NewAnalyzer()
	}
	if cfg.Workers == nil {
		cfg.Workers = registry.NewRegistry()
	}
	if cfg.Tools == nil {
		cfg.Tools = registry.NewToolRegistry()
	}
	if cfg.Monitor == nil {
		cfg.Monitor = queue.NewMonitor(0, 0)
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	if cfg.Logger == nil {
		cfg.Logger = NopLogger()
	}

	c := &Coordinator{
		analyzer: cfg.Analyzer,
		workers:  cfg.Workers,
		tools:    cfg.Tools,
		monitor:  cfg.Monitor,
		dispatcher: dispatch.NewDispatcher(dispatch.Config{
			Workers:        cfg.Workers,
			Tools:          cfg.Tools,
			Monitor:        cfg.Monitor,
			Executor:       cfg.Executor,
			DefaultTimeout: cfg.DefaultTimeout,
		}),
		engine:   arbiter.NewEngine(arbiter.WithLogf(cfg.Logger.Log)),
		validate: validator.New(),
		emitter:  newEventEmitter(cfg.EventBuffer, cfg.Logger.Log),
		logger:   cfg.Logger,
	}
	return c, nil
}

// SubmitTask validates and analyzes a task. The returned analysis carries
// the task's assigned ID when the caller left it empty.
func (c *Coordinator) SubmitTask(task models.Task) (models.TaskAnalysis, error) {
	if task.Priority == "" {
		task.Priority = models.PriorityNormal
	}
	if !task.Priority.Valid() {
		return models.TaskAnalysis{}, fmt.Errorf("submit task: invalid priority %q", task.Priority)
	}
	if err := c.validate.Struct(task); err != nil {
		return models.TaskAnalysis{}, fmt.Errorf("submit task: %w", err)
	}
	if task.ID == "" {
		task.ID = uuid.New().String()[:8]
	}

	analysis, err := c.analyzer.Analyze(task)
	if err != nil {
		// Analysis failures are defects, not retryable conditions.
		c.logger.Log("[coordinator] ANALYSIS FAILURE for task %s: %v", task.ID, err)
		return models.TaskAnalysis{}, fmt.Errorf("submit task %s: %w", task.ID, err)
	}

	c.emitter.emit(Event{
		Type:    EventTaskAnalyzed,
		TaskID:  task.ID,
		Message: fmt.Sprintf("category=%s score=%.1f subtasks=%d", analysis.Category, analysis.ComplexityScore, analysis.EstimatedSubtasks),
	})
	c.logger.Log("[coordinator] analyzed task %s: category=%s score=%.2f decompose=%v",
		task.ID, analysis.Category, analysis.ComplexityScore, analysis.ShouldDecompose)
	return analysis, nil
}

// FanOut builds one subtask per identified pattern, in pattern order.
// Subtasks inherit the parent's priority, parameters, and timeout.
func (c *Coordinator) FanOut(task models.Task, analysis models.TaskAnalysis) []models.Task {
	subtasks := make([]models.Task, 0, len(analysis.Patterns))
	for i, pattern := range analysis.Patterns {
		subtasks = append(subtasks, models.Task{
			ID:            fmt.Sprintf("%s-sub-%d", analysis.TaskID, i+1),
			Name:          pattern.Description,
			Description:   task.Description,
			RequiredTools: pattern.RequiredTools,
			Parameters:    task.Parameters,
			Priority:      task.Priority,
			Timeout:       task.Timeout,
			CreatedAt:     time.Now(),
		})
	}
	return subtasks
}

// Dispatch runs admission control for one subtask. A deferred decision is
// a retry signal for the caller, not an error.
func (c *Coordinator) Dispatch(subtask models.Task) dispatch.Decision {
	decision := c.dispatcher.Admit(subtask)
	switch decision {
	case dispatch.DecisionAdmitted:
		c.emitter.emit(Event{Type: EventSubtaskAdmitted, TaskID: subtask.ID})
	case dispatch.DecisionDeferred:
		c.emitter.emit(Event{
			Type:    EventSubtaskDeferred,
			TaskID:  subtask.ID,
			Message: "backpressure active, retry later",
		})
	}
	return decision
}

// RegisterWorker adds a worker to the pool and returns its handle.
func (c *Coordinator) RegisterWorker(specialty models.Specialty, caps models.Capabilities) *models.WorkerHandle {
	handle := c.workers.Register(specialty, caps)
	c.emitter.emit(Event{
		Type:     EventWorkerRegistered,
		WorkerID: handle.ID,
		Message:  string(handle.Specialty.Kind),
	})
	return handle
}

// DeregisterWorker removes a worker from the pool.
func (c *Coordinator) DeregisterWorker(workerID string) error {
	return c.workers.Deregister(workerID)
}

// UpdateWorkerHealth records a health-check result for a worker.
func (c *Coordinator) UpdateWorkerHealth(workerID string, status models.HealthStatus) error {
	return c.workers.UpdateHealth(workerID, status)
}

// RegisterTool adds a tool to the tool registry.
func (c *Coordinator) RegisterTool(id, description string) {
	c.tools.RegisterTool(id, description)
}

// ExecuteTask runs the dispatch pipeline for one task and emits lifecycle
// events. Executor failures surface to the caller and are not retried.
func (c *Coordinator) ExecuteTask(ctx context.Context, task models.Task) (models.TaskResult, error) {
	c.emitter.emit(Event{Type: EventTaskStarted, TaskID: task.ID})

	result, err := c.dispatcher.ExecuteTask(ctx, task)
	if err != nil {
		c.emitter.emit(Event{Type: EventTaskFailed, TaskID: task.ID, Error: err})
		return models.TaskResult{}, err
	}

	if result.Success {
		c.emitter.emit(Event{Type: EventTaskCompleted, TaskID: task.ID, WorkerID: result.WorkerID})
	} else {
		c.emitter.emit(Event{
			Type:    EventTaskFailed,
			TaskID:  task.ID,
			Message: result.ErrorMessage,
		})
	}
	return result, nil
}

// Arbitrate resolves a set of competing worker outputs into one verdict.
// Arbitration only begins once the caller has collected every output for
// the decision; late outputs belong to a new arbitration call.
func (c *Coordinator) Arbitrate(outputs []models.WorkerOutput) (models.ArbitrationVerdict, error) {
	verdict, err := c.engine.ResolveConflicts(outputs)
	if err != nil {
		return models.ArbitrationVerdict{}, fmt.Errorf("arbitrate: %w", err)
	}

	c.emitter.emit(Event{
		Type:    EventVerdictIssued,
		TaskID:  verdict.TaskID,
		Message: fmt.Sprintf("winner=%s consensus=%.2f", verdict.WinnerID, verdict.ConsensusScore),
	})
	return verdict, nil
}

// SetBackpressureThreshold retunes the queue's backpressure threshold.
// Safe to call from a config reload callback while the pipeline runs.
func (c *Coordinator) SetBackpressureThreshold(threshold float64) {
	c.monitor.SetThreshold(threshold)
}

// SetDefaultTimeout retunes the pool default task timeout.
// Safe to call from a config reload callback while the pipeline runs.
func (c *Coordinator) SetDefaultTimeout(timeout time.Duration) {
	c.dispatcher.SetDefaultTimeout(timeout)
}

// GetPoolStats returns a snapshot of pool activity.
func (c *Coordinator) GetPoolStats() models.WorkerPoolStats {
	return c.dispatcher.Stats()
}

// QueueHealth returns the current queue health snapshot.
func (c *Coordinator) QueueHealth() queue.Health {
	return c.monitor.Snapshot()
}

// HealthCheck returns the aggregated pool health.
func (c *Coordinator) HealthCheck() models.HealthStatus {
	return c.workers.AggregateHealth()
}

// Events returns the channel for receiving pipeline events.
func (c *Coordinator) Events() <-chan Event {
	return c.emitter.events
}

// DroppedEventCount returns the number of events dropped because the
// subscriber fell behind.
func (c *Coordinator) DroppedEventCount() uint64 {
	return c.emitter.DroppedCount()
}

// Close releases the coordinator's resources.
func (c *Coordinator) Close() error {
	return c.logger.Close()
}
