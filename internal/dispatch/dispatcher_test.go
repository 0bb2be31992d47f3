package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/quorumhq/quorum/internal/queue"
	"github.com/quorumhq/quorum/internal/registry"
	"github.com/quorumhq/quorum/pkg/models"
)

// recordingExecutor captures the execution context and returns a canned
// outcome.
type recordingExecutor struct {
	lastContext ExecutionContext
	outcome     ExecutionOutcome
	err         error
}

func (r *recordingExecutor) Execute(_ context.Context, ec ExecutionContext) (ExecutionOutcome, error) {
	r.lastContext = ec
	return r.outcome, r.err
}

// blockingExecutor waits for ctx cancellation and propagates its error.
type blockingExecutor struct{}

func (blockingExecutor) Execute(ctx context.Context, _ ExecutionContext) (ExecutionOutcome, error) {
	<-ctx.Done()
	return ExecutionOutcome{}, ctx.Err()
}

func newTestDispatcher(exec ToolExecutor) (*Dispatcher, *registry.Registry, *registry.ToolRegistry) {
	workers := registry.NewRegistry()
	tools := registry.NewToolRegistry()
	monitor := queue.NewMonitor(time.Minute, 0)
	d := NewDispatcher(Config{
		Workers:  workers,
		Tools:    tools,
		Monitor:  monitor,
		Executor: exec,
	})
	return d, workers, tools
}

func TestDispatcher_ExecuteTask_Success(t *testing.T) {
	exec := &recordingExecutor{outcome: ExecutionOutcome{Success: true, Output: "done", ToolID: "compiler"}}
	d, workers, tools := newTestDispatcher(exec)

	worker := workers.Register(models.GeneralSpecialty(), models.Capabilities{})
	tools.RegisterTool("compiler", "compiles code")

	task := models.Task{
		ID:            "t1",
		Name:          "implement parser",
		RequiredTools: []string{"compiler"},
		Parameters:    map[string]string{"target": "release"},
		Priority:      models.PriorityNormal,
		Timeout:       30 * time.Second,
	}

	result, err := d.ExecuteTask(context.Background(), task)
	if err != nil {
		t.Fatalf("ExecuteTask returned error: %v", err)
	}

	if !result.Success {
		t.Error("result should be successful")
	}
	if result.WorkerID != worker.ID {
		t.Errorf("WorkerID = %s, want %s", result.WorkerID, worker.ID)
	}
	if result.ToolUsed != "compiler" {
		t.Errorf("ToolUsed = %q, want compiler", result.ToolUsed)
	}
	if result.Elapsed < 0 {
		t.Errorf("Elapsed = %v, want >= 0", result.Elapsed)
	}
	if result.QualityScore != 0 {
		t.Errorf("QualityScore placeholder = %v, want 0", result.QualityScore)
	}

	// The execution context carries the first required tool, the task's
	// parameters, and the task's own timeout.
	if exec.lastContext.ToolID != "compiler" {
		t.Errorf("context ToolID = %q, want compiler", exec.lastContext.ToolID)
	}
	if exec.lastContext.Timeout != 30*time.Second {
		t.Errorf("context Timeout = %v, want 30s", exec.lastContext.Timeout)
	}
	if exec.lastContext.Parameters["target"] != "release" {
		t.Error("context should carry the task parameters")
	}

	stats := d.Stats()
	if stats.CompletedTasks != 1 {
		t.Errorf("CompletedTasks = %d, want 1", stats.CompletedTasks)
	}
}

func TestDispatcher_ExecuteTask_NoSuitableWorker(t *testing.T) {
	d, _, tools := newTestDispatcher(&recordingExecutor{})
	tools.RegisterTool("compiler", "")

	_, err := d.ExecuteTask(context.Background(), models.Task{ID: "t1", Name: "anything"})
	if !errors.Is(err, registry.ErrNoSuitableWorker) {
		t.Errorf("ExecuteTask = %v, want ErrNoSuitableWorker", err)
	}
}

func TestDispatcher_ExecuteTask_ToolNotAvailable(t *testing.T) {
	d, workers, _ := newTestDispatcher(&recordingExecutor{})
	workers.Register(models.GeneralSpecialty(), models.Capabilities{})

	task := models.Task{ID: "t1", Name: "build", RequiredTools: []string{"profiler"}}
	_, err := d.ExecuteTask(context.Background(), task)

	var toolErr *registry.ToolNotAvailableError
	if !errors.As(err, &toolErr) {
		t.Fatalf("ExecuteTask = %v, want ToolNotAvailableError", err)
	}
	if toolErr.Tool != "profiler" {
		t.Errorf("missing tool = %q, want profiler", toolErr.Tool)
	}
}

func TestDispatcher_ExecuteTask_ExecutorError(t *testing.T) {
	exec := &recordingExecutor{err: errors.New("sandbox crashed")}
	d, workers, _ := newTestDispatcher(exec)
	workers.Register(models.GeneralSpecialty(), models.Capabilities{})

	_, err := d.ExecuteTask(context.Background(), models.Task{ID: "t1", Name: "build"})

	var execErr *ToolExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("ExecuteTask = %v, want ToolExecutionError", err)
	}
	if execErr.Message != "sandbox crashed" {
		t.Errorf("Message = %q, want the executor's message verbatim", execErr.Message)
	}

	if got := d.Stats().FailedTasks; got != 1 {
		t.Errorf("FailedTasks = %d, want 1", got)
	}
}

func TestDispatcher_ExecuteTask_Timeout(t *testing.T) {
	d, workers, _ := newTestDispatcher(blockingExecutor{})
	workers.Register(models.GeneralSpecialty(), models.Capabilities{})

	task := models.Task{ID: "t1", Name: "build", Timeout: 20 * time.Millisecond}

	done := make(chan error, 1)
	go func() {
		_, err := d.ExecuteTask(context.Background(), task)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrTimeoutExceeded) {
			t.Errorf("ExecuteTask = %v, want ErrTimeoutExceeded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ExecuteTask must fail on timeout rather than hang")
	}
}

func TestDispatcher_ExecuteTask_UnsuccessfulOutcome(t *testing.T) {
	exec := &recordingExecutor{outcome: ExecutionOutcome{
		Success:      false,
		ErrorMessage: "lint failed",
		ToolID:       "linter",
	}}
	d, workers, tools := newTestDispatcher(exec)
	workers.Register(models.GeneralSpecialty(), models.Capabilities{})
	tools.RegisterTool("linter", "")

	task := models.Task{ID: "t1", Name: "build", RequiredTools: []string{"linter"}}
	result, err := d.ExecuteTask(context.Background(), task)
	if err != nil {
		t.Fatalf("an unsuccessful outcome is still a result, got error: %v", err)
	}
	if result.Success {
		t.Error("result should not be successful")
	}
	if result.ErrorMessage != "lint failed" {
		t.Errorf("ErrorMessage = %q, want the outcome's message", result.ErrorMessage)
	}
	if got := d.Stats().FailedTasks; got != 1 {
		t.Errorf("FailedTasks = %d, want 1", got)
	}
}

func TestDispatcher_Admit(t *testing.T) {
	d, _, _ := newTestDispatcher(&recordingExecutor{})

	task := models.Task{ID: "t1", Priority: models.PriorityLow}
	if got := d.Admit(task); got != DecisionAdmitted {
		t.Errorf("Admit on a healthy queue = %q, want admitted", got)
	}
}

func TestDispatcher_Admit_Backpressure(t *testing.T) {
	workers := registry.NewRegistry()
	tools := registry.NewToolRegistry()
	monitor := queue.NewMonitor(time.Minute, 0)
	d := NewDispatcher(Config{Workers: workers, Tools: tools, Monitor: monitor, Executor: EchoExecutor{}})

	// Overload the queue: many arrivals, few completions.
	for i := 0; i < 100; i++ {
		monitor.RecordArrival()
	}
	for i := 0; i < 10; i++ {
		monitor.RecordCompletion(10 * time.Millisecond)
	}

	if got := d.Admit(models.Task{ID: "low", Priority: models.PriorityLow}); got != DecisionDeferred {
		t.Errorf("low-priority Admit under backpressure = %q, want deferred", got)
	}
	if got := d.Admit(models.Task{ID: "crit", Priority: models.PriorityCritical}); got != DecisionAdmitted {
		t.Errorf("critical Admit under backpressure = %q, want admitted", got)
	}

	if got := d.Stats().DeferredTasks; got != 1 {
		t.Errorf("DeferredTasks = %d, want 1", got)
	}
}

func TestDispatcher_ConcurrentRegisterAndStats(t *testing.T) {
	d, workers, _ := newTestDispatcher(EchoExecutor{})

	const writers = 8
	const tasksPerWriter = 50
	const readers = 4
	const readsPerReader = 200

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < tasksPerWriter; i++ {
				handle := workers.Register(models.GeneralSpecialty(), models.Capabilities{})
				if i%10 == 0 {
					if err := workers.UpdateHealth(handle.ID, models.HealthDegraded); err != nil {
						t.Errorf("UpdateHealth returned error: %v", err)
					}
				}
				task := models.Task{ID: fmt.Sprintf("w%d-t%d", w, i), Name: "build"}
				if _, err := d.ExecuteTask(context.Background(), task); err != nil {
					t.Errorf("ExecuteTask returned error: %v", err)
				}
			}
		}(w)
	}

	// Concurrent readers may observe slightly stale counts but never
	// negative or inconsistent ones.
	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < readsPerReader; i++ {
				stats := d.Stats()
				if stats.TotalWorkers < 0 || stats.UnavailableWorkers < 0 ||
					stats.ActiveTasks < 0 || stats.CompletedTasks < 0 ||
					stats.FailedTasks < 0 || stats.DeferredTasks < 0 {
					t.Errorf("negative count in snapshot: %+v", stats)
				}
				if stats.UnavailableWorkers > stats.TotalWorkers+writers {
					t.Errorf("unavailable %d exceeds plausible total %d",
						stats.UnavailableWorkers, stats.TotalWorkers)
				}
			}
		}()
	}
	wg.Wait()

	stats := d.Stats()
	if stats.TotalWorkers != writers*tasksPerWriter {
		t.Errorf("final TotalWorkers = %d, want %d", stats.TotalWorkers, writers*tasksPerWriter)
	}
	if stats.CompletedTasks != writers*tasksPerWriter {
		t.Errorf("final CompletedTasks = %d, want %d", stats.CompletedTasks, writers*tasksPerWriter)
	}
	if stats.ActiveTasks != 0 {
		t.Errorf("final ActiveTasks = %d, want 0", stats.ActiveTasks)
	}
}

func TestDispatcher_DefaultTimeoutApplied(t *testing.T) {
	exec := &recordingExecutor{outcome: ExecutionOutcome{Success: true}}
	workers := registry.NewRegistry()
	tools := registry.NewToolRegistry()
	monitor := queue.NewMonitor(time.Minute, 0)
	d := NewDispatcher(Config{
		Workers:        workers,
		Tools:          tools,
		Monitor:        monitor,
		Executor:       exec,
		DefaultTimeout: 7 * time.Second,
	})
	workers.Register(models.GeneralSpecialty(), models.Capabilities{})

	if _, err := d.ExecuteTask(context.Background(), models.Task{ID: "t1", Name: "build"}); err != nil {
		t.Fatalf("ExecuteTask returned error: %v", err)
	}
	if exec.lastContext.Timeout != 7*time.Second {
		t.Errorf("context Timeout = %v, want the pool default 7s", exec.lastContext.Timeout)
	}
}
