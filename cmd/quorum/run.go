package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quorumhq/quorum/internal/config"
	"github.com/quorumhq/quorum/internal/coordinator"
	"github.com/quorumhq/quorum/internal/decomposer"
	"github.com/quorumhq/quorum/internal/dispatch"
	"github.com/quorumhq/quorum/internal/queue"
	"github.com/quorumhq/quorum/pkg/models"
)

var (
	runPriority string
	runTools    []string
	runTimeout  time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run <task description>",
	Short: "Run a task through the full pipeline",
	Long: `Analyze a task, fan it out into subtasks, dispatch them through
admission control to a demo worker pool, and arbitrate the results.

The demo pool registers one worker per specialty and echoes subtask
parameters back as output, so the pipeline can be exercised without an
external execution backend.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVarP(&runPriority, "priority", "p", "normal", "Task priority (low, normal, high, critical)")
	runCmd.Flags().StringSliceVar(&runTools, "tools", []string{"file-editor"}, "Tools the task requires")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Per-task timeout (0 uses the configured default)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	priority := models.Priority(runPriority)
	if !priority.Valid() {
		return fmt.Errorf("invalid priority %q (want low, normal, high, or critical)", runPriority)
	}

	logger, err := coordinator.NewDebugLogger(cfg.Logging.DebugLog)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}

	coord, err := coordinator.New(coordinator.Config{
		Analyzer: decomposer.NewAnalyzer(decomposer.WithThresholds(decomposer.Thresholds{
			ReactComponent: cfg.Thresholds.ReactComponent,
			FileEditing:    cfg.Thresholds.FileEditing,
			Research:       cfg.Thresholds.Research,
			CodeGeneration: cfg.Thresholds.CodeGeneration,
		})),
		Monitor:        queue.NewMonitor(cfg.Queue.Window, cfg.Queue.BackpressureThreshold),
		Executor:       dispatch.EchoExecutor{},
		DefaultTimeout: cfg.Dispatch.DefaultTimeout,
		EventBuffer:    cfg.Dispatch.EventBuffer,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("build coordinator: %w", err)
	}
	defer coord.Close()

	registerDemoPool(coord)

	task := models.Task{
		Name:          strings.Join(args, " "),
		RequiredTools: runTools,
		Priority:      priority,
		Timeout:       runTimeout,
	}

	analysis, err := coord.SubmitTask(task)
	if err != nil {
		return err
	}
	task.ID = analysis.TaskID

	printAnalysis(analysis)

	outputs := executeSubtasks(coord, task, analysis)
	if len(outputs) == 0 {
		fmt.Println("\nNo subtasks completed; nothing to arbitrate.")
		return nil
	}

	verdict, err := coord.Arbitrate(outputs)
	if err != nil {
		return err
	}

	printVerdict(verdict)
	printPoolStats(coord)
	return nil
}

// registerDemoPool stands up one worker per specialty plus the demo tools.
func registerDemoPool(coord *coordinator.Coordinator) {
	for _, tool := range runTools {
		coord.RegisterTool(tool, "demo tool")
	}
	coord.RegisterTool("file-editor", "demo file editor")
	coord.RegisterTool("web-search", "demo web search")

	coord.RegisterWorker(models.GeneralSpecialty(), models.Capabilities{MaxConcurrent: 4})
	coord.RegisterWorker(models.Specialty{Kind: models.SpecialtyReactComponent}, models.Capabilities{MaxConcurrent: 2})
	coord.RegisterWorker(models.Specialty{Kind: models.SpecialtyFileEditing}, models.Capabilities{MaxConcurrent: 2})
	coord.RegisterWorker(models.Specialty{Kind: models.SpecialtyResearch}, models.Capabilities{MaxConcurrent: 2})
}

// executeSubtasks fans the task out and runs each admitted subtask,
// collecting one synthesized output per completed subtask.
func executeSubtasks(coord *coordinator.Coordinator, task models.Task, analysis models.TaskAnalysis) []models.WorkerOutput {
	var outputs []models.WorkerOutput

	fmt.Println()
	for _, sub := range coord.FanOut(task, analysis) {
		if decision := coord.Dispatch(sub); decision == dispatch.DecisionDeferred {
			color.Yellow("  deferred  %s (%s)", sub.ID, sub.Name)
			continue
		}

		result, err := coord.ExecuteTask(context.Background(), sub)
		if err != nil {
			color.Red("  failed    %s: %v", sub.ID, err)
			continue
		}
		if !result.Success {
			color.Red("  failed    %s: %s", sub.ID, result.ErrorMessage)
			continue
		}

		color.Green("  completed %s (%s) in %s", sub.ID, sub.Name, result.Elapsed.Round(time.Millisecond))
		outputs = append(outputs, models.WorkerOutput{
			WorkerID:       result.WorkerID,
			TaskID:         task.ID,
			Output:         result.Output,
			Confidence:     0.8,
			QualityScore:   0.8,
			ResponseTimeMs: float64(result.Elapsed.Microseconds())/1000 + 1,
		})
	}

	return outputs
}

func printAnalysis(analysis models.TaskAnalysis) {
	bold := color.New(color.Bold)
	bold.Printf("Task %s\n", analysis.TaskID)
	fmt.Printf("  category:   %s\n", analysis.Category)
	fmt.Printf("  complexity: %.1f\n", analysis.ComplexityScore)
	fmt.Printf("  decompose:  %t (%d subtasks)\n", analysis.ShouldDecompose, analysis.EstimatedSubtasks)
}

func printVerdict(verdict models.ArbitrationVerdict) {
	bold := color.New(color.Bold)
	fmt.Println()
	bold.Println("Verdict")
	fmt.Printf("  winner:    %s\n", verdict.WinnerID)
	fmt.Printf("  quality:   %.2f\n", verdict.QualityScore)
	fmt.Printf("  consensus: %.2f\n", verdict.ConsensusScore)
	fmt.Printf("  reasoning: %s\n", verdict.Reasoning)
	for _, insight := range verdict.Insights.OptimizationSuggestions {
		fmt.Printf("  hint:      %s\n", insight)
	}
}

func printPoolStats(coord *coordinator.Coordinator) {
	stats := coord.GetPoolStats()
	health := coord.QueueHealth()

	fmt.Println()
	fmt.Printf("Pool: %d workers (%s), %d completed, %d failed, %d deferred\n",
		stats.TotalWorkers, stats.PoolHealth, stats.CompletedTasks, stats.FailedTasks, stats.DeferredTasks)
	fmt.Printf("Queue: %.0f%% utilized", health.UtilizationPercentage())
	if health.ShouldApplyBackpressure() {
		color.Yellow(" (backpressure active)")
	} else {
		fmt.Println()
	}

	if dropped := coord.DroppedEventCount(); dropped > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d events dropped\n", dropped)
	}
}
