// Package coordinator wires decomposition, admission-controlled dispatch,
// and arbitration into one pipeline.
package coordinator

import (
	"sync/atomic"
	"time"
)

// EventType represents the type of coordinator event.
type EventType string

const (
	// EventTaskAnalyzed indicates a submitted task has been analyzed.
	EventTaskAnalyzed EventType = "task_analyzed"
	// EventSubtaskAdmitted indicates a subtask passed admission control.
	EventSubtaskAdmitted EventType = "subtask_admitted"
	// EventSubtaskDeferred indicates a subtask was deferred by backpressure.
	EventSubtaskDeferred EventType = "subtask_deferred"
	// EventTaskStarted indicates a task has started execution.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted indicates a task completed successfully.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates a task failed.
	EventTaskFailed EventType = "task_failed"
	// EventWorkerRegistered indicates a worker joined the pool.
	EventWorkerRegistered EventType = "worker_registered"
	// EventVerdictIssued indicates arbitration produced a verdict.
	EventVerdictIssued EventType = "verdict_issued"
)

// Event represents an event emitted by the coordinator pipeline.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// TaskID is the ID of the related task, if applicable.
	TaskID string
	// WorkerID is the ID of the related worker, if applicable.
	WorkerID string
	// Message provides additional context about the event.
	Message string
	// Error contains error details for failure events.
	Error error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// eventEmitter delivers coordinator events to a subscriber without ever
// blocking the pipeline: a full channel drops the event and counts it.
type eventEmitter struct {
	events       chan Event
	droppedCount atomic.Uint64

	// logf records drop telemetry; nil disables it.
	logf func(format string, args ...interface{})
}

func newEventEmitter(bufferSize int, logf func(format string, args ...interface{})) *eventEmitter {
	return &eventEmitter{
		events: make(chan Event, bufferSize),
		logf:   logf,
	}
}

// emit sends an event, dropping it if the subscriber is not keeping up.
func (e *eventEmitter) emit(event Event) {
	event.Timestamp = time.Now()
	select {
	case e.events <- event:
	default:
		count := e.droppedCount.Add(1)
		if count%10 == 1 && e.logf != nil { // Log every 10th drop to avoid spam
			e.logf("[coordinator] event channel full, dropped event (total dropped: %d): type=%s", count, event.Type)
		}
	}
}

// DroppedCount returns the total number of dropped events.
func (e *eventEmitter) DroppedCount() uint64 {
	return e.droppedCount.Load()
}
