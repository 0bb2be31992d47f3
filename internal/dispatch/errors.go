package dispatch

import (
	"errors"
	"fmt"
)

// ErrTimeoutExceeded is returned when a task's execution outlives its
// timeout. The worker is not marked unhealthy by a timeout alone.
var ErrTimeoutExceeded = errors.New("task timeout exceeded")

// ToolExecutionError wraps a failure reported by the external tool
// executor. It is surfaced verbatim and never retried at this layer.
type ToolExecutionError struct {
	// Message is the executor's failure message.
	Message string
}

// Error implements the error interface.
func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool execution failed: %s", e.Message)
}
