package registry

import (
	"fmt"
	"sync"

	"github.com/quorumhq/quorum/pkg/models"
)

// ToolNotAvailableError reports a required tool missing from the registry.
type ToolNotAvailableError struct {
	// Tool is the missing tool identifier.
	Tool string
}

// Error implements the error interface.
func (e *ToolNotAvailableError) Error() string {
	return fmt.Sprintf("tool not available: %s", e.Tool)
}

// ToolRegistry tracks the tool identifiers available to workers.
type ToolRegistry struct {
	tools map[string]string
	mu    sync.RWMutex
}

// NewToolRegistry creates an empty ToolRegistry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]string)}
}

// RegisterTool adds a tool with a human-readable description.
// Re-registering replaces the description.
func (t *ToolRegistry) RegisterTool(id, description string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tools[id] = description
}

// Has reports whether the tool is registered.
func (t *ToolRegistry) Has(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.tools[id]
	return ok
}

// Count returns the number of registered tools.
func (t *ToolRegistry) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.tools)
}

// ValidateTaskRequirements checks that every required tool is registered.
// The first missing tool short-circuits validation.
func (t *ToolRegistry) ValidateTaskRequirements(task models.Task) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, tool := range task.RequiredTools {
		if _, ok := t.tools[tool]; !ok {
			return &ToolNotAvailableError{Tool: tool}
		}
	}
	return nil
}
