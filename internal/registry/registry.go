// Package registry provides the in-memory worker directory and tool
// registry backing dispatch decisions.
package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quorumhq/quorum/internal/decomposer"
	"github.com/quorumhq/quorum/pkg/models"
)

// ErrNoSuitableWorker is returned when no registered worker matches the
// specialty inferred for a task.
var ErrNoSuitableWorker = errors.New("no suitable worker registered")

// ErrWorkerNotFound is returned when a worker ID is not registered.
var ErrWorkerNotFound = errors.New("worker not found")

// Registry is the thread-safe directory of registered workers.
// Workers are matched first-fit in registration order; same-specialty
// workers are not load-balanced (a documented simplification).
type Registry struct {
	// workers maps worker IDs to handles.
	workers map[string]*models.WorkerHandle
	// order preserves registration order for first-fit matching.
	order []string
	// mu protects all fields.
	mu sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		workers: make(map[string]*models.WorkerHandle),
	}
}

// Register allocates a fresh worker ID, stores the handle, and returns it.
// Duplicate specialties are allowed; idempotency is the caller's concern.
func (r *Registry) Register(specialty models.Specialty, caps models.Capabilities) *models.WorkerHandle {
	if caps.Health == "" {
		caps.Health = models.HealthHealthy
	}
	handle := &models.WorkerHandle{
		ID:           uuid.New().String()[:8],
		Specialty:    specialty,
		Capabilities: caps,
		RegisteredAt: time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.workers[handle.ID] = handle
	r.order = append(r.order, handle.ID)
	return handle
}

// Deregister removes a worker from the registry.
func (r *Registry) Deregister(workerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workers[workerID]; !ok {
		return fmt.Errorf("deregister %s: %w", workerID, ErrWorkerNotFound)
	}
	delete(r.workers, workerID)
	for i, id := range r.order {
		if id == workerID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// UpdateHealth records a health-check result for a worker. Health state
// changes only through this call.
func (r *Registry) UpdateHealth(workerID string, status models.HealthStatus) error {
	if !status.Valid() {
		return fmt.Errorf("update health %s: invalid status %q", workerID, status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	handle, ok := r.workers[workerID]
	if !ok {
		return fmt.Errorf("update health %s: %w", workerID, ErrWorkerNotFound)
	}
	handle.Capabilities.Health = status
	return nil
}

// FindSuitableWorker returns the first registered worker whose specialty
// matches the one inferred from the task's name, scanning in registration
// order. The description does not participate in routing; a keyword there
// influences analysis but not worker choice. Returns ErrNoSuitableWorker
// when nothing matches.
func (r *Registry) FindSuitableWorker(task models.Task) (*models.WorkerHandle, error) {
	wanted := decomposer.SpecialtyFor(decomposer.Classify(task.Name, ""))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		handle := r.workers[id]
		if handle.Specialty.Kind == wanted {
			return handle, nil
		}
	}
	return nil, fmt.Errorf("specialty %s: %w", wanted, ErrNoSuitableWorker)
}

// Get returns the handle for a worker ID, or nil if not registered.
func (r *Registry) Get(workerID string) *models.WorkerHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.workers[workerID]
}

// Count returns the number of registered workers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workers)
}

// AllWorkers returns all registered workers in registration order.
func (r *Registry) AllWorkers() []*models.WorkerHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	workers := make([]*models.WorkerHandle, 0, len(r.order))
	for _, id := range r.order {
		workers = append(workers, r.workers[id])
	}
	return workers
}

// AggregateHealth recomputes pool health on demand: unhealthy when more
// than half the workers are unavailable, degraded when any are, healthy
// otherwise.
func (r *Registry) AggregateHealth() models.HealthStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.workers)
	unavailable := 0
	for _, handle := range r.workers {
		if handle.Capabilities.Health.Unavailable() {
			unavailable++
		}
	}

	switch {
	case total > 0 && unavailable*2 > total:
		return models.HealthUnhealthy
	case unavailable > 0:
		return models.HealthDegraded
	default:
		return models.HealthHealthy
	}
}

// UnavailableCount returns the number of unhealthy or offline workers.
func (r *Registry) UnavailableCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, handle := range r.workers {
		if handle.Capabilities.Health.Unavailable() {
			n++
		}
	}
	return n
}
