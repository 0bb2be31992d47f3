package models

import "time"

// SpecialtyKind identifies what category of subtask a worker is suited for.
type SpecialtyKind string

const (
	// SpecialtyGeneral handles any task without a better match.
	SpecialtyGeneral SpecialtyKind = "general"
	// SpecialtyFileEditing handles file modification tasks.
	SpecialtyFileEditing SpecialtyKind = "file-editing"
	// SpecialtyResearch handles research and search tasks.
	SpecialtyResearch SpecialtyKind = "research"
	// SpecialtyReactComponent handles React component tasks.
	SpecialtyReactComponent SpecialtyKind = "react-component"
	// SpecialtyCompilationErrors handles compiler error fixing.
	SpecialtyCompilationErrors SpecialtyKind = "compilation-errors"
	// SpecialtyRefactoring handles code refactoring.
	SpecialtyRefactoring SpecialtyKind = "refactoring"
)

// Valid returns true if the specialty kind is a known value.
func (k SpecialtyKind) Valid() bool {
	switch k {
	case SpecialtyGeneral, SpecialtyFileEditing, SpecialtyResearch,
		SpecialtyReactComponent, SpecialtyCompilationErrors, SpecialtyRefactoring:
		return true
	default:
		return false
	}
}

// Specialty tags a worker with the category of work it handles.
// Some kinds carry extra detail: compilation-error workers list the error
// codes they know, refactoring workers list their strategies.
type Specialty struct {
	// Kind is the specialty category.
	Kind SpecialtyKind `json:"kind"`
	// ErrorCodes lists compiler error codes for compilation-errors workers.
	ErrorCodes []string `json:"error_codes,omitempty"`
	// Strategies lists refactoring strategies for refactoring workers.
	Strategies []string `json:"strategies,omitempty"`
}

// GeneralSpecialty returns a general-purpose specialty.
func GeneralSpecialty() Specialty {
	return Specialty{Kind: SpecialtyGeneral}
}

// CompilationErrorsSpecialty returns a specialty for the given error codes.
func CompilationErrorsSpecialty(codes ...string) Specialty {
	return Specialty{Kind: SpecialtyCompilationErrors, ErrorCodes: codes}
}

// RefactoringSpecialty returns a specialty for the given strategies.
func RefactoringSpecialty(strategies ...string) Specialty {
	return Specialty{Kind: SpecialtyRefactoring, Strategies: strategies}
}

// HealthStatus represents a worker's or pool's health.
type HealthStatus string

const (
	// HealthHealthy indicates normal operation.
	HealthHealthy HealthStatus = "healthy"
	// HealthDegraded indicates reduced capacity.
	HealthDegraded HealthStatus = "degraded"
	// HealthUnhealthy indicates the worker cannot take work.
	HealthUnhealthy HealthStatus = "unhealthy"
	// HealthOffline indicates the worker is unreachable.
	HealthOffline HealthStatus = "offline"
)

// Valid returns true if the status is a known value.
func (h HealthStatus) Valid() bool {
	switch h {
	case HealthHealthy, HealthDegraded, HealthUnhealthy, HealthOffline:
		return true
	default:
		return false
	}
}

// Unavailable returns true if a worker with this status cannot take work.
func (h HealthStatus) Unavailable() bool {
	return h == HealthUnhealthy || h == HealthOffline
}

// Capabilities describes what a worker can do and its current health.
// Health is mutated only by explicit health-check updates.
type Capabilities struct {
	// Tools lists tool identifiers the worker can drive.
	Tools []string `json:"tools,omitempty"`
	// MaxConcurrent is the number of tasks the worker can run at once.
	MaxConcurrent int `json:"max_concurrent"`
	// Health is the worker's current health status.
	Health HealthStatus `json:"health"`
}

// WorkerHandle is the registry's record of a registered worker.
type WorkerHandle struct {
	// ID is the unique identifier assigned at registration.
	ID string `json:"id"`
	// Specialty tags the category of work this worker handles.
	Specialty Specialty `json:"specialty"`
	// Capabilities describes the worker's tools and health.
	Capabilities Capabilities `json:"capabilities"`
	// RegisteredAt is when the worker was registered.
	RegisteredAt time.Time `json:"registered_at"`
}

// WorkerPoolStats is a point-in-time snapshot of pool activity.
// Reads are eventually consistent with concurrent registrations.
type WorkerPoolStats struct {
	// TotalWorkers is the number of registered workers.
	TotalWorkers int `json:"total_workers"`
	// UnavailableWorkers is the number of unhealthy or offline workers.
	UnavailableWorkers int `json:"unavailable_workers"`
	// ActiveTasks is the number of tasks currently executing.
	ActiveTasks int `json:"active_tasks"`
	// CompletedTasks is the number of tasks that finished successfully.
	CompletedTasks int64 `json:"completed_tasks"`
	// FailedTasks is the number of tasks that failed.
	FailedTasks int64 `json:"failed_tasks"`
	// DeferredTasks is the number of tasks deferred by backpressure.
	DeferredTasks int64 `json:"deferred_tasks"`
	// PoolHealth is the aggregated pool health.
	PoolHealth HealthStatus `json:"pool_health"`
}
