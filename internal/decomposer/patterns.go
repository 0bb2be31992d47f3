package decomposer

import (
	"github.com/quorumhq/quorum/pkg/models"
)

// identifyPatterns produces the ordered subtask patterns for a task in the
// given category. React component tasks always split into three fixed
// patterns; other categories produce a single pattern. The catch-all
// general pattern carries the task's original required tools unchanged.
func identifyPatterns(task models.Task, category models.TaskCategory) ([]models.TaskPattern, error) {
	switch category {
	case models.CategoryReactComponent:
		return []models.TaskPattern{
			{
				Category:         models.CategoryReactComponent,
				Description:      "Component logic and props",
				ComplexityWeight: 3.0,
				RequiredTools:    []string{"file-editor"},
			},
			{
				Category:         models.CategoryReactComponent,
				Description:      "SCSS module styling",
				ComplexityWeight: 2.0,
				RequiredTools:    []string{"file-editor"},
			},
			{
				Category:         models.CategoryReactComponent,
				Description:      "Utility functions",
				ComplexityWeight: 1.5,
				RequiredTools:    []string{"file-editor"},
			},
		}, nil
	case models.CategoryFileEditing:
		return []models.TaskPattern{
			{
				Category:         models.CategoryFileEditing,
				Description:      "Targeted file edits",
				ComplexityWeight: 2.5,
				RequiredTools:    []string{"file-editor"},
			},
		}, nil
	case models.CategoryResearch:
		return []models.TaskPattern{
			{
				Category:         models.CategoryResearch,
				Description:      "Research and synthesis",
				ComplexityWeight: 3.5,
				RequiredTools:    []string{"web-search"},
			},
		}, nil
	case models.CategoryCodeGeneration:
		return []models.TaskPattern{
			{
				Category:         models.CategoryCodeGeneration,
				Description:      "General implementation work",
				ComplexityWeight: 1.0,
				RequiredTools:    task.RequiredTools,
			},
		}, nil
	default:
		// Unreachable given the closed category set. Surfaced loudly so a
		// future category addition cannot silently drop tasks.
		return nil, &DecompositionError{
			TaskID: task.ID,
			Reason: "pattern identification failed: unknown category " + string(category),
		}
	}
}
