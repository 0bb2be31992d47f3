package decomposer

import (
	"strings"

	"github.com/quorumhq/quorum/pkg/models"
)

// Classify assigns a task to exactly one category by keyword matching over
// its name and description. When a task matches more than one category the
// first match wins, in the order react-component, file-editing, research,
// code-generation.
func Classify(name, description string) models.TaskCategory {
	text := strings.ToLower(name + " " + description)

	switch {
	case strings.Contains(text, "react") || strings.Contains(text, "component"):
		return models.CategoryReactComponent
	case strings.Contains(text, "file") || strings.Contains(text, "edit"):
		return models.CategoryFileEditing
	case strings.Contains(text, "research") || strings.Contains(text, "search"):
		return models.CategoryResearch
	default:
		return models.CategoryCodeGeneration
	}
}

// SpecialtyFor maps a task category onto the worker specialty that handles it.
func SpecialtyFor(category models.TaskCategory) models.SpecialtyKind {
	switch category {
	case models.CategoryReactComponent:
		return models.SpecialtyReactComponent
	case models.CategoryFileEditing:
		return models.SpecialtyFileEditing
	case models.CategoryResearch:
		return models.SpecialtyResearch
	default:
		return models.SpecialtyGeneral
	}
}
