// Package validate performs advisory quality checks on generated content.
// A failed validation is a signal, never a gate: callers log a warning and
// keep the content.
package validate

import (
	"strings"

	"github.com/storyforge-dev/storyforge/internal/analytics"
)

// Content length floor for any generated document.
const minLength = 100

// Checks reports the outcome of each individual validation check.
type Checks struct {
	NotEmpty     bool `json:"notEmpty"`
	MinLength    bool `json:"minLength"`
	HasStructure bool `json:"hasStructure"`
}

// Result is the aggregate validation outcome. Passed is true only when every
// check holds.
type Result struct {
	Passed bool   `json:"passed"`
	Checks Checks `json:"checks"`
}

// Content validates generated text for the given content type.
func Content(content string, t analytics.GenerationType) Result {
	checks := Checks{
		NotEmpty:  strings.TrimSpace(content) != "",
		MinLength: len(content) >= minLength,
	}

	switch t {
	case analytics.TypeUserStory, analytics.TypeUserStoryWorkflow:
		checks.HasStructure = strings.Contains(content, "User Story") ||
			strings.Contains(content, "Job Story") ||
			strings.Contains(content, "Feature:") ||
			strings.Contains(content, "As a")
	case analytics.TypePRD:
		checks.HasStructure = strings.Contains(content, "#") ||
			strings.Contains(content, "Product") ||
			strings.Contains(content, "Requirements") ||
			strings.Contains(content, "Goals")
	}

	return Result{
		Passed: checks.NotEmpty && checks.MinLength && checks.HasStructure,
		Checks: checks,
	}
}
