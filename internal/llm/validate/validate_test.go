package validate

import (
	"strings"
	"testing"

	"github.com/storyforge-dev/storyforge/internal/analytics"
)

func TestContent_ValidUserStory(t *testing.T) {
	content := "## User Story: Login\n\n**User Story:**\nAs a registered user, I want to log in with my email so that I can access my saved work.\n\n**Acceptance Criteria:**\n- Given valid credentials, the user is signed in"

	res := Content(content, analytics.TypeUserStory)
	if !res.Passed {
		t.Errorf("expected pass, got %+v", res.Checks)
	}
}

func TestContent_Empty(t *testing.T) {
	for _, content := range []string{"", "   \n\t"} {
		res := Content(content, analytics.TypeUserStory)
		if res.Passed {
			t.Errorf("expected fail for %q", content)
		}
		if res.Checks.NotEmpty {
			t.Errorf("NotEmpty should be false for %q", content)
		}
	}
}

func TestContent_TooShort(t *testing.T) {
	res := Content("As a user, I want things.", analytics.TypeUserStory)
	if res.Passed {
		t.Error("expected fail for short content")
	}
	if !res.Checks.NotEmpty {
		t.Error("NotEmpty should hold")
	}
	if res.Checks.MinLength {
		t.Error("MinLength should fail")
	}
	if !res.Checks.HasStructure {
		t.Error("HasStructure should hold, content contains a story marker")
	}
}

func TestContent_StoryWithoutStructure(t *testing.T) {
	content := strings.Repeat("The system processes data and stores results for later retrieval. ", 5)
	res := Content(content, analytics.TypeUserStory)
	if res.Passed {
		t.Error("expected fail without story markers")
	}
	if res.Checks.HasStructure {
		t.Error("HasStructure should fail")
	}
}

func TestContent_PRDStructureMarkers(t *testing.T) {
	long := strings.Repeat("filler text to clear the length floor ", 5)

	cases := []struct {
		name    string
		content string
		want    bool
	}{
		{"heading", "# Title\n" + long, true},
		{"goals", "Goals\n" + long, true},
		{"requirements", "Requirements\n" + long, true},
		{"none", long, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Content(tc.content, analytics.TypePRD)
			if res.Checks.HasStructure != tc.want {
				t.Errorf("HasStructure = %v, want %v", res.Checks.HasStructure, tc.want)
			}
		})
	}
}

func TestContent_WorkflowUsesStoryMarkers(t *testing.T) {
	content := "Job Story: When I receive a weekly digest, I want to snooze it, so I can keep my inbox calm. " +
		strings.Repeat("More detail here. ", 3)
	res := Content(content, analytics.TypeUserStoryWorkflow)
	if !res.Passed {
		t.Errorf("expected pass, got %+v", res.Checks)
	}
}
