package gate

import (
	"errors"
	"testing"

	"github.com/storyforge-dev/storyforge/internal/analytics"
)

func TestCheck_UnderLimit(t *testing.T) {
	for used := 0; used < UserStoryLimit; used++ {
		if err := Check(analytics.TypeUserStory, used); err != nil {
			t.Errorf("used=%d: unexpected error %v", used, err)
		}
	}
	for used := 0; used < PRDLimit; used++ {
		if err := Check(analytics.TypePRD, used); err != nil {
			t.Errorf("used=%d: unexpected error %v", used, err)
		}
	}
}

func TestCheck_AtAndOverLimit(t *testing.T) {
	err := Check(analytics.TypeUserStory, UserStoryLimit)
	var limitErr *LimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected LimitError, got %v", err)
	}
	if limitErr.Limit != UserStoryLimit {
		t.Errorf("Limit = %d, want %d", limitErr.Limit, UserStoryLimit)
	}

	if err := Check(analytics.TypePRD, PRDLimit+2); err == nil {
		t.Error("expected error over the limit")
	}
}

func TestCheck_WorkflowIsUnlimited(t *testing.T) {
	if err := Check(analytics.TypeUserStoryWorkflow, 100); err != nil {
		t.Errorf("workflow generations must not be gated, got %v", err)
	}
	if Limit(analytics.TypeUserStoryWorkflow) != 0 {
		t.Error("workflow limit should be 0 (unlimited)")
	}
}

func TestWarnAfter(t *testing.T) {
	cases := []struct {
		t     analytics.GenerationType
		count int
		warn  bool
	}{
		{analytics.TypeUserStory, 1, false},
		{analytics.TypeUserStory, 2, false},
		{analytics.TypeUserStory, 3, true},
		{analytics.TypeUserStory, 4, true},
		{analytics.TypeUserStory, 5, false},
		{analytics.TypePRD, 1, false},
		{analytics.TypePRD, 2, true},
		{analytics.TypePRD, 3, true},
		{analytics.TypeUserStoryWorkflow, 3, false},
	}
	for _, tc := range cases {
		got := WarnAfter(tc.t, tc.count)
		if (got != "") != tc.warn {
			t.Errorf("WarnAfter(%s, %d) = %q, warn expected: %v", tc.t, tc.count, got, tc.warn)
		}
	}
}
