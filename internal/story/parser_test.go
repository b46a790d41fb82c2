package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scrumStory = `## User Story: Password Reset

**User Story:**
As a registered user,
I want to reset my password via email,
So that I can regain access to my account.

**Acceptance Criteria:**
- Given a registered email, a reset link is sent within one minute
- The reset link expires after 24 hours
- Used links cannot be reused

**Technical Notes:**
Reset tokens are single use.

**Priority:** P1

**Estimated Story Points:** 5`

func TestParse_ScrumStory(t *testing.T) {
	s := Parse(scrumStory)

	assert.Equal(t, "User Story: Password Reset", s.Title)
	assert.Equal(t, TypeScrum, s.Type)
	require.NotNil(t, s.StoryPoints)
	assert.Equal(t, 5, *s.StoryPoints)
	assert.Equal(t, "P1", s.Priority)
	assert.Equal(t, []string{
		"Given a registered email, a reset link is sent within one minute",
		"The reset link expires after 24 hours",
		"Used links cannot be reused",
	}, s.AcceptanceCriteria)
	assert.Equal(t, scrumStory, s.FullContent)
}

func TestParse_JTBDStory(t *testing.T) {
	text := `**Job Story:**
When I finish a long reading session,
I want to bookmark my position,
So I can resume later.

**Success Criteria:**
- Position is saved automatically
- Resume works across devices

**Estimated Effort:** Medium`

	s := Parse(text)

	assert.Equal(t, TypeJTBD, s.Type)
	// No heading: the first non-blank line becomes the title.
	assert.Equal(t, "**Job Story:**", s.Title)
	assert.Nil(t, s.StoryPoints, "JTBD stories carry no point estimate")
	assert.Equal(t, []string{
		"Position is saved automatically",
		"Resume works across devices",
	}, s.AcceptanceCriteria, "success criteria parse like acceptance criteria")
}

func TestParse_SimpleStory(t *testing.T) {
	text := `**Feature:** Quick Export

**Description:**
Export the current view as CSV.`

	s := Parse(text)
	assert.Equal(t, TypeSimple, s.Type)
	assert.Equal(t, "**Feature:** Quick Export", s.Title)
	assert.Empty(t, s.AcceptanceCriteria)
}

func TestParse_HeadingWinsOverEarlierText(t *testing.T) {
	text := "Some preamble from the model.\n\n## The Actual Title\n\nAs a user, I want things."
	s := Parse(text)
	assert.Equal(t, "The Actual Title", s.Title)
}

func TestParse_Empty(t *testing.T) {
	s := Parse("")
	assert.Equal(t, "", s.Title)
	assert.Equal(t, TypeScrum, s.Type)
	assert.Nil(t, s.StoryPoints)
	assert.Empty(t, s.AcceptanceCriteria)
}

func TestParse_CaseInsensitiveLabels(t *testing.T) {
	text := "## T\n\n**acceptance criteria:**\n- one\n\n**estimated story points:** 8\n\n**priority:** p0"
	s := Parse(text)

	require.NotNil(t, s.StoryPoints)
	assert.Equal(t, 8, *s.StoryPoints)
	assert.Equal(t, "P0", s.Priority)
	assert.Equal(t, []string{"one"}, s.AcceptanceCriteria)
}

func TestParse_IsPure(t *testing.T) {
	first := Parse(scrumStory)
	second := Parse(scrumStory)
	assert.Equal(t, first, second)
}
