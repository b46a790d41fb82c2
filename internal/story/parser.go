// Package story extracts structured fields from a generated user story so it
// can be submitted to an external document store. Parsing is pure text
// processing: no I/O, no hidden state, identical output for identical input.
package story

import (
	"regexp"
	"strconv"
	"strings"
)

// Story type classifications, inferred from the text's template markers.
const (
	TypeScrum  = "scrum"
	TypeJTBD   = "jtbd"
	TypeSimple = "simple"
)

// Story is the structured extraction of one generated text block. It is
// never persisted; it exists only for the duration of an export.
type Story struct {
	// Title is the first markdown heading, or the first non-blank line.
	Title string `json:"title"`
	// FullContent is the verbatim original text.
	FullContent string `json:"fullContent"`
	// Type is the inferred template classification.
	Type string `json:"type"`
	// StoryPoints is the labeled estimate, when present.
	StoryPoints *int `json:"storyPoints"`
	// Priority is P0, P1 or P2, when present.
	Priority string `json:"priority,omitempty"`
	// AcceptanceCriteria lists the dash-prefixed lines of the criteria
	// section, dashes stripped, in order.
	AcceptanceCriteria []string `json:"acceptanceCriteria"`
}

var (
	headingRe  = regexp.MustCompile(`^##\s*`)
	pointsRe   = regexp.MustCompile(`(?i)\*\*Estimated Story Points:\*\*\s*(\d+)`)
	priorityRe = regexp.MustCompile(`(?i)\*\*Priority:\*\*\s*(P[0-2])`)
	criteriaRe = regexp.MustCompile(`(?is)\*\*(?:Acceptance|Success) Criteria:\*\*(.*?)(?:\*\*|$)`)
)

// Parse extracts the structured fields from one generated text block.
func Parse(text string) *Story {
	s := &Story{
		FullContent:        text,
		Type:               TypeScrum,
		AcceptanceCriteria: []string{},
	}

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "##") {
			s.Title = strings.TrimSpace(headingRe.ReplaceAllString(trimmed, ""))
			break
		}
	}
	if s.Title == "" {
		for _, line := range lines {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				s.Title = trimmed
				break
			}
		}
	}

	if strings.Contains(text, "Job Story:") || strings.Contains(text, "When [") {
		s.Type = TypeJTBD
	} else if strings.Contains(text, "**Feature:**") {
		s.Type = TypeSimple
	}

	if m := pointsRe.FindStringSubmatch(text); m != nil {
		if points, err := strconv.Atoi(m[1]); err == nil {
			s.StoryPoints = &points
		}
	}

	if m := priorityRe.FindStringSubmatch(text); m != nil {
		s.Priority = strings.ToUpper(m[1])
	}

	if m := criteriaRe.FindStringSubmatch(text); m != nil {
		for _, line := range strings.Split(m[1], "\n") {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "-") {
				s.AcceptanceCriteria = append(s.AcceptanceCriteria, strings.TrimSpace(strings.TrimPrefix(trimmed, "-")))
			}
		}
	}

	return s
}
