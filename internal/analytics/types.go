// Package analytics records sessions and content generations in the
// key/value store and reduces them into the dashboard report. Records are
// immutable once written; the only deletion path is the bulk Reset.
package analytics

import (
	"time"
)

// GenerationType discriminates what kind of content a generation produced.
type GenerationType string

const (
	// TypeUserStory is a single user story generation.
	TypeUserStory GenerationType = "user_story"
	// TypePRD is a product requirements document generation.
	TypePRD GenerationType = "prd"
	// TypeUserStoryWorkflow is a story produced by the batch workflow.
	TypeUserStoryWorkflow GenerationType = "user_story_workflow"
)

// Key prefixes in the store.
const (
	sessionKeyPrefix    = "session:"
	generationKeyPrefix = "generation:"
)

// Session represents one tracked visit. At most one record exists per
// session ID; it is written once and never mutated.
type Session struct {
	// SessionID is the stable identifier for this client.
	SessionID string `json:"sessionId"`
	// Timestamp is when the session was first seen.
	Timestamp time.Time `json:"timestamp"`
	// Referrer is the originating URL, or "direct".
	Referrer string `json:"referrer"`
	// UserAgent describes the client (free text).
	UserAgent string `json:"userAgent,omitempty"`
	// ScreenSize describes the client display (free text).
	ScreenSize string `json:"screenSize,omitempty"`
}

// TokenUsage holds the token counts reported by the generation provider.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Generation represents one content-generation attempt and its outcome.
type Generation struct {
	// ID is unique per record.
	ID string `json:"id"`
	// SessionID references the owning session. Informational only; no
	// referential integrity is enforced.
	SessionID string `json:"sessionId"`
	// Type discriminates the content kind.
	Type GenerationType `json:"type"`
	// Template is the prompt template label (scrum, jtbd, simple,
	// comprehensive, workflow_batch).
	Template string `json:"template,omitempty"`
	// BusinessGoal is the goal the user selected, if any.
	BusinessGoal string `json:"businessGoal,omitempty"`
	// InputLength and OutputLength are character counts.
	InputLength  int `json:"inputLength,omitempty"`
	OutputLength int `json:"outputLength,omitempty"`
	// Usage holds the provider-reported token counts, when available.
	Usage *TokenUsage `json:"usage,omitempty"`
	// Cost is the estimated dollar cost of this generation.
	Cost float64 `json:"cost,omitempty"`
	// Model is the model that produced the content.
	Model string `json:"model,omitempty"`
	// ValidationScore is 1 when the content passed validation, else 0.
	ValidationScore int `json:"validationScore"`
	// Timestamp is when the generation happened.
	Timestamp time.Time `json:"timestamp"`
	// Success reports whether the generation completed.
	Success bool `json:"success"`
}

// NameCount is a grouped tally used for referrer and goal rankings.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CostMetrics summarizes spend across all recorded generations.
type CostMetrics struct {
	// TotalCost is the cumulative estimated spend.
	TotalCost float64 `json:"totalCost"`
	// AvgCostPerGeneration is TotalCost / max(generations, 1).
	AvgCostPerGeneration float64 `json:"avgCostPerGeneration"`
	// ProjectedMonthlyCost extrapolates a 7-day window to 30 days
	// (TotalCost * 30 / 7).
	ProjectedMonthlyCost float64 `json:"projectedMonthlyCost"`
}

// Report is the aggregated analytics view.
type Report struct {
	TotalSessions       int `json:"totalSessions"`
	TotalGenerations    int `json:"totalGenerations"`
	UserStories         int `json:"userStories"`
	PRDs                int `json:"prds"`
	TodayGenerations    int `json:"todayGenerations"`
	ThisWeekGenerations int `json:"thisWeekGenerations"`
	// AvgPerSession is formatted to one decimal place, "0" when there are
	// no sessions.
	AvgPerSession  string       `json:"avgPerSession"`
	TopReferrers   []NameCount  `json:"topReferrers"`
	TopGoals       []NameCount  `json:"topGoals"`
	RecentActivity []Generation `json:"recentActivity"`
	Cost           CostMetrics  `json:"costMetrics"`
}
