// Package gate implements the free-tier usage limits. The gate is advisory:
// it reads a client-visible counter with no server-side authority, so it is a
// product nudge toward signup, not a security control.
package gate

import (
	"fmt"

	"github.com/storyforge-dev/storyforge/internal/analytics"
)

// Free-tier limits per session.
const (
	UserStoryLimit = 5
	PRDLimit       = 3
)

// Limit returns the free-tier cap for a generation type. Types without a cap
// return 0 (unlimited).
func Limit(t analytics.GenerationType) int {
	switch t {
	case analytics.TypeUserStory:
		return UserStoryLimit
	case analytics.TypePRD:
		return PRDLimit
	default:
		return 0
	}
}

// LimitError is returned when a session has exhausted its free generations.
type LimitError struct {
	Type  analytics.GenerationType
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("free limit reached: %d %s generations used this session, sign up to continue", e.Limit, e.Type)
}

// Check decides whether a session with `used` prior generations of type t may
// generate another. A nil error means go ahead.
func Check(t analytics.GenerationType, used int) error {
	limit := Limit(t)
	if limit > 0 && used >= limit {
		return &LimitError{Type: t, Limit: limit}
	}
	return nil
}

// WarnAfter returns the upgrade nudge to show after the nth generation of
// type t has been recorded, or "" when no warning fires at that count.
func WarnAfter(t analytics.GenerationType, count int) string {
	switch t {
	case analytics.TypeUserStory:
		switch count {
		case 3:
			return "You have 2 free user story generations left. Sign up for unlimited access!"
		case 4:
			return "You have 1 free user story generation left. Sign up for unlimited access!"
		}
	case analytics.TypePRD:
		switch count {
		case 2:
			return "You have 1 free PRD generation left. Sign up for unlimited access!"
		case 3:
			return "You've used all your free PRD generations. Sign up for unlimited access!"
		}
	}
	return ""
}
