package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storyforge-dev/storyforge/pkg/store"
)

// Recorder writes session and generation records. Records are telemetry, not
// critical-path data: callers decide whether a write failure is fatal (it
// never is in practice; the service layer logs and moves on).
type Recorder struct {
	store     store.Store
	sessionID string
	now       func() time.Time
}

// NewRecorder creates a Recorder bound to one session.
func NewRecorder(st store.Store, sessionID string) *Recorder {
	return &Recorder{
		store:     st,
		sessionID: sessionID,
		now:       time.Now,
	}
}

// SessionID returns the session this recorder writes under.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// SessionMeta carries the descriptive fields of a session record.
type SessionMeta struct {
	Referrer   string
	UserAgent  string
	ScreenSize string
}

// StartSession persists the session record if one doesn't already exist.
// Calling it again for the same session is a no-op, so a client can invoke it
// on every start without duplicating records.
func (r *Recorder) StartSession(ctx context.Context, meta SessionMeta) error {
	key := sessionKeyPrefix + r.sessionID

	_, err := r.store.Get(ctx, key)
	if err == nil {
		return nil // already tracked
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check session: %w", err)
	}

	referrer := meta.Referrer
	if referrer == "" {
		referrer = "direct"
	}

	rec := Session{
		SessionID:  r.sessionID,
		Timestamp:  r.now(),
		Referrer:   referrer,
		UserAgent:  meta.UserAgent,
		ScreenSize: meta.ScreenSize,
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.store.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GenerationEvent carries the outcome of one generation attempt.
type GenerationEvent struct {
	Type         GenerationType
	Template     string
	BusinessGoal string
	InputLength  int
	OutputLength int
	Usage        *TokenUsage
	Cost         float64
	Model        string
	// ValidationPassed maps to ValidationScore 1/0 on the record.
	ValidationPassed bool
	// Failed marks the attempt unsuccessful. Records default to success.
	Failed bool
}

// RecordGeneration writes a new generation record with a fresh ID and returns
// the ID. It never deduplicates: every call creates a record.
func (r *Recorder) RecordGeneration(ctx context.Context, ev GenerationEvent) (string, error) {
	id := uuid.NewString()

	score := 0
	if ev.ValidationPassed {
		score = 1
	}

	rec := Generation{
		ID:              id,
		SessionID:       r.sessionID,
		Type:            ev.Type,
		Template:        ev.Template,
		BusinessGoal:    ev.BusinessGoal,
		InputLength:     ev.InputLength,
		OutputLength:    ev.OutputLength,
		Usage:           ev.Usage,
		Cost:            ev.Cost,
		Model:           ev.Model,
		ValidationScore: score,
		Timestamp:       r.now(),
		Success:         !ev.Failed,
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal generation: %w", err)
	}
	if err := r.store.Set(ctx, generationKeyPrefix+id, string(raw)); err != nil {
		return "", fmt.Errorf("save generation: %w", err)
	}
	return id, nil
}

// LoadOrCreateSessionID reads the persisted session identifier from dir, or
// generates and persists a new one. The identifier is stable for the lifetime
// of the installation, mirroring a browser profile.
func LoadOrCreateSessionID(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".storyforge")
	}

	path := filepath.Join(dir, "session_id")
	if raw, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(raw)); id != "" {
			return id, nil
		}
	}

	id := "session_" + uuid.NewString()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0600); err != nil {
		return "", fmt.Errorf("persist session id: %w", err)
	}
	return id, nil
}
