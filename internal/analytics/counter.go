package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/storyforge-dev/storyforge/pkg/store"
)

// Counter derives per-session usage counts from the recorded generations.
// Counts are recomputed from the store on every call, never cached, so a
// count observed after a write always reflects that write.
type Counter struct {
	store     store.Store
	sessionID string
}

// NewCounter creates a Counter for one session.
func NewCounter(st store.Store, sessionID string) *Counter {
	return &Counter{store: st, sessionID: sessionID}
}

// CountByType returns how many generations of the given type this session has
// recorded. Storage errors are returned to the caller, which chooses the
// fallback policy (the free-tier gate treats an error as zero).
func (c *Counter) CountByType(ctx context.Context, t GenerationType) (int, error) {
	keys, err := c.store.List(ctx, generationKeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("list generations: %w", err)
	}

	count := 0
	for _, key := range keys {
		entry, err := c.store.Get(ctx, key)
		if err != nil {
			return 0, fmt.Errorf("get %s: %w", key, err)
		}

		var rec Generation
		if err := json.Unmarshal([]byte(entry.Value), &rec); err != nil {
			// Malformed records are skipped rather than failing the count.
			continue
		}
		if rec.SessionID == c.sessionID && rec.Type == t {
			count++
		}
	}
	return count, nil
}
