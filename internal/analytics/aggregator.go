package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/storyforge-dev/storyforge/pkg/store"
)

// Fallback cost estimates for legacy records written before per-generation
// cost tracking existed.
const (
	fallbackStoryCost = 0.006
	fallbackOtherCost = 0.033
)

// Aggregator scans every session and generation record and reduces them into
// a Report. Unlike the Recorder, a read failure here aborts the whole
// computation: a partially aggregated dashboard is worse than an error.
type Aggregator struct {
	store store.Store
	now   func() time.Time
}

// NewAggregator creates an Aggregator over the given store.
func NewAggregator(st store.Store) *Aggregator {
	return &Aggregator{store: st, now: time.Now}
}

// ComputeReport loads all records and produces the analytics report.
func (a *Aggregator) ComputeReport(ctx context.Context) (*Report, error) {
	sessions, err := a.loadSessions(ctx)
	if err != nil {
		return nil, err
	}
	generations, err := a.loadGenerations(ctx)
	if err != nil {
		return nil, err
	}

	now := a.now()
	today := now.Format("2006-01-02")
	weekAgo := now.Add(-7 * 24 * time.Hour)

	report := &Report{
		TotalSessions:    len(sessions),
		TotalGenerations: len(generations),
		AvgPerSession:    "0",
		TopReferrers:     []NameCount{},
		TopGoals:         []NameCount{},
	}

	totalCost := 0.0
	for _, g := range generations {
		switch g.Type {
		case TypeUserStory:
			report.UserStories++
		case TypePRD:
			report.PRDs++
		}

		if g.Timestamp.Local().Format("2006-01-02") == today {
			report.TodayGenerations++
		}
		if g.Timestamp.After(weekAgo) {
			report.ThisWeekGenerations++
		}

		if g.Cost > 0 {
			totalCost += g.Cost
		} else if g.Type == TypeUserStory {
			totalCost += fallbackStoryCost
		} else {
			totalCost += fallbackOtherCost
		}
	}

	if len(sessions) > 0 {
		report.AvgPerSession = fmt.Sprintf("%.1f", float64(len(generations))/float64(len(sessions)))
	}

	referrers := make(map[string]int)
	for _, s := range sessions {
		name := s.Referrer
		if name == "" {
			name = "Direct"
		}
		referrers[name]++
	}
	report.TopReferrers = topN(referrers, 5)

	goals := make(map[string]int)
	for _, g := range generations {
		if g.BusinessGoal != "" {
			goals[g.BusinessGoal]++
		}
	}
	report.TopGoals = topN(goals, 5)

	sort.Slice(generations, func(i, j int) bool {
		return generations[i].Timestamp.After(generations[j].Timestamp)
	})
	if len(generations) > 10 {
		report.RecentActivity = generations[:10]
	} else {
		report.RecentActivity = generations
	}

	divisor := len(generations)
	if divisor == 0 {
		divisor = 1
	}
	report.Cost = CostMetrics{
		TotalCost:            round(totalCost, 2),
		AvgCostPerGeneration: round(totalCost/float64(divisor), 4),
		// Linear extrapolation from a 7-day trailing window. Inaccurate when
		// the data spans a different period; kept as the product defines it.
		ProjectedMonthlyCost: round(totalCost*30/7, 2),
	}

	return report, nil
}

func (a *Aggregator) loadSessions(ctx context.Context) ([]Session, error) {
	keys, err := a.store.List(ctx, sessionKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]Session, 0, len(keys))
	for _, key := range keys {
		entry, err := a.store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		var rec Session
		if err := json.Unmarshal([]byte(entry.Value), &rec); err != nil {
			continue
		}
		sessions = append(sessions, rec)
	}
	return sessions, nil
}

func (a *Aggregator) loadGenerations(ctx context.Context) ([]Generation, error) {
	keys, err := a.store.List(ctx, generationKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}

	generations := make([]Generation, 0, len(keys))
	for _, key := range keys {
		entry, err := a.store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		var rec Generation
		if err := json.Unmarshal([]byte(entry.Value), &rec); err != nil {
			continue
		}
		generations = append(generations, rec)
	}
	return generations, nil
}

// topN ranks a tally map by count descending, breaking ties by name ascending
// so the ranking is deterministic, and truncates to n entries.
func topN(counts map[string]int, n int) []NameCount {
	ranked := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, NameCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// Reset deletes every session and generation record. This is the only bulk
// deletion path in the system; individual records are never removed.
func Reset(ctx context.Context, st store.Store) (int, error) {
	deleted := 0
	for _, prefix := range []string{sessionKeyPrefix, generationKeyPrefix} {
		keys, err := st.List(ctx, prefix)
		if err != nil {
			return deleted, fmt.Errorf("list %s: %w", prefix, err)
		}
		for _, key := range keys {
			if err := st.Delete(ctx, key); err != nil {
				return deleted, fmt.Errorf("delete %s: %w", key, err)
			}
			deleted++
		}
	}
	return deleted, nil
}
