package notion

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/storyforge-dev/storyforge/pkg/observability"
)

// Notion allows roughly 3 requests per second; spacing submissions 350ms
// apart stays under it.
const exportInterval = 350 * time.Millisecond

// Progress is the snapshot passed to the progress callback after every item.
type Progress struct {
	// Current is 1-based and strictly increasing across the batch.
	Current int `json:"current"`
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
	// LatestTitle is the created page title when the item succeeded.
	LatestTitle string `json:"latestTitle,omitempty"`
	// Error is the failure message when the item failed.
	Error string `json:"error,omitempty"`
}

// ProgressFunc receives a Progress snapshot after each item, success or not.
type ProgressFunc func(Progress)

// ItemResult records the outcome for one item, at its original index.
type ItemResult struct {
	Index   int         `json:"index"`
	Success bool        `json:"success"`
	Page    *PageResult `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ExportResult aggregates the whole batch.
type ExportResult struct {
	Total   int          `json:"total"`
	Success int          `json:"success"`
	Failed  int          `json:"failed"`
	Results []ItemResult `json:"results"`
}

// Exporter submits stories to Notion one at a time, never concurrently,
// pacing submissions to respect the API rate limit.
type Exporter struct {
	client  *Client
	limiter *rate.Limiter
}

// NewExporter creates an Exporter around the given client.
func NewExporter(client *Client) *Exporter {
	// Burst 1 with a full initial bucket: the first item goes out
	// immediately, every later item waits out the interval.
	return &Exporter{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(exportInterval), 1),
	}
}

// ExportAll processes the stories strictly in order. A failed item is
// recorded and the batch continues; there are no retries. The progress
// callback fires after every item regardless of outcome. On context
// cancellation the partial result is returned along with the context error.
func (e *Exporter) ExportAll(ctx context.Context, stories []string, onProgress ProgressFunc) (*ExportResult, error) {
	result := &ExportResult{
		Total:   len(stories),
		Results: make([]ItemResult, 0, len(stories)),
	}

	for i, content := range stories {
		if err := e.limiter.Wait(ctx); err != nil {
			return result, err
		}

		progress := Progress{Current: i + 1, Total: len(stories)}

		page, err := e.client.CreatePage(ctx, content)
		if err != nil {
			result.Failed++
			result.Results = append(result.Results, ItemResult{Index: i, Success: false, Error: err.Error()})
			progress.Error = err.Error()
			observability.RecordExportPage("error")
		} else {
			result.Success++
			result.Results = append(result.Results, ItemResult{Index: i, Success: true, Page: page})
			progress.LatestTitle = page.Title
			observability.RecordExportPage("success")
		}

		progress.Success = result.Success
		progress.Failed = result.Failed
		if onProgress != nil {
			onProgress(progress)
		}
	}

	return result, nil
}
