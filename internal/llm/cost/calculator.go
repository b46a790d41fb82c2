// Package cost converts provider token usage into dollar estimates.
package cost

import (
	"sync"
)

// ModelPricing contains pricing for a specific model, in USD per 1M tokens.
type ModelPricing struct {
	Model       string
	InputPer1M  float64
	OutputPer1M float64
}

// Usage represents token usage for a single generation.
type Usage struct {
	Model        string
	InputTokens  int
	OutputTokens int
}

// Default rates: Claude 3.5 Sonnet pricing, also applied to unknown models so
// an estimate always comes out.
const (
	defaultInputPer1M  = 3.0
	defaultOutputPer1M = 15.0
)

// Calculator provides cost calculation for generation usage.
type Calculator struct {
	pricing map[string]ModelPricing
	mu      sync.RWMutex
}

// NewCalculator creates a cost calculator with default pricing.
func NewCalculator() *Calculator {
	c := &Calculator{
		pricing: make(map[string]ModelPricing),
	}

	// Prices as of late 2024 - update periodically
	for _, p := range []ModelPricing{
		{Model: "claude-3-5-sonnet-20241022", InputPer1M: 3.0, OutputPer1M: 15.0},
		{Model: "claude-3-5-haiku-20241022", InputPer1M: 1.0, OutputPer1M: 5.0},
		{Model: "gpt-4o", InputPer1M: 2.5, OutputPer1M: 10.0},
		{Model: "gpt-4o-mini", InputPer1M: 0.15, OutputPer1M: 0.60},
		{Model: "mock-model", InputPer1M: 3.0, OutputPer1M: 15.0},
	} {
		c.pricing[p.Model] = p
	}

	return c
}

// AddPricing adds or updates pricing for a model.
func (c *Calculator) AddPricing(p ModelPricing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pricing[p.Model] = p
}

// Calculate returns the estimated dollar cost for the given usage. A nil
// usage costs nothing. Unknown models are billed at the default rates.
func (c *Calculator) Calculate(usage *Usage) float64 {
	if usage == nil {
		return 0
	}

	inputRate, outputRate := defaultInputPer1M, defaultOutputPer1M

	c.mu.RLock()
	if p, ok := c.pricing[usage.Model]; ok {
		inputRate, outputRate = p.InputPer1M, p.OutputPer1M
	}
	c.mu.RUnlock()

	inputCost := float64(usage.InputTokens) / 1_000_000 * inputRate
	outputCost := float64(usage.OutputTokens) / 1_000_000 * outputRate
	return inputCost + outputCost
}
