package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate_KnownModel(t *testing.T) {
	c := NewCalculator()

	got := c.Calculate(&Usage{
		Model:        "claude-3-5-sonnet-20241022",
		InputTokens:  1_000_000,
		OutputTokens: 1_000_000,
	})
	assert.InDelta(t, 18.0, got, 1e-9)

	got = c.Calculate(&Usage{
		Model:        "gpt-4o-mini",
		InputTokens:  1_000_000,
		OutputTokens: 1_000_000,
	})
	assert.InDelta(t, 0.75, got, 1e-9)
}

func TestCalculate_UnknownModelUsesDefaults(t *testing.T) {
	c := NewCalculator()

	got := c.Calculate(&Usage{
		Model:        "some-future-model",
		InputTokens:  1_000_000,
		OutputTokens: 1_000_000,
	})
	assert.InDelta(t, 18.0, got, 1e-9)
}

func TestCalculate_NilUsage(t *testing.T) {
	c := NewCalculator()
	assert.Equal(t, 0.0, c.Calculate(nil))
}

func TestCalculate_ZeroTokens(t *testing.T) {
	c := NewCalculator()
	assert.Equal(t, 0.0, c.Calculate(&Usage{Model: "gpt-4o"}))
}

func TestCalculate_TypicalStory(t *testing.T) {
	c := NewCalculator()

	// A typical story: ~500 input tokens, ~1500 output tokens on Sonnet.
	got := c.Calculate(&Usage{
		Model:        "claude-3-5-sonnet-20241022",
		InputTokens:  500,
		OutputTokens: 1500,
	})
	assert.InDelta(t, 0.024, got, 1e-9)
}

func TestAddPricing_Overrides(t *testing.T) {
	c := NewCalculator()
	c.AddPricing(ModelPricing{Model: "custom", InputPer1M: 1.0, OutputPer1M: 2.0})

	got := c.Calculate(&Usage{Model: "custom", InputTokens: 1_000_000, OutputTokens: 500_000})
	assert.InDelta(t, 2.0, got, 1e-9)
}
