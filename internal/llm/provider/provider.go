// Package provider abstracts the external content generator. Business logic
// depends only on the Provider interface; which implementation runs (live
// Anthropic or OpenAI, or the deterministic mock) is decided by configuration
// at construction time, never by environment sniffing downstream.
package provider

import (
	"context"
	"fmt"
)

// Usage reports the token counts consumed by one generation.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Request is a single-prompt generation request.
type Request struct {
	// Prompt is the fully assembled prompt text.
	Prompt string `json:"prompt"`
	// MaxTokens caps the generated output length.
	MaxTokens int `json:"max_tokens"`
}

// Response is the generation result.
type Response struct {
	// Content is the generated text.
	Content string `json:"content"`
	// Usage contains the token counts billed for this call.
	Usage Usage `json:"usage"`
	// Model is the model that produced the content.
	Model string `json:"model"`
}

// Provider defines the content generator contract.
type Provider interface {
	// Generate produces content for the request. Errors are returned to the
	// caller for direct presentation; there is no automatic retry beyond
	// what the implementation does for transient HTTP failures.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name returns the provider name (e.g. "anthropic", "mock").
	Name() string
}

// Config selects and configures a provider.
type Config struct {
	// Name is "anthropic", "openai" or "mock". Empty means: pick the first
	// provider with a configured key, or fall back to mock.
	Name string
	// AnthropicKey and OpenAIKey are the API credentials.
	AnthropicKey string
	OpenAIKey    string
	// Model overrides the provider's default model.
	Model string
	// BaseURL overrides the API endpoint (used in tests).
	BaseURL string
}

// New constructs a provider from configuration. An unconfigured setup gets
// the deterministic MockProvider so the rest of the pipeline keeps working
// without credentials.
func New(cfg Config) (Provider, error) {
	name := cfg.Name
	if name == "" {
		switch {
		case cfg.AnthropicKey != "":
			name = "anthropic"
		case cfg.OpenAIKey != "":
			name = "openai"
		default:
			name = "mock"
		}
	}

	switch name {
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("anthropic provider requires an API key")
		}
		return NewAnthropicProvider(cfg.AnthropicKey, cfg.BaseURL, cfg.Model), nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.Model), nil
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
}
