package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func anthropicSuccessBody(text string) map[string]any {
	return map[string]any{
		"content": []map[string]string{{"type": "text", "text": text}},
		"model":   "claude-3-5-sonnet-20241022",
		"usage":   map[string]int{"input_tokens": 42, "output_tokens": 128},
	}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	var gotReq anthropicRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("missing version header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(anthropicSuccessBody("## A Story"))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("test-key", srv.URL, "")
	resp, err := p.Generate(context.Background(), Request{Prompt: "build a story", MaxTokens: 2000})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.Content != "## A Story" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Usage.InputTokens != 42 || resp.Usage.OutputTokens != 128 {
		t.Errorf("Usage = %+v", resp.Usage)
	}
	if resp.Model != "claude-3-5-sonnet-20241022" {
		t.Errorf("Model = %s", resp.Model)
	}
	if gotReq.MaxTokens != 2000 {
		t.Errorf("MaxTokens = %d", gotReq.MaxTokens)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Errorf("Messages = %+v", gotReq.Messages)
	}
}

func TestAnthropicProvider_DefaultMaxTokens(t *testing.T) {
	var gotReq anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(anthropicSuccessBody("ok"))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("k", srv.URL, "")
	if _, err := p.Generate(context.Background(), Request{Prompt: "x"}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if gotReq.MaxTokens != 2000 {
		t.Errorf("default MaxTokens = %d, want 2000", gotReq.MaxTokens)
	}
}

func TestAnthropicProvider_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"type":"overloaded_error","message":"overloaded"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(anthropicSuccessBody("recovered"))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("k", srv.URL, "")
	resp, err := p.Generate(context.Background(), Request{Prompt: "x"})
	if err != nil {
		t.Fatalf("Generate failed after retry: %v", err)
	}
	if resp.Content != "recovered" {
		t.Errorf("Content = %q", resp.Content)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestAnthropicProvider_BadRequestDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"max_tokens required"}}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("k", srv.URL, "")
	_, err := p.Generate(context.Background(), Request{Prompt: "x"})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", provErr.StatusCode)
	}
	if provErr.IsRetryable {
		t.Error("400 must not be retryable")
	}
	if provErr.Message != "max_tokens required" {
		t.Errorf("Message = %q", provErr.Message)
	}
	if calls.Load() != 1 {
		t.Errorf("expected exactly 1 call, got %d", calls.Load())
	}
}

func TestAnthropicProvider_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("k", srv.URL, "")
	_, err := p.Generate(context.Background(), Request{Prompt: "x"})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if !provErr.IsRetryable {
		t.Error("429 should be flagged retryable")
	}
	if calls.Load() != anthropicMaxRetries {
		t.Errorf("expected %d calls, got %d", anthropicMaxRetries, calls.Load())
	}
}

func TestAnthropicProvider_ContextCancelDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"oops"}}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewAnthropicProvider("k", srv.URL, "")
	_, err := p.Generate(ctx, Request{Prompt: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
