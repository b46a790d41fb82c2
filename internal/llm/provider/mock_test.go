package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMockProvider_CannedUserStory(t *testing.T) {
	m := NewMockProvider()

	resp, err := m.Generate(context.Background(), Request{Prompt: "Generate a detailed user story about login"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(resp.Content, "**User Story:**") {
		t.Error("expected the canned user story")
	}
	if !strings.Contains(resp.Content, "**Estimated Story Points:** 5") {
		t.Error("canned story must carry a point estimate")
	}
	if resp.Model != "mock-model" {
		t.Errorf("Model = %s", resp.Model)
	}
	if resp.Usage.OutputTokens == 0 {
		t.Error("expected non-zero output token estimate")
	}
}

func TestMockProvider_CannedPRD(t *testing.T) {
	m := NewMockProvider()

	resp, err := m.Generate(context.Background(), Request{Prompt: "Create a comprehensive Product Requirements Document"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(resp.Content, "# Product Requirements Document") {
		t.Error("expected the canned PRD")
	}
}

func TestMockProvider_Deterministic(t *testing.T) {
	m := NewMockProvider()
	ctx := context.Background()

	first, err := m.Generate(ctx, Request{Prompt: "a user story please"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := m.Generate(ctx, Request{Prompt: "a user story please"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if first.Content != second.Content {
		t.Error("same prompt must yield the same content")
	}
}

func TestMockProvider_ScriptedResponsesAndErrors(t *testing.T) {
	scripted := &Response{Content: "scripted", Model: "mock-model"}
	m := &MockProvider{
		Responses: []*Response{scripted, nil},
		Errors:    []error{nil, errors.New("boom")},
	}
	ctx := context.Background()

	resp, err := m.Generate(ctx, Request{Prompt: "one"})
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if resp.Content != "scripted" {
		t.Errorf("got %q", resp.Content)
	}

	if _, err := m.Generate(ctx, Request{Prompt: "two"}); err == nil {
		t.Fatal("second call should fail")
	}

	// Script exhausted: back to canned content.
	resp, err = m.Generate(ctx, Request{Prompt: "three"})
	if err != nil {
		t.Fatalf("third call failed: %v", err)
	}
	if resp.Content != mockFallback {
		t.Errorf("expected fallback, got %q", resp.Content)
	}

	if len(m.Calls) != 3 {
		t.Errorf("expected 3 recorded calls, got %d", len(m.Calls))
	}
	if m.Calls[1].Prompt != "two" {
		t.Errorf("call recording out of order: %q", m.Calls[1].Prompt)
	}
}

func TestNew_Selection(t *testing.T) {
	cases := []struct {
		name     string
		cfg      Config
		wantName string
		wantErr  bool
	}{
		{"explicit mock", Config{Name: "mock"}, "mock", false},
		{"no keys falls back to mock", Config{}, "mock", false},
		{"anthropic key picks anthropic", Config{AnthropicKey: "k"}, "anthropic", false},
		{"openai key picks openai", Config{OpenAIKey: "k"}, "openai", false},
		{"anthropic wins when both set", Config{AnthropicKey: "a", OpenAIKey: "o"}, "anthropic", false},
		{"explicit anthropic without key", Config{Name: "anthropic"}, "", true},
		{"unknown name", Config{Name: "bard"}, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := New(tc.cfg)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if p.Name() != tc.wantName {
				t.Errorf("Name() = %s, want %s", p.Name(), tc.wantName)
			}
		})
	}
}
