// Package service orchestrates one generation: gate check, prompt assembly,
// the provider call, validation, cost estimation and telemetry recording.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/storyforge-dev/storyforge/internal/analytics"
	"github.com/storyforge-dev/storyforge/internal/gate"
	"github.com/storyforge-dev/storyforge/internal/llm/cost"
	"github.com/storyforge-dev/storyforge/internal/llm/provider"
	"github.com/storyforge-dev/storyforge/internal/llm/validate"
	"github.com/storyforge-dev/storyforge/internal/prompt"
	"github.com/storyforge-dev/storyforge/pkg/observability"
)

// Output token budgets per content kind.
const (
	storyMaxTokens = 2000
	prdMaxTokens   = 4000
)

// Service ties the generation pipeline together for one session.
type Service struct {
	provider provider.Provider
	costs    *cost.Calculator
	recorder *analytics.Recorder
	counter  *analytics.Counter
}

// New creates a Service.
func New(p provider.Provider, recorder *analytics.Recorder, counter *analytics.Counter) *Service {
	return &Service{
		provider: p,
		costs:    cost.NewCalculator(),
		recorder: recorder,
		counter:  counter,
	}
}

// StoryRequest is the input for a single user story generation.
type StoryRequest struct {
	// Feature describes what to build.
	Feature string `json:"feature"`
	// Template is scrum, jtbd or simple (default scrum).
	Template string `json:"template"`
	// BusinessGoal tags the generation for analytics.
	BusinessGoal string `json:"businessGoal,omitempty"`
}

// PRDRequest is the input for a PRD generation.
type PRDRequest struct {
	prompt.PRDInput
}

// Result is the outcome of one successful generation.
type Result struct {
	// Content is the generated text, kept even when validation failed
	// (validation is advisory).
	Content string `json:"content"`
	// Usage and Model describe the provider call.
	Usage provider.Usage `json:"usage"`
	Model string         `json:"model"`
	// Cost is the estimated dollar cost.
	Cost float64 `json:"cost"`
	// Validation is the advisory quality check outcome.
	Validation validate.Result `json:"validation"`
	// Used and Limit describe free-tier consumption after this generation.
	Used  int `json:"used"`
	Limit int `json:"limit"`
	// Warning is the upgrade nudge to surface, when one fires.
	Warning string `json:"warning,omitempty"`
}

// GenerateUserStory runs the full pipeline for one user story.
func (s *Service) GenerateUserStory(ctx context.Context, req StoryRequest) (*Result, error) {
	if req.Feature == "" {
		return nil, fmt.Errorf("feature description is required")
	}

	template := req.Template
	if template == "" {
		template = prompt.TemplateScrum
	}

	p := prompt.UserStory(req.Feature, template)
	return s.generate(ctx, generation{
		kind:         analytics.TypeUserStory,
		template:     template,
		businessGoal: req.BusinessGoal,
		prompt:       p,
		maxTokens:    storyMaxTokens,
	})
}

// GeneratePRD runs the full pipeline for one PRD.
func (s *Service) GeneratePRD(ctx context.Context, req PRDRequest) (*Result, error) {
	p := prompt.PRD(req.PRDInput)
	return s.generate(ctx, generation{
		kind:         analytics.TypePRD,
		template:     "comprehensive",
		businessGoal: req.BusinessGoal,
		prompt:       p,
		maxTokens:    prdMaxTokens,
	})
}

// BatchResult is the outcome of a workflow batch generation.
type BatchResult struct {
	Stories []Result `json:"stories"`
}

// GenerateStoryBatch generates one story per feature description, recording
// each under the workflow type. The batch is not free-tier gated; a provider
// failure aborts the remainder after recording the failed attempt.
func (s *Service) GenerateStoryBatch(ctx context.Context, features []string) (*BatchResult, error) {
	out := &BatchResult{Stories: make([]Result, 0, len(features))}
	for _, feature := range features {
		if feature == "" {
			continue
		}
		res, err := s.generate(ctx, generation{
			kind:      analytics.TypeUserStoryWorkflow,
			template:  "workflow_batch",
			prompt:    prompt.UserStory(feature, prompt.TemplateScrum),
			maxTokens: storyMaxTokens,
		})
		if err != nil {
			return out, err
		}
		out.Stories = append(out.Stories, *res)
	}
	return out, nil
}

// Usage reports free-tier consumption for a generation type.
type Usage struct {
	Type      analytics.GenerationType `json:"type"`
	Used      int                      `json:"used"`
	Limit     int                      `json:"limit"`
	Remaining int                      `json:"remaining"`
}

// UsageFor returns the current free-tier consumption. Count errors fall back
// to zero (the gate fails open) but are logged.
func (s *Service) UsageFor(ctx context.Context, t analytics.GenerationType) Usage {
	used := s.countOrZero(ctx, t)
	limit := gate.Limit(t)
	remaining := 0
	if limit > 0 && used < limit {
		remaining = limit - used
	}
	return Usage{Type: t, Used: used, Limit: limit, Remaining: remaining}
}

type generation struct {
	kind         analytics.GenerationType
	template     string
	businessGoal string
	prompt       string
	maxTokens    int
}

func (s *Service) generate(ctx context.Context, g generation) (*Result, error) {
	used := s.countOrZero(ctx, g.kind)
	if err := gate.Check(g.kind, used); err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := s.provider.Generate(ctx, provider.Request{Prompt: g.prompt, MaxTokens: g.maxTokens})
	if err != nil {
		observability.RecordGeneration(string(g.kind), "error", 0, time.Since(started))
		s.record(ctx, analytics.GenerationEvent{
			Type:         g.kind,
			Template:     g.template,
			BusinessGoal: g.businessGoal,
			InputLength:  len(g.prompt),
			Failed:       true,
		})
		return nil, err
	}

	validation := validate.Content(resp.Content, g.kind)
	if !validation.Passed {
		log.Printf("validation failed for %s: %+v", g.kind, validation.Checks)
	}

	dollars := s.costs.Calculate(&cost.Usage{
		Model:        resp.Model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	})
	observability.RecordGeneration(string(g.kind), "success", dollars, time.Since(started))

	s.record(ctx, analytics.GenerationEvent{
		Type:         g.kind,
		Template:     g.template,
		BusinessGoal: g.businessGoal,
		InputLength:  len(g.prompt),
		OutputLength: len(resp.Content),
		Usage: &analytics.TokenUsage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
		Cost:             dollars,
		Model:            resp.Model,
		ValidationPassed: validation.Passed,
	})

	newCount := s.countOrZero(ctx, g.kind)

	return &Result{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      resp.Model,
		Cost:       dollars,
		Validation: validation,
		Used:       newCount,
		Limit:      gate.Limit(g.kind),
		Warning:    gate.WarnAfter(g.kind, newCount),
	}, nil
}

// record persists telemetry best-effort: failures are logged, never returned.
func (s *Service) record(ctx context.Context, ev analytics.GenerationEvent) {
	if _, err := s.recorder.RecordGeneration(ctx, ev); err != nil {
		log.Printf("record generation: %v", err)
	}
}

func (s *Service) countOrZero(ctx context.Context, t analytics.GenerationType) int {
	count, err := s.counter.CountByType(ctx, t)
	if err != nil {
		log.Printf("count %s generations: %v", t, err)
		return 0
	}
	return count
}
