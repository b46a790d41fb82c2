// Package api exposes the generation, analytics and export operations over
// HTTP. Clients identify themselves with an X-Session-Id header; every
// generation is counted against that session's free tier.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/storyforge-dev/storyforge/internal/analytics"
	"github.com/storyforge-dev/storyforge/internal/gate"
	"github.com/storyforge-dev/storyforge/internal/llm/provider"
	"github.com/storyforge-dev/storyforge/internal/service"
	"github.com/storyforge-dev/storyforge/pkg/notion"
	"github.com/storyforge-dev/storyforge/pkg/observability"
	"github.com/storyforge-dev/storyforge/pkg/store"
)

const sessionHeader = "X-Session-Id"

// Options configures the API server.
type Options struct {
	Port     int
	Provider provider.Provider
	Store    store.Store
	// Notion is optional; export endpoints return 503 when nil.
	Notion *notion.Client
	Health *observability.HealthChecker
}

// Server is the HTTP front end.
type Server struct {
	opts       Options
	aggregator *analytics.Aggregator
	httpServer *http.Server
	cron       *cron.Cron
}

// NewServer wires the routes and background jobs.
func NewServer(opts Options) *Server {
	s := &Server{
		opts:       opts,
		aggregator: analytics.NewAggregator(opts.Store),
		cron:       cron.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/session", s.handleStartSession)
	mux.HandleFunc("POST /api/story", s.handleStory)
	mux.HandleFunc("POST /api/prd", s.handlePRD)
	mux.HandleFunc("POST /api/workflow", s.handleWorkflow)
	mux.HandleFunc("GET /api/usage", s.handleUsage)
	mux.HandleFunc("GET /api/analytics", s.handleAnalytics)
	mux.HandleFunc("POST /api/admin/reset", s.handleReset)
	mux.HandleFunc("POST /api/export", s.handleExport)
	mux.HandleFunc("GET /api/notion", s.handleNotionTest)

	if opts.Health != nil {
		mux.HandleFunc("/health", opts.Health.Handler())
	}
	mux.Handle("/metrics", observability.MetricsHandler())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      withMetrics(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start runs the HTTP server and the analytics gauge refresher. It blocks
// until the listener stops.
func (s *Server) Start() error {
	if _, err := s.cron.AddFunc("@every 5m", s.refreshGauges); err != nil {
		return fmt.Errorf("schedule analytics refresh: %w", err)
	}
	s.cron.Start()
	s.refreshGauges()

	log.Printf("listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the background jobs and drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	<-s.cron.Stop().Done()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) refreshGauges() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report, err := s.aggregator.ComputeReport(ctx)
	if err != nil {
		log.Printf("analytics refresh: %v", err)
		return
	}
	observability.SetAnalyticsSnapshot(report.TotalSessions, report.TotalGenerations, report.Cost.TotalCost)
}

// serviceFor builds the per-session pipeline for one request.
func (s *Server) serviceFor(r *http.Request) (*service.Service, string) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		sessionID = "anonymous"
	}
	recorder := analytics.NewRecorder(s.opts.Store, sessionID)
	counter := analytics.NewCounter(s.opts.Store, sessionID)
	return service.New(s.opts.Provider, recorder, counter), sessionID
}

type sessionRequest struct {
	Referrer   string `json:"referrer"`
	ScreenSize string `json:"screenSize"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%s header is required", sessionHeader))
		return
	}

	recorder := analytics.NewRecorder(s.opts.Store, sessionID)
	err := recorder.StartSession(r.Context(), analytics.SessionMeta{
		Referrer:   req.Referrer,
		UserAgent:  r.UserAgent(),
		ScreenSize: req.ScreenSize,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": sessionID})
}

func (s *Server) handleStory(w http.ResponseWriter, r *http.Request) {
	var req service.StoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	svc, _ := s.serviceFor(r)
	result, err := svc.GenerateUserStory(r.Context(), req)
	if err != nil {
		writeGenerateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePRD(w http.ResponseWriter, r *http.Request) {
	var req service.PRDRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	svc, _ := s.serviceFor(r)
	result, err := svc.GeneratePRD(r.Context(), req)
	if err != nil {
		writeGenerateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type workflowRequest struct {
	Features []string `json:"features"`
}

func (s *Server) handleWorkflow(w http.ResponseWriter, r *http.Request) {
	var req workflowRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Features) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("at least one feature is required"))
		return
	}

	svc, _ := s.serviceFor(r)
	result, err := svc.GenerateStoryBatch(r.Context(), req.Features)
	if err != nil {
		// Completed stories still go back with the error.
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":   err.Error(),
			"stories": result.Stories,
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	svc, _ := s.serviceFor(r)
	writeJSON(w, http.StatusOK, map[string]service.Usage{
		"userStory": svc.UsageFor(r.Context(), analytics.TypeUserStory),
		"prd":       svc.UsageFor(r.Context(), analytics.TypePRD),
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	report, err := s.aggregator.ComputeReport(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	deleted, err := analytics.Reset(r.Context(), s.opts.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

type exportRequest struct {
	Stories []string `json:"stories"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.opts.Notion == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("notion integration is not configured"))
		return
	}

	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Stories) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("at least one story is required"))
		return
	}

	exporter := notion.NewExporter(s.opts.Notion)
	result, err := exporter.ExportAll(r.Context(), req.Stories, nil)
	if err != nil {
		// Context cancellation mid-batch: report what finished.
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":  err.Error(),
			"result": result,
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleNotionTest(w http.ResponseWriter, r *http.Request) {
	if s.opts.Notion == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("notion integration is not configured"))
		return
	}

	info, err := s.opts.Notion.TestConnection(r.Context())
	if err != nil {
		var apiErr *notion.APIError
		if errors.As(err, &apiErr) {
			writeError(w, http.StatusBadGateway, apiErr)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// writeGenerateError maps pipeline failures onto HTTP statuses: free-tier
// exhaustion is 403, provider failures are 502.
func writeGenerateError(w http.ResponseWriter, err error) {
	var limitErr *gate.LimitError
	if errors.As(err, &limitErr) {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error":        limitErr.Error(),
			"limitReached": true,
			"limit":        limitErr.Limit,
		})
		return
	}

	var provErr *provider.ProviderError
	if errors.As(err, &provErr) {
		writeError(w, http.StatusBadGateway, provErr)
		return
	}

	writeError(w, http.StatusBadRequest, err)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusWriter captures the response code for metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		observability.RecordHTTPRequest(r.Method, r.URL.Path, strconv.Itoa(sw.status), time.Since(start))
	})
}
