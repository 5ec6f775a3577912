// Package web serves the assessment form and the comparison view over HTTP.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/p-n-ai/competency-compass/internal/assessment"
	"github.com/p-n-ai/competency-compass/internal/chart"
	"github.com/p-n-ai/competency-compass/internal/competency"
	"github.com/p-n-ai/competency-compass/internal/platform/metrics"
	"github.com/p-n-ai/competency-compass/internal/snapshot"
)

//go:embed templates/*.html
var templateFS embed.FS

const defaultMaxUpload = 8 << 20

// Options holds the dependencies of a Server.
type Options struct {
	// Table is the reference table; LoadErr is set instead when loading
	// it failed, and the form page then shows that error.
	Table          *competency.Table
	LoadErr        error
	Charts         *chart.Registry
	Snapshots      snapshot.Store
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
	LivePreview    bool
}

// Server renders every page. Each request is one independent render pass;
// the reference table is read-only after construction.
type Server struct {
	prompts     []assessment.Prompt
	loadErr     error
	charts      *chart.Registry
	snapshots   snapshot.Store
	metrics     *metrics.Metrics
	maxUpload   int64
	livePreview bool
	pages       *template.Template
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// New creates a server.
func New(opts Options) (*Server, error) {
	pages, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		loadErr:     opts.LoadErr,
		charts:      opts.Charts,
		snapshots:   opts.Snapshots,
		metrics:     opts.Metrics,
		maxUpload:   opts.MaxUploadBytes,
		livePreview: opts.LivePreview,
		pages:       pages,
	}
	if opts.Table != nil {
		s.prompts = assessment.BuildPrompts(opts.Table.Definitions())
	} else if s.loadErr == nil {
		s.loadErr = competency.ErrNoTopicColumn
	}
	if s.charts == nil {
		s.charts = chart.DefaultRegistry()
	}
	if s.snapshots == nil {
		s.snapshots = snapshot.NewMemoryStore(snapshot.DefaultTTL)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.maxUpload <= 0 {
		s.maxUpload = defaultMaxUpload
	}
	return s, nil
}

// Handler returns the HTTP router wrapped in request metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /assessment", s.handleSubmit)
	mux.HandleFunc("POST /assessment/export", s.handleExport)
	if s.livePreview {
		mux.HandleFunc("GET /ws/assessment", s.handleLive)
	}

	mux.HandleFunc("GET /compare", s.handleCompareForm)
	mux.HandleFunc("POST /compare", s.handleCompare)
	mux.HandleFunc("POST /compare/files", s.handleCompareFiles)
	mux.HandleFunc("GET /compare/chart/{id}/{backend}", s.handleChart)

	mux.HandleFunc("GET /download/{id}", s.handleDownload)
	return s.metrics.Middleware(mux)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if hc, ok := s.snapshots.(healthChecker); ok {
		if err := hc.HealthCheck(r.Context()); err != nil {
			slog.Warn("snapshot store not ready", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
