// Package metrics exposes Prometheus counters for the HTTP surface and the
// assessment and comparison flows.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so that several servers can coexist in
// one process.
type Metrics struct {
	registry    *prometheus.Registry
	duration    *prometheus.SummaryVec
	requests    *prometheus.CounterVec
	comparisons *prometheus.CounterVec
	assessments prometheus.Counter
	unmapped    prometheus.Counter
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		duration: f.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		comparisons: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compass_comparisons_total",
				Help: "Comparison requests by flow and outcome",
			},
			[]string{"mode", "outcome"},
		),
		assessments: f.NewCounter(prometheus.CounterOpts{
			Name: "compass_assessments_total",
			Help: "Submitted self-assessments",
		}),
		unmapped: f.NewCounter(prometheus.CounterOpts{
			Name: "compass_unmapped_labels_total",
			Help: "Uploaded level labels that are not Bloom levels",
		}),
	}
}

// Comparison counts one comparison request.
func (m *Metrics) Comparison(mode, outcome string) {
	m.comparisons.WithLabelValues(mode, outcome).Inc()
}

// Assessment counts one submitted form.
func (m *Metrics) Assessment() { m.assessments.Inc() }

// Unmapped adds n unrankable labels.
func (m *Metrics) Unmapped(n int) { m.unmapped.Add(float64(n)) }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records duration and count of every request, labelled by the
// matched route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(rec.status)
		m.duration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(r.Method, path, status).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the recorder.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
