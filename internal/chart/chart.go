// Package chart renders a comparison result with interchangeable backends.
package chart

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/p-n-ai/competency-compass/internal/bloom"
	"github.com/p-n-ai/competency-compass/internal/comparison"
)

// Backend names.
const (
	BackendBar      = "bar"
	BackendRadar    = "radar"
	BackendVegaLite = "vegalite"
)

// Palette is the per-file colour sequence, lightest first.
var Palette = []string{"#99cfff", "#3399ff", "#0055aa"}

// Point is one file's answer for one topic.
type Point struct {
	Topic  string
	Series string
	Label  string
	Rank   int
	Ranked bool
}

// Dataset is a comparison result in long form, ready for any backend.
type Dataset struct {
	Topics []string
	Series []string
	// Cells[i][j] is the point of Topics[i] in Series[j].
	Cells [][]Point
}

// NewDataset prepares res for charting. Topic order is the result's row
// order.
func NewDataset(res *comparison.Result) Dataset {
	ds := Dataset{
		Topics: make([]string, 0, len(res.Rows)),
		Series: append([]string(nil), res.Columns...),
		Cells:  make([][]Point, 0, len(res.Rows)),
	}
	for _, row := range res.Rows {
		ds.Topics = append(ds.Topics, row.Topic)
		pts := make([]Point, len(row.Cells))
		for j, c := range row.Cells {
			pts[j] = Point{
				Topic:  row.Topic,
				Series: res.Columns[j],
				Label:  c.Label,
				Rank:   c.Rank,
				Ranked: c.Ranked,
			}
		}
		ds.Cells = append(ds.Cells, pts)
	}
	return ds
}

// Points returns every cell, topic-major.
func (d Dataset) Points() []Point {
	var out []Point
	for _, row := range d.Cells {
		out = append(out, row...)
	}
	return out
}

func color(series int) string {
	return Palette[series%len(Palette)]
}

// maxRank is the top of every rank axis.
var maxRank = bloom.Count - 1

// Renderer draws a dataset in one output format.
type Renderer interface {
	Name() string
	ContentType() string
	Render(w io.Writer, ds Dataset) error
}

// Registry holds the available renderers by name.
type Registry struct {
	renderers map[string]Renderer
	order     []string
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
	}
}

// DefaultRegistry returns a registry with every built-in backend.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewBarRenderer())
	r.Register(NewRadarRenderer())
	r.Register(NewVegaLiteRenderer())
	return r
}

// Register adds a renderer, replacing any with the same name.
func (r *Registry) Register(rd Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[rd.Name()]; !exists {
		r.order = append(r.order, rd.Name())
	}
	r.renderers[rd.Name()] = rd
	slog.Debug("chart backend registered", "backend", rd.Name())
}

// Get returns the renderer called name.
func (r *Registry) Get(name string) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rd, ok := r.renderers[name]
	return rd, ok
}

// Names returns the registered backends in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// BackendsFor lists the charts shown for a comparison mode. The per-file
// flow only gets the grouped bar chart.
func BackendsFor(mode comparison.Mode) []string {
	if mode == comparison.Legacy {
		return []string{BackendBar}
	}
	return []string{BackendBar, BackendRadar, BackendVegaLite}
}

// RenderString renders ds with the named backend.
func (r *Registry) RenderString(name string, ds Dataset) (string, error) {
	rd, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown chart backend: %s", name)
	}
	var buf bytes.Buffer
	if err := rd.Render(&buf, ds); err != nil {
		return "", fmt.Errorf("rendering %s chart: %w", name, err)
	}
	return buf.String(), nil
}
