package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/p-n-ai/competency-compass/internal/chart"
	"github.com/p-n-ai/competency-compass/internal/comparison"
	"github.com/p-n-ai/competency-compass/internal/snapshot"
)

const compareTitle = "Competency Level Comparison Across Files"

var legacyFields = []string{"file1", "file2", "file3"}

var chartTitles = map[string]string{
	chart.BackendBar:      "Bloom's Level Comparison (Grouped Bar Chart)",
	chart.BackendRadar:    "Bloom's Level Comparison (Radar Chart)",
	chart.BackendVegaLite: "Bloom's Level Comparison (Interactive Bar Chart)",
}

var chartLinkLabels = map[string]string{
	chart.BackendBar:      "bar chart (HTML)",
	chart.BackendRadar:    "radar chart (HTML)",
	chart.BackendVegaLite: "Vega-Lite spec (JSON)",
}

type renderedChart struct {
	Backend string
	Title   string
	Element template.HTML
	Script  template.HTML
	Spec    template.JS
}

type chartLink struct {
	Backend string
	Label   string
}

type compareBody struct {
	Result *comparison.Result
	Charts []renderedChart
	// Assets are the scripts the inlined charts need, in load order.
	Assets []string
	Links  []chartLink
}

func (s *Server) handleCompareForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "compare", page{
		Title: compareTitle,
		Info:  comparison.ErrIncomplete.Error(),
	})
}

// handleCompare serves the combined flow: two or three files in one upload.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if !s.parseUploads(w, r) {
		return
	}
	s.compare(w, r, comparison.Combined, r.MultipartForm.File["files"])
}

// handleCompareFiles serves the per-file flow with three separate fields.
func (s *Server) handleCompareFiles(w http.ResponseWriter, r *http.Request) {
	if !s.parseUploads(w, r) {
		return
	}
	var headers []*multipart.FileHeader
	for _, f := range legacyFields {
		if fh := r.MultipartForm.File[f]; len(fh) > 0 {
			headers = append(headers, fh[0])
		}
	}
	s.compare(w, r, comparison.Legacy, headers)
}

func (s *Server) parseUploads(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		slog.Warn("rejecting upload", "error", err)
		s.render(w, http.StatusBadRequest, "compare", page{
			Title: compareTitle,
			Error: fmt.Sprintf("could not read the uploaded files: %v", err),
		})
		return false
	}
	return true
}

func (s *Server) compare(w http.ResponseWriter, r *http.Request, mode comparison.Mode, headers []*multipart.FileHeader) {
	sources := make([]comparison.Source, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			s.render(w, http.StatusBadRequest, "compare", page{Title: compareTitle, Error: fmt.Sprintf("%s: %v", fh.Filename, err)})
			return
		}
		defer f.Close()
		sources = append(sources, comparison.Source{Name: fh.Filename, Reader: f})
	}

	res, err := comparison.Run(mode, sources)
	switch {
	case errors.Is(err, comparison.ErrIncomplete):
		s.metrics.Comparison(mode.String(), "incomplete")
		s.render(w, http.StatusOK, "compare", page{Title: compareTitle, Info: err.Error()})
		return
	case errors.Is(err, comparison.ErrCardinality):
		s.metrics.Comparison(mode.String(), "cardinality")
		slog.Warn("comparison rejected", "mode", mode, "files", len(sources))
		s.render(w, http.StatusUnprocessableEntity, "compare", page{Title: compareTitle, Warning: err.Error()})
		return
	case err != nil:
		var schemaErr *comparison.SchemaError
		status, outcome := http.StatusBadRequest, "invalid"
		if errors.As(err, &schemaErr) {
			status, outcome = http.StatusUnprocessableEntity, "schema"
		}
		s.metrics.Comparison(mode.String(), outcome)
		slog.Warn("comparison failed", "mode", mode, "error", err)
		s.render(w, status, "compare", page{Title: compareTitle, Errors: errorMessages(err)})
		return
	}

	p := page{Title: compareTitle}
	data, err := res.CSV()
	if err != nil {
		slog.Error("comparison export failed", "error", err)
		s.render(w, http.StatusInternalServerError, "compare", page{Title: compareTitle, Error: "could not export the comparison"})
		return
	}
	id, err := s.snapshots.Put(r.Context(), snapshot.Snapshot{
		Filename:    comparison.ExportFilename,
		ContentType: csvContentType,
		Data:        data,
	})
	if err != nil {
		slog.Error("storing comparison snapshot failed", "error", err)
	} else {
		p.SnapshotID = id
	}

	body, err := s.renderCharts(res)
	if err != nil {
		slog.Error("chart render failed", "error", err)
		s.render(w, http.StatusInternalServerError, "compare", page{Title: compareTitle, Error: "could not draw the charts"})
		return
	}
	p.Body = body
	if len(res.Rows) == 0 {
		p.Info = "The files have no topic in common."
	}

	s.metrics.Comparison(mode.String(), "ok")
	s.metrics.Unmapped(len(res.Unmapped))
	slog.Info("comparison rendered", "mode", mode, "files", len(res.Columns), "topics", len(res.Rows), "unmapped", len(res.Unmapped))
	s.render(w, http.StatusOK, "compare", p)
}

// renderCharts draws every chart shown for the result's mode. Backends that
// can be inlined are embedded; the rest ship their spec to the browser.
func (s *Server) renderCharts(res *comparison.Result) (compareBody, error) {
	body := compareBody{Result: res}
	ds := chart.NewDataset(res)
	seen := make(map[string]bool)
	for _, name := range chart.BackendsFor(res.Mode) {
		rd, ok := s.charts.Get(name)
		if !ok {
			continue
		}
		body.Links = append(body.Links, chartLink{Backend: name, Label: chartLinkLabels[name]})

		rc := renderedChart{Backend: name, Title: chartTitles[name]}
		if em, ok := rd.(chart.Embedder); ok {
			e, err := em.Embed(ds)
			if err != nil {
				return compareBody{}, fmt.Errorf("rendering %s chart: %w", name, err)
			}
			rc.Element = template.HTML(e.Element)
			rc.Script = template.HTML(e.Script)
			for _, src := range e.Assets {
				if !seen[src] {
					seen[src] = true
					body.Assets = append(body.Assets, src)
				}
			}
		} else {
			spec, err := s.charts.RenderString(name, ds)
			if err != nil {
				return compareBody{}, err
			}
			rc.Spec = template.JS(spec)
		}
		body.Charts = append(body.Charts, rc)
	}
	return body, nil
}

// handleChart renders one backend for a stored comparison export.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	rd, found := s.charts.Get(r.PathValue("backend"))
	if !found {
		http.Error(w, "unknown chart backend", http.StatusNotFound)
		return
	}
	res, err := comparison.ReadResult(bytes.NewReader(snap.Data))
	if err != nil {
		http.Error(w, "snapshot is not a comparison", http.StatusUnprocessableEntity)
		return
	}

	var buf bytes.Buffer
	if err := rd.Render(&buf, chart.NewDataset(res)); err != nil {
		slog.Error("chart render failed", "backend", rd.Name(), "error", err)
		http.Error(w, "could not draw the chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", rd.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	writeAttachment(w, snap)
}

func (s *Server) loadSnapshot(w http.ResponseWriter, r *http.Request) (snapshot.Snapshot, bool) {
	snap, err := s.snapshots.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, snapshot.ErrNotFound) {
		http.Error(w, "download expired or not found", http.StatusNotFound)
		return snapshot.Snapshot{}, false
	}
	if err != nil {
		slog.Error("loading snapshot failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return snapshot.Snapshot{}, false
	}
	return snap, true
}
