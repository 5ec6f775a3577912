package web

import (
	"log/slog"
	"net/http"

	"github.com/p-n-ai/competency-compass/internal/assessment"
	"github.com/p-n-ai/competency-compass/internal/snapshot"
)

const csvContentType = "text/csv"

type formBody struct {
	Prompts     []assessment.Prompt
	LivePreview bool
}

type selectionBody struct {
	Entries []assessment.Entry
	Total   int
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if s.loadErr != nil {
		s.render(w, http.StatusInternalServerError, "error", page{
			Title: "Competencies Viewer",
			Error: s.loadErr.Error(),
		})
		return
	}
	s.render(w, http.StatusOK, "form", page{
		Title: "Competencies Viewer",
		Body:  formBody{Prompts: s.prompts, LivePreview: s.livePreview},
	})
}

// selectionFromRequest builds the selection of one form submission.
func (s *Server) selectionFromRequest(r *http.Request) (assessment.Selection, error) {
	if err := r.ParseForm(); err != nil {
		return assessment.Selection{}, err
	}
	answers := make(map[string]string, len(s.prompts))
	for _, p := range s.prompts {
		answers[p.Topic] = r.PostForm.Get(p.Field())
	}
	return assessment.NewSelection(s.prompts, answers), nil
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if s.loadErr != nil {
		s.handleForm(w, r)
		return
	}
	sel, err := s.selectionFromRequest(r)
	if err != nil {
		s.render(w, http.StatusBadRequest, "error", page{Title: "Your Competency Selections", Error: err.Error()})
		return
	}

	s.metrics.Assessment()
	p := page{
		Title: "Your Competency Selections",
		Body:  selectionBody{Entries: sel.Entries(), Total: len(s.prompts)},
	}
	if sel.Len() == 0 {
		p.Info = "No level was selected; there is nothing to download yet."
		s.render(w, http.StatusOK, "selection", p)
		return
	}

	data, err := sel.CSV()
	if err != nil {
		slog.Error("selection export failed", "error", err)
		s.render(w, http.StatusInternalServerError, "error", page{Title: p.Title, Error: "could not export selections"})
		return
	}
	id, err := s.snapshots.Put(r.Context(), snapshot.Snapshot{
		Filename:    assessment.ExportFilename,
		ContentType: csvContentType,
		Data:        data,
	})
	if err != nil {
		slog.Error("storing selection snapshot failed", "error", err)
	} else {
		p.SnapshotID = id
	}

	slog.Info("assessment submitted", "answered", sel.Len(), "topics", len(s.prompts))
	s.render(w, http.StatusOK, "selection", p)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.loadErr != nil {
		s.handleForm(w, r)
		return
	}
	sel, err := s.selectionFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := sel.CSV()
	if err != nil {
		slog.Error("selection export failed", "error", err)
		http.Error(w, "could not export selections", http.StatusInternalServerError)
		return
	}
	writeAttachment(w, snapshot.Snapshot{
		Filename:    assessment.ExportFilename,
		ContentType: csvContentType,
		Data:        data,
	})
}
