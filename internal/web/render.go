package web

import (
	"bytes"
	"html/template"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/p-n-ai/competency-compass/internal/snapshot"
)

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// page is the data every template receives.
type page struct {
	Title   string
	Error   string
	Errors  []string
	Warning string
	Info    string
	Body    any
	// SnapshotID names the downloadable file of this page, if any.
	SnapshotID string
}

func (s *Server) render(w http.ResponseWriter, status int, name string, p page) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, p); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeAttachment(w http.ResponseWriter, snap snapshot.Snapshot) {
	w.Header().Set("Content-Type", snap.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": snap.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(snap.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(snap.Data)
}

// errorMessages flattens joined errors into one message per cause.
func errorMessages(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, errorMessages(e)...)
		}
		return msgs
	}
	return []string{err.Error()}
}
