package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/competency-compass/internal/assessment"
)

const liveIdleTimeout = 10 * time.Minute

// previewRequest carries the current answers of the form, keyed by field
// name ("level-3") or by topic.
type previewRequest struct {
	Answers map[string]string `json:"answers"`
}

type previewResponse struct {
	Answered int    `json:"answered"`
	Total    int    `json:"total"`
	CSV      string `json:"csv"`
	Error    string `json:"error,omitempty"`
}

// handleLive re-evaluates the selection on every message and answers with
// the export it would produce.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	for {
		ctx, cancel := context.WithTimeout(r.Context(), liveIdleTimeout)
		var req previewRequest
		err := wsjson.Read(ctx, conn, &req)
		cancel()
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
				slog.Debug("live preview closed", "error", err)
			}
			return
		}

		if err := wsjson.Write(r.Context(), conn, s.preview(req)); err != nil {
			slog.Debug("live preview write failed", "error", err)
			return
		}
	}
}

func (s *Server) preview(req previewRequest) previewResponse {
	resp := previewResponse{Total: len(s.prompts)}
	if s.loadErr != nil {
		resp.Error = s.loadErr.Error()
		return resp
	}

	answers := make(map[string]string, len(s.prompts))
	for _, p := range s.prompts {
		if v, ok := req.Answers[p.Field()]; ok {
			answers[p.Topic] = v
		} else {
			answers[p.Topic] = req.Answers[p.Topic]
		}
	}

	sel := assessment.NewSelection(s.prompts, answers)
	data, err := sel.CSV()
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Answered = sel.Len()
	resp.CSV = string(data)
	return resp
}
