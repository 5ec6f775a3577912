package web

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

func TestLivePreview(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx := t.Context()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/assessment", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.CloseNow()

	steps := []struct {
		answers  map[string]string
		answered int
		csv      string
	}{
		{map[string]string{"level-0": "Apply"}, 1, "Topic,Selected Bloom Level\nSequencing QC,Apply\n"},
		{map[string]string{"level-0": "Apply", "Phylogenetics": "Remember: Names tree parts"}, 2,
			"Topic,Selected Bloom Level\nSequencing QC,Apply\nPhylogenetics,Remember\n"},
		{map[string]string{}, 0, "Topic,Selected Bloom Level\n"},
	}

	for _, step := range steps {
		if err := wsjson.Write(ctx, conn, previewRequest{Answers: step.answers}); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		var resp previewResponse
		if err := wsjson.Read(ctx, conn, &resp); err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if resp.Answered != step.answered || resp.Total != 2 {
			t.Errorf("answered = %d/%d, want %d/2", resp.Answered, resp.Total, step.answered)
		}
		if resp.CSV != step.csv {
			t.Errorf("csv = %q, want %q", resp.CSV, step.csv)
		}
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

func TestLivePreview_Disabled(t *testing.T) {
	srv, err := New(Options{LivePreview: false})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rec := serve(srv, httptest.NewRequest("GET", "/ws/assessment", nil))
	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
