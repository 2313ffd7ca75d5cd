package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/qpaper/internal/composer"
	"github.com/hyperjump/qpaper/internal/config"
	"github.com/hyperjump/qpaper/internal/generate"
	"github.com/hyperjump/qpaper/internal/keyword"
	"github.com/hyperjump/qpaper/internal/models"
	"github.com/hyperjump/qpaper/internal/render"
	"github.com/hyperjump/qpaper/internal/storage"
)

type stubGenerator struct {
	response string
	err      error
}

func (g *stubGenerator) Generate(context.Context, string) (string, error) { return g.response, g.err }
func (g *stubGenerator) Model() string                                     { return "stub" }

type stubInbox struct{ dirs []string }

func (s stubInbox) Directories() []string { return s.dirs }

const generated = "### QUESTION PAPER\nUNIT 1\n1. Define a graph.\nCO2 (5)\n### ANSWER KEY\n1. A set of vertices and edges."

func newTestServer(t *testing.T, gen generate.TextGenerator, inbox InboxService) http.Handler {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "papers.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	idx, err := keyword.NewBleveIndex(filepath.Join(dir, "questions"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { idx.Close() })

	c := composer.New(store, generate.NewService(gen), composer.WithQuestionIndex(idx))
	return NewServer(c, &config.ServerConfig{Host: "localhost", Port: 8080}, inbox, zap.NewNop()).Handler()
}

func do(t *testing.T, h http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	} else {
		rd = bytes.NewReader(nil)
	}
	r := httptest.NewRequest(method, target, rd)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func validRequest() *models.GenerationRequest {
	return &models.GenerationRequest{
		Subject:    "Discrete Mathematics",
		CourseCode: "MA301",
		Semester:   "3rd",
		ExamType:   "Mid-Semester",
		TotalMarks: 30,
		Topics:     []string{"Graphs"},
		NumLong:    1,
	}
}

func TestHandleGenerate(t *testing.T) {
	h := newTestServer(t, &stubGenerator{response: generated}, nil)

	w := do(t, h, http.MethodPost, "/api/v1/papers", validRequest())
	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body)
	}
	var rec models.PaperRecord
	if err := json.NewDecoder(w.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID == "" || rec.Questions != 1 || rec.Parameters.AnswerKey != "1. A set of vertices and edges." {
		t.Errorf("unexpected record %+v", rec)
	}

	w = do(t, h, http.MethodGet, "/api/v1/papers/"+rec.ID, nil)
	if w.Code != http.StatusOK {
		t.Errorf("get: status %d", w.Code)
	}
}

func TestHandleGenerate_errors(t *testing.T) {
	noTopics := validRequest()
	noTopics.Topics = nil
	tests := []struct {
		name string
		gen  generate.TextGenerator
		body interface{}
		want int
	}{
		{"configuration error", &stubGenerator{response: generated}, noTopics, http.StatusBadRequest},
		{"missing credential", nil, validRequest(), http.StatusBadRequest},
		{"upstream failure", &stubGenerator{err: errors.New("unavailable")}, validRequest(), http.StatusBadGateway},
		{"bad body", &stubGenerator{}, "not an object", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, tt.gen, nil)
			w := do(t, h, http.MethodPost, "/api/v1/papers", tt.body)
			if w.Code != tt.want {
				t.Errorf("status: got %d, want %d (%s)", w.Code, tt.want, w.Body)
			}
			var out map[string]string
			_ = json.NewDecoder(w.Body).Decode(&out)
			if out["error"] == "" {
				t.Error("error body missing")
			}
		})
	}
}

func TestHandleAssembleAndDownload(t *testing.T) {
	h := newTestServer(t, nil, nil)
	body := map[string]interface{}{
		"subject":        "Computer Networks",
		"course_code":    "CS602",
		"semester":       "6th",
		"exam_type":      "End-Semester",
		"total_marks":    100,
		"question_paper": "SECTION A\n1. Explain TCP congestion control.",
		"answer_key":     "1. Slow start, congestion avoidance.",
		"topics":         []string{"Transport layer"},
	}
	w := do(t, h, http.MethodPost, "/api/v1/papers/assemble", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("assemble: status %d, body %s", w.Code, w.Body)
	}
	var rec models.PaperRecord
	if err := json.NewDecoder(w.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.Source != models.SourceSupplied || len(rec.Topics) != 1 {
		t.Errorf("unexpected record %+v", rec)
	}

	w = do(t, h, http.MethodGet, "/api/v1/papers/"+rec.ID+"/docx", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("download: status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != render.DOCXContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="Computer_Networks_question_paper.docx"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Error("download is not a zip package")
	}

	w = do(t, h, http.MethodGet, "/api/v1/papers/"+rec.ID+"/preview", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Explain TCP congestion control.") {
		t.Errorf("preview: status %d body %s", w.Code, w.Body)
	}
}

func TestHandlePapers_notFound(t *testing.T) {
	h := newTestServer(t, nil, nil)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/papers/missing"},
		{http.MethodGet, "/api/v1/papers/missing/docx"},
		{http.MethodGet, "/api/v1/papers/missing/preview"},
		{http.MethodDelete, "/api/v1/papers/missing"},
	} {
		if w := do(t, h, tc.method, tc.path, nil); w.Code != http.StatusNotFound {
			t.Errorf("%s %s: status %d, want 404", tc.method, tc.path, w.Code)
		}
	}
}

func TestHandleListAndDelete(t *testing.T) {
	h := newTestServer(t, &stubGenerator{response: generated}, nil)
	var ids []string
	for i := 0; i < 3; i++ {
		w := do(t, h, http.MethodPost, "/api/v1/papers", validRequest())
		var rec models.PaperRecord
		_ = json.NewDecoder(w.Body).Decode(&rec)
		ids = append(ids, rec.ID)
	}

	w := do(t, h, http.MethodGet, "/api/v1/papers?limit=2", nil)
	var page struct {
		Papers []models.PaperRecord `json:"papers"`
		Total  int                  `json:"total"`
		Limit  int                  `json:"limit"`
	}
	if err := json.NewDecoder(w.Body).Decode(&page); err != nil {
		t.Fatal(err)
	}
	if len(page.Papers) != 2 || page.Total != 3 || page.Limit != 2 {
		t.Errorf("page = %d papers, total %d, limit %d", len(page.Papers), page.Total, page.Limit)
	}

	if w := do(t, h, http.MethodGet, "/api/v1/papers?offset=-1", nil); w.Code != http.StatusBadRequest {
		t.Errorf("negative offset: status %d", w.Code)
	}

	if w := do(t, h, http.MethodDelete, "/api/v1/papers/"+ids[0], nil); w.Code != http.StatusOK {
		t.Errorf("delete: status %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/api/v1/papers/"+ids[0], nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d", w.Code)
	}
}

func TestHandleSearchQuestions(t *testing.T) {
	h := newTestServer(t, &stubGenerator{response: generated}, nil)
	if w := do(t, h, http.MethodPost, "/api/v1/papers", validRequest()); w.Code != http.StatusCreated {
		t.Fatalf("generate: %d", w.Code)
	}

	w := do(t, h, http.MethodGet, "/api/v1/questions?q=graph", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var out struct {
		Hits []keyword.Hit `json:"hits"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Hits) != 1 || out.Hits[0].Text != "1. Define a graph." {
		t.Errorf("hits = %+v", out.Hits)
	}

	w = do(t, h, http.MethodGet, "/api/v1/questions?q=grapj&fuzzy=true", nil)
	_ = json.NewDecoder(w.Body).Decode(&out)
	if len(out.Hits) != 1 {
		t.Errorf("fuzzy hits = %+v", out.Hits)
	}

	if w := do(t, h, http.MethodGet, "/api/v1/questions?q=", nil); w.Code != http.StatusBadRequest {
		t.Errorf("empty query: status %d", w.Code)
	}

	if w := do(t, h, http.MethodPost, "/api/v1/questions/reindex", nil); w.Code != http.StatusOK {
		t.Errorf("reindex: status %d", w.Code)
	}
}

func TestHandleOptionsStatusInboxHealth(t *testing.T) {
	h := newTestServer(t, nil, stubInbox{dirs: []string{"/srv/jobs"}})

	w := do(t, h, http.MethodGet, "/api/v1/options", nil)
	var opts map[string][]string
	if err := json.NewDecoder(w.Body).Decode(&opts); err != nil {
		t.Fatal(err)
	}
	if len(opts["exam_types"]) != len(models.ExamTypes) || len(opts["difficulties"]) != 4 {
		t.Errorf("options = %v", opts)
	}

	w = do(t, h, http.MethodGet, "/api/v1/status", nil)
	var st composer.Status
	if err := json.NewDecoder(w.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusOK || st.Papers != 0 {
		t.Errorf("status: %d %+v", w.Code, st)
	}

	w = do(t, h, http.MethodGet, "/api/v1/inbox", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/srv/jobs") {
		t.Errorf("inbox: %d %s", w.Code, w.Body)
	}

	if w := do(t, h, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Errorf("health: status %d", w.Code)
	}
}

func TestHandleInbox_notEnabled(t *testing.T) {
	h := newTestServer(t, nil, nil)
	if w := do(t, h, http.MethodGet, "/api/v1/inbox", nil); w.Code != http.StatusNotImplemented {
		t.Errorf("status %d, want 501", w.Code)
	}
}
