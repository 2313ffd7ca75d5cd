package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/qpaper/internal/composer"
	"github.com/hyperjump/qpaper/internal/generate"
	"github.com/hyperjump/qpaper/internal/keyword"
	"github.com/hyperjump/qpaper/internal/models"
	"github.com/hyperjump/qpaper/internal/paper"
	"github.com/hyperjump/qpaper/internal/render"
	"github.com/hyperjump/qpaper/internal/storage"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// statusFor maps workflow errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case generate.IsConfigurationError(err), errors.Is(err, keyword.ErrEmptyQuery):
		return http.StatusBadRequest
	case generate.IsGenerationError(err):
		return http.StatusBadGateway
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, composer.ErrNoQuestionBank):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(msg, zap.Error(err))
	} else {
		s.logger.Debug(msg, zap.Int("status", status), zap.Error(err))
	}
	s.respondError(w, status, err.Error())
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("generate request", zap.String("subject", req.Subject), zap.Int("topics", len(req.Topics)))
	rec, err := s.composer.Generate(r.Context(), &req)
	if err != nil {
		s.fail(w, "generation failed", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, rec)
}

type assembleRequest struct {
	paper.Parameters
	Topics []string `json:"topics,omitempty"`
}

func (s *Server) handleAssemble(w http.ResponseWriter, r *http.Request) {
	var req assembleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, err := s.composer.Compose(r.Context(), &req.Parameters, req.Topics)
	if err != nil {
		s.fail(w, "assembly failed", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, rec)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return n, nil
}

func pageSize(r *http.Request) (int, error) {
	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil {
		return 0, err
	}
	if limit == 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return limit, nil
}

func (s *Server) handleListPapers(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := pageSize(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	recs, total, err := s.composer.List(r.Context(), offset, limit)
	if err != nil {
		s.fail(w, "list papers failed", err)
		return
	}
	if recs == nil {
		recs = []*models.PaperRecord{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"papers": recs,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}

func (s *Server) handleGetPaper(w http.ResponseWriter, r *http.Request) {
	rec, err := s.composer.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "get paper failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	data, name, err := s.composer.Render(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "render failed", err)
		return
	}
	w.Header().Set("Content-Type", render.DOCXContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	_, doc, err := s.composer.Document(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "preview failed", err)
		return
	}
	var buf bytes.Buffer
	if err := render.Text(&buf, doc); err != nil {
		s.fail(w, "preview failed", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleDeletePaper(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete paper request", zap.String("id", id))
	if err := s.composer.Delete(r.Context(), id); err != nil {
		s.fail(w, "delete failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) handleSearchQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := pageSize(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts := &keyword.SearchOptions{
		Subject: q.Get("subject"),
		Fuzzy:   q.Get("fuzzy") == "true" || q.Get("fuzzy") == "1",
	}
	hits, err := s.composer.SearchQuestions(r.Context(), q.Get("q"), limit, opts)
	if err != nil {
		s.fail(w, "question search failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"query": q.Get("q"), "hits": hits})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	n, err := s.composer.Reindex(r.Context())
	if err != nil {
		s.fail(w, "reindex failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]int{"questions": n})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string][]string{
		"exam_types":   models.ExamTypes,
		"difficulties": models.DifficultyPatterns,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.composer.Status(r.Context())
	if err != nil {
		s.fail(w, "status failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleInbox(w http.ResponseWriter, r *http.Request) {
	if s.inbox == nil {
		s.respondError(w, http.StatusNotImplemented, "job inbox not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": s.inbox.Directories()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
