// Package server provides the HTTP API for qpaper.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/qpaper/internal/composer"
	"github.com/hyperjump/qpaper/internal/config"
)

// generationTimeout bounds a request end to end; generation dominates it.
const generationTimeout = 3 * time.Minute

// InboxService exposes the job inbox to the API. Optional.
type InboxService interface {
	Directories() []string
}

// Server is the HTTP server for the qpaper API.
type Server struct {
	composer *composer.Composer
	config   *config.ServerConfig
	inbox    InboxService // nil when the inbox is disabled
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies. inbox may be nil.
func NewServer(c *composer.Composer, cfg *config.ServerConfig, inbox InboxService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		composer: c,
		config:   cfg,
		inbox:    inbox,
		logger:   logger,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(generationTimeout))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/papers", func(r chi.Router) {
			r.Post("/", s.handleGenerate)
			r.Post("/assemble", s.handleAssemble)
			r.Get("/", s.handleListPapers)
			r.Get("/{id}", s.handleGetPaper)
			r.Get("/{id}/docx", s.handleDownload)
			r.Get("/{id}/preview", s.handlePreview)
			r.Delete("/{id}", s.handleDeletePaper)
		})
		r.Get("/questions", s.handleSearchQuestions)
		r.Post("/questions/reindex", s.handleReindex)
		r.Get("/options", s.handleOptions)
		r.Get("/status", s.handleStatus)
		r.Get("/inbox", s.handleInbox)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.config.Addr()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
