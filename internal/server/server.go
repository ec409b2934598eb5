// Package server exposes the submission pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	scalargo "github.com/bdpiprava/scalar-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dealhive/dealhive-backend/internal/models"
	"github.com/dealhive/dealhive-backend/internal/submission"
)

// SubmissionService is the slice of the submission router the HTTP layer
// needs.
type SubmissionService interface {
	Submit(ctx context.Context, sub models.Submission) (*submission.Result, error)
	Resubmit(ctx context.Context, req submission.EditRequest) (*submission.EditResult, error)
}

type Server struct {
	submissions SubmissionService
	docsDir     string
}

// NewRouter wires the HTTP routes around the submission service. docsDir
// points at the directory holding the OpenAPI spec served at /docs.
func NewRouter(submissions SubmissionService, docsDir string) http.Handler {
	s := &Server{submissions: submissions, docsDir: docsDir}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/docs", s.handleDocs)
	r.Route("/api/deals", func(r chi.Router) {
		r.Post("/submit", s.handleSubmit)
		r.Post("/resubmit", s.handleResubmit)
	})
	return r
}

// requestLogger logs each request with slog after it completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"requestId", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	html, err := scalargo.NewV2(
		scalargo.WithSpecDir(s.docsDir),
		scalargo.WithMetaDataOpts(
			scalargo.WithTitle("DealHive API"),
		),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}
