package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/renovo/internal/photostore"
	"github.com/vbonduro/renovo/internal/service"
)

type Server struct {
	service    *service.BeforePhotoService
	photoStore photostore.PhotoStore
	mux        *http.ServeMux
	logger     *slog.Logger
}

func NewServer(svc *service.BeforePhotoService, ps photostore.PhotoStore, logger *slog.Logger) *Server {
	s := &Server{
		service:    svc,
		photoStore: ps,
		mux:        http.NewServeMux(),
		logger:     logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /projects", s.handleListProjects)
	s.mux.HandleFunc("POST /projects", s.handleCreateProject)
	s.mux.HandleFunc("GET /projects/{id}", s.handleGetProject)
	s.mux.HandleFunc("PATCH /projects/{id}", s.handleRenameProject)
	s.mux.HandleFunc("DELETE /projects/{id}", s.handleDeleteProject)

	s.mux.HandleFunc("GET /projects/{id}/before-photos", s.handleGetBeforePhotos)
	s.mux.HandleFunc("POST /projects/{id}/before-photos/upload", s.handleUploadPhoto)
	s.mux.HandleFunc("POST /projects/{id}/before-photos/migrate", s.handleMigrate)
	s.mux.HandleFunc("GET /projects/{id}/before-photos/{area}", s.handleGetAreaPhotos)
	s.mux.HandleFunc("POST /projects/{id}/before-photos/{area}", s.handleAddPhotoURLs)
	s.mux.HandleFunc("DELETE /projects/{id}/before-photos/{area}/{index}", s.handleRemovePhoto)
	s.mux.HandleFunc("POST /projects/{id}/before-photos/{area}/reorder", s.handleReorderPhotos)

	s.mux.HandleFunc("GET /photos/{key}", s.handleGetPhoto)
}

// securityHeaders sets the hardening headers on every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

const shutdownTimeout = 10 * time.Second
