package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/doccheck/internal/completion"
	"github.com/sells-group/doccheck/internal/config"
	"github.com/sells-group/doccheck/internal/extract"
	"github.com/sells-group/doccheck/internal/validator"
)

// Validator is the batch orchestration surface the HTTP layer consumes.
type Validator interface {
	Validate(ctx context.Context, text string, rules []string) []validator.Verdict
}

// Server exposes the document validation API. The completion client and
// batch may be nil when no credential is configured; the server still runs so
// /api/health can report the missing key, and /api/validate fails fast.
type Server struct {
	cfg       config.ServerConfig
	extractor extract.Extractor
	client    completion.Client
	batch     Validator
}

// New creates a Server.
func New(cfg config.ServerConfig, ext extract.Extractor, client completion.Client, batch Validator) *Server {
	return &Server{
		cfg:       cfg,
		extractor: ext,
		client:    client,
		batch:     batch,
	}
}

// Router builds the chi router for the API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(requestLogger)

	r.Post("/api/validate", s.handleValidate)
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/test-key", s.handleTestKey)

	return r
}

// Run serves the API until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", s.cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server listen")
	}

	return nil
}

// requestLogger logs each request with structured zap fields.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
