package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/akshatgupta/notetube/config"
	"github.com/akshatgupta/notetube/middleware"
	"github.com/akshatgupta/notetube/openai"
	"github.com/akshatgupta/notetube/repository"
	"github.com/akshatgupta/notetube/services/notes"
	"github.com/akshatgupta/notetube/validation"
	"github.com/sirupsen/logrus"
)

type Server struct {
	notes     *NotesHandler
	settings  *SettingsHandler
	keys      *KeyHandler
	progress  *ProgressHub
	config    *config.Config
	logger    *logrus.Logger
	server    *http.Server
	startTime time.Time
}

type ServerOption func(*Server)

// NewServer creates the API server with the provided options.
func NewServer(cfg *config.Config, opts ...ServerOption) *Server {
	s := &Server{
		config:    cfg,
		logger:    logrus.StandardLogger(),
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// WithServices wires the handlers to the provided services.
func WithServices(
	notesSvc notes.Service,
	settingsRepo repository.SettingsRepository,
	client openai.Client,
	hub *ProgressHub,
) ServerOption {
	return func(s *Server) {
		validator := validation.NewValidator(s.config)
		s.notes = NewNotesHandler(notesSvc, settingsRepo, validator)
		s.settings = NewSettingsHandler(settingsRepo)
		s.keys = NewKeyHandler(client, validator)
		s.progress = hub
	}
}

// WithLogger sets a custom logger for the server.
func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.WithField("port", s.config.ServerPort).Info("Starting server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/notes", s.notes.HandleGenerate)
	mux.HandleFunc("GET /api/notes", s.notes.HandleGet)
	mux.HandleFunc("DELETE /api/notes", s.notes.HandleClear)
	mux.HandleFunc("GET /api/notes/export", s.notes.HandleExport)
	mux.HandleFunc("GET /api/notes/status", s.notes.HandleStatus)

	mux.HandleFunc("GET /api/settings", s.settings.HandleGet)
	mux.HandleFunc("PUT /api/settings", s.settings.HandlePut)

	mux.HandleFunc("POST /api/key/validate", s.keys.HandleValidate)

	mux.HandleFunc("GET /api/progress", s.progress.HandleProgress)

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.middleware(mux)
}

func (s *Server) middleware(handler http.Handler) http.Handler {
	var middlewares []func(http.Handler) http.Handler

	if s.config.Middleware.EnableRecover {
		middlewares = append(middlewares, middleware.Recovery(s.logger))
	}

	if s.config.Middleware.EnableRequestID {
		middlewares = append(middlewares, middleware.RequestID())
	}

	if s.config.Middleware.EnableLogger {
		middlewares = append(middlewares, middleware.Logging(s.logger))
	}

	if s.config.Middleware.EnableCORS {
		middlewares = append(middlewares, middleware.CORS(s.config.CORS))
	}

	if s.config.Middleware.EnableRateLimit && s.config.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(
			s.config.RateLimit.RequestsPerMinute,
			s.config.RateLimit.BurstSize,
		)
		middlewares = append(middlewares, rateLimiter.Middleware)
	}

	return middleware.Chain(handler, middlewares...)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   s.config.Version,
		"uptime":    time.Since(s.startTime).String(),
	}

	if s.config.Debug {
		status["debug"] = true
		status["goroutines"] = runtime.NumGoroutine()
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		status["memory"] = map[string]interface{}{
			"allocated": m.Alloc,
			"total":     m.TotalAlloc,
			"system":    m.Sys,
			"gc_cycles": m.NumGC,
		}
	}

	respondJSON(w, r, http.StatusOK, status)
}
