// Package server exposes the scene pipeline over HTTP.
//
// Routes:
//
//	GET  /                      viewer page with the parameter form
//	GET  /healthz               build information
//	GET  /metrics               Prometheus metrics, when configured
//	GET  /api/scene             scene document and analysis report
//	POST /api/scene             same, parameters from a form or JSON body
//	GET  /api/render/{format}   one rendered artifact
//	GET  /api/presets           list presets
//	POST /api/presets           save a preset
//	GET  /api/presets/{id}      one preset
//	DELETE /api/presets/{id}    delete a preset
//
// Scene parameters start from the configured defaults, or from a saved
// preset when ?preset= names one. Errors are JSON {"error", "code"}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stowage/pkg/pipeline"
	"github.com/matzehuels/stowage/pkg/scene"
	"github.com/matzehuels/stowage/pkg/store"
)

// Defaults.
const (
	DefaultMaxItems       = 10000
	DefaultMaxMeshCells   = 400
	DefaultMaxFrame       = 4096 // px per side; PNG rasters are twice that
	DefaultRequestTimeout = time.Minute
	shutdownTimeout       = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Runner   *pipeline.Runner
	Store    store.Store
	Defaults scene.Params
	Render   pipeline.Options // frame defaults for /api/render
	MaxItems int
	Logger   *log.Logger
	Metrics  http.Handler // mounted at /metrics when set

	// RequestTimeout bounds each request's context. Requests that run
	// past it answer 504 TIMEOUT.
	RequestTimeout time.Duration
}

// Server is the HTTP front end.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	defaults scene.Params
	render   pipeline.Options
	maxItems int
	logger   *log.Logger
	router   chi.Router
}

// New builds the router.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Defaults == (scene.Params{}) {
		cfg.Defaults = scene.DefaultParams()
	}
	if cfg.MaxItems == 0 {
		cfg.MaxItems = DefaultMaxItems
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	s := &Server{
		runner:   cfg.Runner,
		store:    cfg.Store,
		defaults: cfg.Defaults.WithColorDefaults(),
		render:   cfg.Render,
		maxItems: cfg.MaxItems,
		logger:   cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(instrument)
	r.Use(s.recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/scene", s.handleScene)
		r.Post("/scene", s.handleScene)
		r.Get("/render/{format}", s.handleRender)

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", s.handleListPresets)
			r.Post("/", s.handleSavePreset)
			r.Get("/{id}", s.handleGetPreset)
			r.Delete("/{id}", s.handleDeletePreset)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, notFound(r.URL.Path))
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
