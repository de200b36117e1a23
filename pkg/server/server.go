// Package server exposes the layout pipeline over HTTP.
//
// # Routes
//
//	GET    /healthz                      liveness and build version
//	GET    /api/demo                     layout of the built-in demo set
//	POST   /api/layout                   layout of posted records (JSON, YAML, TOML or package.json)
//	POST   /api/render?format=svg        render a pipeline request body
//	GET    /api/snapshots                list stored snapshots
//	POST   /api/snapshots                store posted records
//	GET    /api/snapshots/{id}           fetch a snapshot
//	DELETE /api/snapshots/{id}           delete a snapshot
//	GET    /api/snapshots/{id}/layout    layout of a stored snapshot
//	GET    /ws                           live layout updates
//
// Layout endpoints accept the layout options as query parameters (axis,
// orientation, sort, resolve, break_cycles, no_invert, max_depth, label).
// Every computed layout is also pushed to websocket subscribers.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/deptiers/pkg/pipeline"
	"github.com/matzehuels/deptiers/pkg/store"
)

// Request limits.
const (
	MaxBodyBytes   = 10 << 20
	RequestTimeout = time.Minute
)

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	hub    *Hub
	logger *log.Logger
	router chi.Router
}

// Config holds the collaborators of a Server. Nil fields get defaults: an
// uncached runner, a memory store and a discarding logger.
type Config struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger
}

// New creates a server and its routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}

	s := &Server{
		runner: cfg.Runner,
		store:  cfg.Store,
		hub:    NewHub(cfg.Logger),
		logger: cfg.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWebsocket)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(RequestTimeout))
		r.Get("/demo", s.handleDemo)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)

		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", s.handleListSnapshots)
			r.Post("/", s.handleCreateSnapshot)
			r.Get("/{id}", s.handleGetSnapshot)
			r.Delete("/{id}", s.handleDeleteSnapshot)
			r.Get("/{id}/layout", s.handleSnapshotLayout)
		})
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the websocket hub, for callers that push layouts themselves
// (such as the file watcher).
func (s *Server) Hub() *Hub { return s.hub }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, closing the websocket hub, the runner cache and the store.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down server")
	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := s.runner.Close(); err != nil {
		s.logger.Warn("closing cache", "error", err)
	}
	return s.store.Close(shutdownCtx)
}
