// Package server exposes the albumgrid layout pipeline over HTTP.
//
// # Routes
//
//	GET    /healthz                        liveness and build info
//	POST   /v1/layout                      stateless layout (no storage)
//	POST   /v1/layouts                     compute and store a layout
//	GET    /v1/layouts                     list stored layouts, newest first
//	GET    /v1/layouts/{id}                fetch a stored layout
//	GET    /v1/layouts/{id}/render.{fmt}   render a stored layout (json, svg, png)
//	DELETE /v1/layouts/{id}                delete a stored layout
//
// Errors are returned as {"error": {"code", "message", "request_id"}} with a
// status derived from the [errors.Code] of the failure.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/albumgrid/pkg/pipeline"
	"github.com/matzehuels/albumgrid/pkg/storage"
)

const (
	// DefaultAddr is the listen address used when Config.Addr is empty.
	DefaultAddr = ":8080"

	// DefaultRequestTimeout bounds a single request.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultMaxBodyBytes bounds request bodies. Albums are small.
	DefaultMaxBodyBytes = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr           string
	Runner         *pipeline.Runner
	Store          storage.Store
	Logger         *log.Logger
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// Server serves the layout API.
type Server struct {
	cfg    Config
	log    *log.Logger
	router chi.Router
}

// New creates a server. A nil Runner gets an uncached runner and a nil Store
// gets an in-memory store.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = storage.NewMemoryStore()
	}

	s := &Server{cfg: cfg, log: cfg.Logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the runner cache and the store.
func (s *Server) Close(ctx context.Context) error {
	return stderrors.Join(s.cfg.Runner.Close(), s.cfg.Store.Close(ctx))
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errRouteNotFound(r))
	})

	r.Group(func(r chi.Router) {
		// Inline middleware runs after routing, so the route pattern is known.
		r.Use(s.instrument)

		r.Get("/healthz", s.handleHealth)
		r.Post("/v1/layout", s.handleCompute)
		r.Post("/v1/layouts", s.handleCreate)
		r.Get("/v1/layouts", s.handleList)
		r.Get("/v1/layouts/{id}", s.handleGet)
		r.Delete("/v1/layouts/{id}", s.handleDelete)
		r.Get("/v1/layouts/{id}/render.{format}", s.handleRender)
	})
	return r
}
