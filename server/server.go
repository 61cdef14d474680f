// Package server provides the ops HTTP server for the keep registry.
//
// The server exposes a REST API to observe and control the registry:
// listing records, changing modes, reading captured per-record logs and
// status lines, and scraping Prometheus metrics.
//
// # Endpoints
//
//   - GET /health - Simple health check, returns "ok"
//   - GET /api/status - Consolidated status (registry counts, next sweep, build info)
//   - GET /api/activities - Lists current records
//   - GET /api/activities/{key} - Returns a single record
//   - POST /api/activities/{key}/mode - Changes a record's mode
//   - DELETE /api/activities/{key} - Removes a record
//   - GET /api/activities/{key}/logs - Returns captured logs for a record
//   - GET /api/statuslines - Returns current per-record status lines
//   - GET /metrics - Prometheus scrape endpoint (when configured)
//
// # Example
//
//	srv, err := server.New(reg, server.WithListenAddr(":8080"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nomis52/keep/activity"
	"github.com/nomis52/keep/logging"
	"github.com/nomis52/keep/registry"
	"github.com/nomis52/keep/server/handlers"
	"github.com/nomis52/keep/sweep"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	defaultListenAddr      = ":8080"
)

// Server is the ops HTTP server for a registry.
type Server struct {
	addr       string
	logger     *slog.Logger
	reg        *registry.Registry
	collector  *logging.LogCollector
	statuses   *activity.StatusHandler
	metricsH   http.Handler
	trigger    *sweep.Trigger
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server) error

// WithListenAddr configures the address the server listens on.
// Default is ":8080".
func WithListenAddr(addr string) Option {
	return func(s *Server) error {
		s.addr = addr
		return nil
	}
}

// WithLogger sets a custom logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		s.logger = logger.With("component", "server")
		return nil
	}
}

// WithLogCollector exposes captured per-record logs via the API.
func WithLogCollector(c *logging.LogCollector) Option {
	return func(s *Server) error {
		s.collector = c
		return nil
	}
}

// WithStatusHandler exposes per-record status lines via the API.
func WithStatusHandler(sh *activity.StatusHandler) Option {
	return func(s *Server) error {
		s.statuses = sh
		return nil
	}
}

// WithMetricsHandler serves the given handler at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) error {
		s.metricsH = h
		return nil
	}
}

// WithSweep runs a maintenance sweep over the registry on a cron
// schedule. The spec follows standard cron format (5 fields: minute,
// hour, day, month, weekday).
func WithSweep(spec string) Option {
	return func(s *Server) error {
		sweeper := sweep.NewSweeper(s.reg, s.logger)
		trigger, err := sweep.NewTrigger(spec, sweeper, s.logger)
		if err != nil {
			return fmt.Errorf("creating sweep trigger: %w", err)
		}
		s.trigger = trigger
		return nil
	}
}

// New creates a new Server over the given registry.
func New(reg *registry.Registry, opts ...Option) (*Server, error) {
	s := &Server{
		addr:   defaultListenAddr,
		logger: slog.Default().With("component", "server"),
		reg:    reg,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Status returns the registry's point-in-time summary.
func (s *Server) Status() registry.Status {
	return s.reg.Status()
}

// NextSweep returns the next scheduled sweep time, or nil if no sweep is
// configured.
func (s *Server) NextSweep() *time.Time {
	if s.trigger == nil {
		return nil
	}
	next := s.trigger.NextRun()
	return &next
}

// Run starts the HTTP server and blocks until the context is cancelled.
// It performs a graceful shutdown when the context is done.
// If a sweep trigger is configured, it will be started automatically.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	// Start sweep trigger if configured
	if s.trigger != nil {
		s.logger.Info("starting sweep trigger",
			"next_run", s.trigger.NextRun(),
		)
		s.trigger.Start(ctx)
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or server error
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	apiStatusHandler := handlers.NewAPIStatusHandler(s.logger, s)
	activitiesHandler := handlers.NewActivitiesHandler(s.reg)
	activityHandler := handlers.NewActivityHandler(s.reg)
	modeHandler := handlers.NewModeHandler(s.logger, s.reg, s.reg)
	removeHandler := handlers.NewRemoveHandler(s.logger, s.reg)

	mux.HandleFunc("GET /health", handlers.HandleHealth)
	mux.Handle("GET /api/status", apiStatusHandler)
	mux.Handle("GET /api/activities", activitiesHandler)
	mux.Handle("GET /api/activities/{key}", activityHandler)
	mux.Handle("POST /api/activities/{key}/mode", modeHandler)
	mux.Handle("DELETE /api/activities/{key}", removeHandler)

	if s.collector != nil {
		mux.Handle("GET /api/activities/{key}/logs", handlers.NewLogsHandler(s.collector))
	}
	if s.statuses != nil {
		mux.Handle("GET /api/statuslines", handlers.NewStatusLinesHandler(s.statuses))
	}
	if s.metricsH != nil {
		mux.Handle("GET /metrics", s.metricsH)
	}
}
