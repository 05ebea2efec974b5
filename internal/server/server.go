// Package server exposes the plan service over HTTP: report generation,
// Gantt data, CSV export, and the session endpoints the upstream
// extraction service writes through.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/imkarma/pland/internal/config"
	"github.com/imkarma/pland/internal/report"
	"github.com/imkarma/pland/internal/store"
)

// Status reports runtime lifecycle states for the HTTP server.
type Status string

const (
	StatusStarting Status = "starting"
	StatusReady    Status = "ready"
	StatusDraining Status = "draining"
)

// Server wraps the HTTP listener and handlers backing the plan API.
type Server struct {
	cfg       *config.Config
	store     *store.Store
	generator *report.Generator
	logger    *slog.Logger

	mu        sync.RWMutex
	server    *http.Server
	listener  net.Listener
	status    Status
	startTime time.Time
}

// Option customizes server construction.
type Option func(*Server)

// WithLogger overrides the default discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock controls the default start date used when a report request
// omits one. Tests use it to pin "today".
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.generator = report.NewGenerator(s.store, report.WithClock(clock))
		}
	}
}

// New prepares a plan server over the given store.
func New(cfg *config.Config, st *store.Store, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		store:     st,
		generator: report.NewGenerator(st),
		logger:    slog.New(slog.DiscardHandler),
		status:    StatusStarting,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start binds the TCP listener and begins serving HTTP traffic.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("server already started")
	}

	listener, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Listen, err)
	}
	s.listener = listener
	s.startTime = time.Now()

	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout()) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout()) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeout()) * time.Second,
	}
	if ctx != nil {
		srv.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.server = srv
	s.status = StatusReady

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve error", "error", err)
		}
	}()
	s.logger.Info("listening", "addr", listener.Addr().String())
	return nil
}

// Shutdown stops accepting new connections and waits for in-flight
// requests to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil || s.server == nil {
		return nil
	}
	s.status = StatusDraining

	deadline := ctx
	if deadline == nil {
		var cancel context.CancelFunc
		deadline, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	if err := s.server.Shutdown(deadline); err != nil {
		return err
	}
	s.listener = nil
	s.server = nil
	return nil
}

// Addr returns the bound TCP address once the server has started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// CurrentStatus reports the server's lifecycle state.
func (s *Server) CurrentStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Handler builds the full route table wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/generate_report", s.handleGenerateReport)
	mux.HandleFunc("GET /api/gantt_data/{plan_id}", s.handleGanttData)
	mux.HandleFunc("GET /api/report/{plan_id}", s.handleReport)
	mux.HandleFunc("GET /api/report/{plan_id}/csv", s.handleReportCSV)
	mux.HandleFunc("POST /api/sessions", s.handleUpsertSession)
	mux.HandleFunc("POST /api/sessions/{session_id}/changes", s.handleSessionChanges)
	return s.logRequests(s.cors(mux))
}

func (s *Server) uptimeSeconds() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.startTime.IsZero() {
		return 0
	}
	return int64(time.Since(s.startTime).Seconds())
}
