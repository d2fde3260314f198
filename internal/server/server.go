// Package server exposes budget estimates and listing analysis over a small
// JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/homebudget/homebudget/internal/analysis"
	"github.com/homebudget/homebudget/internal/budget"
	"github.com/homebudget/homebudget/internal/source"
)

// DefaultAddr is the listen address when Config.Addr is empty.
const DefaultAddr = "127.0.0.1:8787"

// Analyzer runs analyses for the API.
type Analyzer interface {
	Run(ctx context.Context, req analysis.Request) (analysis.Report, error)
	Policy() budget.Policy
}

// Config controls the server.
type Config struct {
	Addr string
	Log  zerolog.Logger
	// Defaults fills any field a request body leaves out.
	Defaults analysis.Request
}

// Status is served at /v1/status. Counters cover the process lifetime only.
type Status struct {
	StartedAt time.Time               `json:"started_at"`
	RunCount  int64                   `json:"run_count"`
	ByOrigin  map[source.Origin]int64 `json:"by_origin"`
	LastRunAt *time.Time              `json:"last_run_at,omitempty"`
}

// Server is the HTTP API.
type Server struct {
	cfg    Config
	an     Analyzer
	router *chi.Mux
	log    zerolog.Logger

	mu        sync.RWMutex
	startedAt time.Time
	runCount  int64
	byOrigin  map[source.Origin]int64
	lastRunAt time.Time
}

// New builds a server around an analyzer.
func New(an Analyzer, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	s := &Server{
		cfg:       cfg,
		an:        an,
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		startedAt: time.Now(),
		byOrigin:  make(map[source.Origin]int64),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/regions", s.handleRegions)
		r.Post("/budget", s.handleBudget)
		r.Post("/analyze", s.handleAnalyze)
	})
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info().Str("addr", s.cfg.Addr).Msg("listening")

	select {
	case <-ctx.Done():
		s.log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Server) record(rep analysis.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runCount++
	s.byOrigin[rep.Origin]++
	s.lastRunAt = rep.StartedAt
}

func (s *Server) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		StartedAt: s.startedAt,
		RunCount:  s.runCount,
		ByOrigin:  make(map[source.Origin]int64, len(s.byOrigin)),
	}
	for o, n := range s.byOrigin {
		st.ByOrigin[o] = n
	}
	if s.runCount > 0 {
		at := s.lastRunAt
		st.LastRunAt = &at
	}
	return st
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
