// Package server exposes the insights panels as a stateless JSON API.
// Each request runs one aggregation against the shared, immutable table.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/skillscope/dataset"
	"github.com/spektr-org/skillscope/insights"
)

// Config holds configuration for the API server.
type Config struct {
	Table             *dataset.Table
	Addr              string
	DefaultState      string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	Options           []insights.Option
	Logger            *zap.Logger
}

// Server is the JSON API server.
type Server struct {
	table             *dataset.Table
	addr              string
	defaultState      string
	readHeaderTimeout time.Duration
	shutdownTimeout   time.Duration
	opts              []insights.Option
	logger            *zap.Logger
}

// New creates a server. Zero timeouts fall back to 5s/10s and an empty
// default state to CA.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		table:             cfg.Table,
		addr:              cfg.Addr,
		defaultState:      cfg.DefaultState,
		readHeaderTimeout: cfg.ReadHeaderTimeout,
		shutdownTimeout:   cfg.ShutdownTimeout,
		opts:              append([]insights.Option{insights.WithLogger(logger)}, cfg.Options...),
		logger:            logger,
	}
	if s.defaultState == "" {
		s.defaultState = "CA"
	}
	if s.readHeaderTimeout <= 0 {
		s.readHeaderTimeout = 5 * time.Second
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 10 * time.Second
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		requestID,
		accessLog(s.logger),
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/lookups", s.handleLookups)
		r.Get("/skills", s.handleSkills)
		r.Get("/summary", panel(s, insights.Salary))
		r.Get("/regions", panel(s, insights.Regions))
		r.Get("/flow", panel(s, insights.SkillFlow))
		r.Get("/companies", panel(s, insights.Companies))
		r.Get("/salaries", panel(s, insights.Salaries))
		r.Get("/dashboard", panel(s, insights.Build))
	})
	return r
}

// Serve starts the server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: s.readHeaderTimeout,
	}

	eg.Go(func() error {
		s.logger.Info("starting API server", zap.String("addr", s.addr), zap.Int("rows", s.table.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"status": "ok", "rows": s.table.Len()})
}

func (s *Server) handleLookups(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, insights.LookupsFor(s.table))
}

func (s *Server) handleSkills(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string][]string{"skills": s.table.Skills()})
}

// panel adapts an insights panel function to a handler that reads the
// selection from the query string.
func panel[T any](s *Server, fn func(*dataset.Table, insights.Selection, ...insights.Option) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sel, err := s.selection(r)
		if err != nil {
			s.errorResponse(w, r, err)
			return
		}
		out, err := fn(s.table, sel, s.opts...)
		if err != nil {
			s.errorResponse(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, out)
	}
}

// jsonResponse writes data as JSON with the given status.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", zap.Error(err))
	}
}

// errorResponse maps err to a status and writes {"error", "kind", "request_id"}.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
	}
	s.jsonResponse(w, status, map[string]string{
		"error":      err.Error(),
		"kind":       errorKind(err),
		"request_id": RequestID(r.Context()),
	})
}
