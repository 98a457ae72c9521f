// Package api serves saved forts over HTTP: save listings, siege history
// and the isometric projection of a fort for external renderers.
package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/tui-forts/internal/config"
	fort "github.com/vovakirdan/tui-forts/internal/games/forts/core"
	"github.com/vovakirdan/tui-forts/internal/storage"
)

// Store is the read side of the fort database.
type Store interface {
	ListForts(limit int) ([]storage.FortRecord, error)
	TopForts(limit int) ([]storage.FortRecord, error)
	LoadFort(id string) (*storage.FortRecord, error)
	RoundHistory(fortID string, limit int) ([]storage.RoundResult, error)
	GetFortStats(fortID string) (*storage.FortStats, error)
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// ReadTimeout bounds reading a whole request.
	ReadTimeout time.Duration

	// WriteTimeout bounds writing a response.
	WriteTimeout time.Duration
}

// DefaultServerConfig returns a config with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:      ":8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server exposes saved forts over HTTP.
type Server struct {
	config ServerConfig
	store  Store
	forts  config.FortsConfig
	clock  fort.Clock
	logger *log.Logger
	http   *http.Server
}

// NewServer creates an API server reading from store. Snapshots are
// decoded and projected with the given game configuration.
func NewServer(cfg ServerConfig, store Store, forts config.FortsConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "forts-api",
		})
	}
	s := &Server{
		config: cfg,
		store:  store,
		forts:  forts,
		clock:  fort.SystemClock{},
		logger: logger,
	}
	s.http = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Routes configures all routes and returns the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/forts", s.ListForts)
		r.Route("/forts/{id}", func(r chi.Router) {
			r.Get("/", s.GetFort)
			r.Get("/rounds", s.GetRounds)
			r.Get("/view", s.GetView)
			r.Get("/pick", s.PickTile)
			r.Get("/map", s.GetMap)
		})
	})

	return r
}

// requestLogger logs every request once it has been served.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}

// ListenAndServe starts the HTTP server and blocks until shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting API server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-done:
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.config.Address
}
