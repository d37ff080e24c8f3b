package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"
	"golang.org/x/sync/singleflight"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/cache"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/chain"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/collector"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/stream"
)

// Config holds HTTP server settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// SummaryProvider yields the newest in-memory snapshot. Satisfied by the
// collector.
type SummaryProvider interface {
	Latest() (model.MarketSummary, bool)
}

// SnapshotReader reads persisted snapshots. Satisfied by the store.
type SnapshotReader interface {
	LatestSummary(ctx context.Context) (model.MarketSummary, error)
}

// Server serves the read API.
type Server struct {
	cfg    Config
	chains map[model.Category]*chain.Chain
	logger *slog.Logger

	version string
	started time.Time

	// coalesce concurrent live resolves per category/symbol
	sf singleflight.Group

	// Optional collaborators, nil when the feature is disabled.
	cache          *cache.Cache
	summaries      SummaryProvider
	snapshots      SnapshotReader
	noSnapshot     error
	collectorStats func() collector.Stats
	streamStats    func() stream.Stats

	httpSrv  *http.Server
	listener net.Listener
}

// Option configures optional collaborators.
type Option func(*Server)

// WithCache consults Redis before resolving quotes live and writes
// resolved quotes back.
func WithCache(c *cache.Cache) Option {
	return func(s *Server) { s.cache = c }
}

// WithSummaryProvider serves /summary/latest from memory first.
func WithSummaryProvider(p SummaryProvider) Option {
	return func(s *Server) { s.summaries = p }
}

// WithSnapshotReader falls back to persisted snapshots. notFound is the
// sentinel the reader returns when nothing is stored yet.
func WithSnapshotReader(r SnapshotReader, notFound error) Option {
	return func(s *Server) {
		s.snapshots = r
		s.noSnapshot = notFound
	}
}

// WithCollectorStats exposes collector counters on /stats.
func WithCollectorStats(fn func() collector.Stats) Option {
	return func(s *Server) { s.collectorStats = fn }
}

// WithStreamStats exposes stream counters on /stats.
func WithStreamStats(fn func() stream.Stats) Option {
	return func(s *Server) { s.streamStats = fn }
}

// WithVersion reports a build version on /health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a Server around the per-category fallback chains.
func New(cfg Config, chains map[model.Category]*chain.Chain, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		chains: chains,
		logger: logger.With("component", "server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start binds the listener and begins serving. Bind errors surface
// immediately; serve errors after that are logged.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	s.listener = ln
	s.started = time.Now()

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	s.httpSrv = &http.Server{
		Handler:      c.Handler(s.routes()),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", "error", err)
		}
	}()

	s.logger.Info("http server started", "addr", ln.Addr().String())
	return nil
}

// Stop drains in-flight requests and closes the listener.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// Addr returns the bound address, useful with ":0" listeners.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.Addr
	}
	return s.listener.Addr().String()
}
