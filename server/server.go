package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/sambeau/unitconv/config"
	"github.com/sambeau/unitconv/pkg/units"
	"github.com/sambeau/unitconv/store"
)

// Server serves the unit registry and conversion engine over HTTP.
type Server struct {
	config     *config.Config
	configPath string
	logger     *zap.Logger
	level      zap.AtomicLevel
	levelFlag  string // pinned by --log-level, survives reloads
	registry   *units.Registry
	store      *store.Store
	metrics    *Metrics
	limiter    *rateLimiter
	mux        *http.ServeMux
	server     *http.Server
	watcher    *Watcher

	// swapped on config reload
	engine atomic.Pointer[units.Engine]
	strict atomic.Bool
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the preference endpoints.
func WithStore(st *store.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithLevel lets config reloads change the log level.
func WithLevel(level zap.AtomicLevel) Option {
	return func(s *Server) { s.level = level }
}

// WithLevelOverride pins the log level so config reloads do not change it.
func WithLevelOverride(level string) Option {
	return func(s *Server) { s.levelFlag = level }
}

// WithRegistry serves r instead of the default registry.
func WithRegistry(r *units.Registry) Option {
	return func(s *Server) {
		if r != nil {
			s.registry = r
		}
	}
}

// New creates a server with the given configuration.
func New(cfg *config.Config, configPath string, logger *zap.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		config:     cfg,
		configPath: configPath,
		logger:     logger,
		level:      zap.NewAtomicLevel(),
		registry:   units.Default(),
		mux:        http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cfg.Metrics.Enabled {
		s.metrics = NewMetrics()
	}
	trusted, err := cfg.RateLimit.ParseTrustedProxies()
	if err != nil {
		return nil, fmt.Errorf("parsing rate limit proxies: %w", err)
	}
	s.limiter = newRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, trusted)

	s.applyEngine(cfg.Engine)

	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// applyEngine installs a new engine built from cfg.
func (s *Server) applyEngine(cfg config.EngineConfig) {
	opts := []units.EngineOption{units.WithLogger(s.logger.Named("engine"))}
	if cfg.LegacyTargetFallback {
		opts = append(opts, units.WithLegacyTargetFallback())
	}
	if s.metrics != nil {
		opts = append(opts, units.WithObserver(s.metrics))
	}
	s.engine.Store(units.NewEngine(s.registry, opts...))
	s.strict.Store(cfg.Strict)
}

// Engine returns the engine currently serving requests.
func (s *Server) Engine() *units.Engine {
	return s.engine.Load()
}

// Reload applies the reloadable parts of cfg: engine mode and log level.
// A level pinned with WithLevelOverride wins over the file.
func (s *Server) Reload(cfg *config.Config) error {
	levelName := cfg.Logging.Level
	if s.levelFlag != "" {
		levelName = s.levelFlag
	}
	level, err := zap.ParseAtomicLevel(levelName)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	s.level.SetLevel(level.Level())
	s.applyEngine(cfg.Engine)
	s.logger.Info("configuration reloaded",
		zap.String("level", levelName),
		zap.Bool("level_pinned", s.levelFlag != ""),
		zap.Bool("legacy_target_fallback", cfg.Engine.LegacyTargetFallback),
		zap.Bool("strict", cfg.Engine.Strict),
	)
	return nil
}

// setupRoutes registers the API, catalog and operational endpoints.
func (s *Server) setupRoutes() error {
	s.mux.HandleFunc("GET /api/categories", s.handleCategories)
	s.mux.HandleFunc("GET /api/categories/{name}/options", s.handleOptions)
	s.mux.HandleFunc("GET /api/units/{id}/category", s.handleUnitCategory)
	s.mux.Handle("GET /api/convert", s.limit(s.handleConvert))
	s.mux.Handle("POST /api/convert", s.limit(s.handleConvertBatch))

	if s.store != nil {
		s.mux.HandleFunc("GET /api/preferences", s.handleListPreferences)
		s.mux.HandleFunc("GET /api/preferences/audit", s.handleAuditPreferences)
		s.mux.HandleFunc("GET /api/preferences/{panel}", s.handleGetPreference)
		s.mux.HandleFunc("PUT /api/preferences/{panel}", s.handlePutPreference)
		s.mux.HandleFunc("DELETE /api/preferences/{panel}", s.handleDeletePreference)
	}

	s.mux.HandleFunc("GET /catalog", s.handleCatalog)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	if s.metrics != nil {
		s.mux.Handle("GET "+s.config.Metrics.Path, s.metrics.Handler())
	}
	return nil
}

// Handler returns the full middleware chain around the routes.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux

	if s.metrics != nil {
		handler = s.metrics.instrument(handler)
	}

	// Wrap with request logging middleware (unless quiet)
	if !s.config.Logging.Quiet {
		handler = newRequestLogger(handler, s.logger.Named("http"))
	}

	handler = newSecurityHeaders(handler, s.config.Server.Dev)
	handler = newCORSHandler(handler, s.config.CORS)

	return newCompressionHandler(handler, s.config.Compression, s.logger.Named("http"))
}

// Run starts the server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := s.listenAddr()

	// Reload engine settings when the config file changes
	if (s.config.Watch || s.config.Server.Dev) && s.configPath != "" {
		watcher, err := NewWatcher(s, s.configPath, s.logger.Named("watch"))
		if err != nil {
			s.logger.Error("failed to create watcher", zap.Error(err))
		} else {
			s.watcher = watcher
			if err := s.watcher.Start(ctx); err != nil {
				s.logger.Error("failed to start watcher", zap.Error(err))
			}
			defer s.watcher.Close()
		}
	}

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting unitconv", zap.String("addr", "http://"+addr), zap.Bool("dev", s.config.Server.Dev))
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

func (s *Server) listenAddr() string {
	host := s.config.Server.Host
	if host == "" && s.config.Server.Dev {
		host = "localhost"
	}
	return net.JoinHostPort(host, strconv.Itoa(s.config.Server.Port))
}
