package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/harun/oakplugin/pkg/bridge"
	"github.com/harun/oakplugin/pkg/dispatch"
	"github.com/harun/oakplugin/pkg/remote"
	"github.com/rs/zerolog"
)

// Defaults applied by New
const (
	DefaultPort            = 3000
	DefaultReadTimeout     = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodyBytes    = 1 << 20
)

// Meta is the plugin description served from /meta
type Meta struct {
	Name                 string `json:"name"`
	Version              string `json:"version"`
	Description          string `json:"description"`
	Author               string `json:"author"`
	Website              string `json:"website"`
	HasAdminChatPage     bool   `json:"hasAdminChatPage"`
	HasUserChatPage      bool   `json:"hasUserChatPage"`
	HasKnowledgeProvider bool   `json:"hasKnowledgeProvider"`
}

// Config holds the HTTP server settings
type Config struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64

	// BundleDir is served under /remote/. Empty disables static files.
	BundleDir string

	// Bridge guards the admin page with the same token check as tool execution
	Bridge bridge.Config

	Meta Meta
}

// Server exposes the dispatcher, plugin metadata and the remote bundle over HTTP
type Server struct {
	cfg        Config
	dispatcher *dispatch.Dispatcher
	resolver   remote.Resolver
	logger     zerolog.Logger
	router     chi.Router
	server     *http.Server
	startTime  time.Time
	stopping   atomic.Bool
}

// New creates a server. resolver may be nil, in which case no component resolves.
func New(cfg Config, dispatcher *dispatch.Dispatcher, resolver remote.Resolver, logger zerolog.Logger) (*Server, error) {
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}

	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	cfg.Bridge = cfg.Bridge.WithDefaults()

	s := &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		resolver:   resolver,
		logger:     logger.With().Str("component", "server").Logger(),
		startTime:  time.Now(),
	}
	s.router = s.routes()
	s.server = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
	}

	return s, nil
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and blocks until Stop
func (s *Server) Start() error {
	s.logger.Info().
		Str("host", s.cfg.Host).
		Int("port", s.cfg.Port).
		Msg("Starting plugin server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start plugin server: %w", err)
	}
	return nil
}

// Serve accepts connections on l and blocks until Stop
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info().Str("addr", l.Addr().String()).Msg("Starting plugin server")

	if err := s.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop rejects new requests and waits for in-flight ones, up to the shutdown timeout
func (s *Server) Stop(ctx context.Context) error {
	s.stopping.Store(true)
	s.logger.Info().Msg("Shutting down plugin server")

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Shutdown timeout reached, forcing close")
		_ = s.server.Close()
		return fmt.Errorf("failed to shutdown plugin server: %w", err)
	}

	s.logger.Info().Msg("Plugin server stopped")
	return nil
}
