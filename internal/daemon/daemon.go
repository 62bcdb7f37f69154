package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/harun/oakplugin/internal/config"
	"github.com/harun/oakplugin/internal/logger"
	"github.com/harun/oakplugin/internal/observability"
	"github.com/harun/oakplugin/internal/tracing"
	"github.com/harun/oakplugin/pkg/bridge"
	"github.com/harun/oakplugin/pkg/dispatch"
	"github.com/harun/oakplugin/pkg/remote"
	"github.com/harun/oakplugin/pkg/server"
	"github.com/harun/oakplugin/pkg/toolregistry"
	"github.com/harun/oakplugin/pkg/translator"
	"github.com/rs/zerolog"
)

// Status is a snapshot of the running plugin
type Status struct {
	Running bool
	Addr    string
	Uptime  time.Duration
	Tools   int
}

// Daemon wires the registry, dispatcher, remote resolver and HTTP server together
type Daemon struct {
	config *config.Config
	logger *logger.Logger
	log    zerolog.Logger

	registry   *toolregistry.Registry
	dispatcher *dispatch.Dispatcher
	resolver   remote.Resolver
	watcher    *remote.ManifestResolver
	server     *server.Server

	listener net.Listener
	serveErr chan error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	startTime time.Time
	running   bool
	mu        sync.RWMutex

	tracingEnabled bool
}

// New builds every component. A registry or manifest error is fatal.
func New(cfg *config.Config, log *logger.Logger) (*Daemon, error) {
	ctx, cancel := context.WithCancel(context.Background())

	d := &Daemon{
		config:   cfg,
		logger:   log,
		log:      log.Zerolog(),
		ctx:      ctx,
		cancel:   cancel,
		serveErr: make(chan error, 1),
	}

	observability.EnsureRegistered()

	if cfg.Telemetry.Enabled {
		if err := tracing.InitOpenTelemetry(cfg.Telemetry.ServiceName); err != nil {
			d.log.Warn().Err(err).Msg("Failed to initialize tracing, continuing without distributed tracing")
		} else {
			d.tracingEnabled = true
			d.log.Info().Msg("Tracing initialized")
		}
	}

	if cfg.Logging.AuditFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.AuditFile), 0755); err != nil {
			d.log.Warn().Err(err).Msg("Failed to create audit log directory")
		} else if err := observability.InitAuditLogger(cfg.Logging.AuditFile); err != nil {
			d.log.Warn().Err(err).Msg("Failed to initialize audit logger")
		}
	}

	if err := d.initialize(); err != nil {
		cancel()
		d.shutdownTracing()
		return nil, err
	}

	return d, nil
}

func (d *Daemon) initialize() error {
	registry, err := BuildRegistry(d.config, d.log)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}
	d.registry = registry
	d.log.Info().Int("tools", registry.Len()).Msg("Tool registry built")

	d.dispatcher, err = dispatch.New(registry, dispatch.Options{
		Logger:       d.log,
		Bridges:      dispatch.HeaderBridges(BridgeConfig(d.config)),
		GenericError: d.config.Translate.GenericError,
	})
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	d.resolver, d.watcher, err = NewResolver(d.config, d.log)
	if err != nil {
		return fmt.Errorf("failed to load remote manifest: %w", err)
	}

	if missing := remote.VerifyExports(d.resolver, registry.List()); len(missing) > 0 {
		d.log.Warn().Strs("components", missing).Msg("Tools reference UI components the remote bundle does not export")
	}

	d.server, err = server.New(ServerConfig(d.config), d.dispatcher, d.resolver, d.log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return nil
}

// BuildRegistry registers every tool the plugin ships
func BuildRegistry(cfg *config.Config, log zerolog.Logger) (*toolregistry.Registry, error) {
	b := toolregistry.NewBuilder()

	if err := translator.Register(b, translator.Config{
		Mode:         cfg.Translate.Mode,
		SystemPrompt: cfg.Translate.SystemPrompt,
	}, log); err != nil {
		return nil, err
	}

	return b.Build()
}

// BridgeConfig maps the bridge section onto bridge.Config
func BridgeConfig(cfg *config.Config) bridge.Config {
	return bridge.Config{
		ServerURL:   cfg.Bridge.ServerURL,
		TokenHeader: cfg.Bridge.TokenHeader,
		Provider:    cfg.Bridge.Provider,
		Model:       cfg.Bridge.Model,
		MaxTokens:   cfg.Bridge.MaxTokens,
		Temperature: cfg.Bridge.Temperature,
	}
}

// ServerConfig maps the server, plugin and remote sections onto server.Config
func ServerConfig(cfg *config.Config) server.Config {
	return server.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		ShutdownTimeout: time.Duration(cfg.Server.ShutdownTimeoutSec) * time.Second,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		BundleDir:       cfg.Remote.BundleDir,
		Bridge:          BridgeConfig(cfg),
		Meta: server.Meta{
			Name:                 cfg.Plugin.Name,
			Version:              cfg.Plugin.Version,
			Description:          cfg.Plugin.Description,
			Author:               cfg.Plugin.Author,
			Website:              cfg.Plugin.Website,
			HasAdminChatPage:     cfg.Plugin.HasAdminChatPage,
			HasUserChatPage:      cfg.Plugin.HasUserChatPage,
			HasKnowledgeProvider: cfg.Plugin.HasKnowledgeProvider,
		},
	}
}

// ManifestPath returns the manifest location inside the bundle directory, or "" when none is configured
func ManifestPath(cfg *config.Config) string {
	if cfg.Remote.BundleDir == "" || cfg.Remote.ManifestFile == "" {
		return ""
	}
	return filepath.Join(cfg.Remote.BundleDir, cfg.Remote.ManifestFile)
}

// NewResolver loads the bundle manifest. Without one on disk the built-in
// manifest is used; a manifest that exists but fails to parse is an error.
// The watcher is non-nil only when the manifest came from disk.
func NewResolver(cfg *config.Config, log zerolog.Logger) (remote.Resolver, *remote.ManifestResolver, error) {
	path := ManifestPath(cfg)
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			r, err := remote.NewManifestResolver(path, log)
			if err != nil {
				return nil, nil, err
			}
			return r, r, nil
		}
	}

	log.Warn().Str("path", path).Msg("Remote manifest not found, using built-in manifest")
	return remote.NewStaticResolver(remote.DefaultManifest().Components()...), nil, nil
}

// Start binds the listener and serves in the background
func (d *Daemon) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("daemon is already running")
	}

	addr := net.JoinHostPort(d.config.Server.Host, strconv.Itoa(d.config.Server.Port))
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	d.listener = l

	if d.watcher != nil && d.config.Remote.Watch {
		if err := d.watcher.Watch(d.ctx); err != nil {
			d.log.Warn().Err(err).Msg("Failed to watch remote manifest")
		}
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.server.Serve(l); err != nil {
			d.serveErr <- err
		}
	}()

	d.running = true
	d.startTime = time.Now()

	d.log.Info().
		Str("addr", l.Addr().String()).
		Str("plugin", d.config.Plugin.Name).
		Str("version", d.config.Plugin.Version).
		Msg("Plugin started")

	return nil
}

// Stop shuts the server down gracefully and releases every component
func (d *Daemon) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return fmt.Errorf("daemon is not running")
	}
	d.running = false
	d.mu.Unlock()

	d.log.Info().Msg("Stopping plugin")

	var errs []error
	if err := d.server.Stop(context.Background()); err != nil {
		errs = append(errs, err)
	}

	d.cancel()
	d.wg.Wait()

	d.shutdownTracing()

	if err := observability.GetAuditLogger().Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close audit log: %w", err))
	}

	d.log.Info().Msg("Plugin stopped")
	return errors.Join(errs...)
}

func (d *Daemon) shutdownTracing() {
	if !d.tracingEnabled {
		return
	}
	if err := tracing.ShutdownOpenTelemetry(context.Background()); err != nil {
		d.log.Warn().Err(err).Msg("Failed to shut down tracing")
	}
	d.tracingEnabled = false
}

// Wait blocks until SIGINT, SIGTERM or a server failure, then stops the daemon
func (d *Daemon) Wait() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var serveErr error
	select {
	case sig := <-sigChan:
		d.log.Info().Str("signal", sig.String()).Msg("Received signal")
	case serveErr = <-d.serveErr:
		d.log.Error().Err(serveErr).Msg("Server failed")
	}

	if err := d.Stop(); err != nil {
		d.log.Error().Err(err).Msg("Failed to stop plugin")
		if serveErr == nil {
			return err
		}
	}
	return serveErr
}

// Status reports whether the daemon is serving and where
func (d *Daemon) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()

	status := Status{
		Running: d.running,
		Tools:   d.registry.Len(),
	}
	if d.running {
		status.Addr = d.listener.Addr().String()
		status.Uptime = time.Since(d.startTime)
	}
	return status
}

// GetRegistry returns the tool registry
func (d *Daemon) GetRegistry() *toolregistry.Registry {
	return d.registry
}

// GetResolver returns the remote component resolver
func (d *Daemon) GetResolver() remote.Resolver {
	return d.resolver
}
