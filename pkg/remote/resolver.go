package remote

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/harun/oakplugin/internal/observability"
	"github.com/rs/zerolog"
)

const defaultDebounce = 100 * time.Millisecond

// ManifestResolver resolves components from a manifest on disk. The manifest
// is swapped atomically on reload; a failed reload keeps the last good one.
type ManifestResolver struct {
	path     string
	manifest atomic.Pointer[Manifest]
	logger   zerolog.Logger
	debounce time.Duration
	reloadMu sync.Mutex
}

// NewManifestResolver loads the manifest at path once
func NewManifestResolver(path string, logger zerolog.Logger) (*ManifestResolver, error) {
	manifest, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}

	r := &ManifestResolver{
		path:     path,
		logger:   logger.With().Str("component", "remote-resolver").Logger(),
		debounce: defaultDebounce,
	}
	r.manifest.Store(manifest)

	r.logger.Debug().
		Str("module", manifest.Name).
		Str("version", manifest.Version).
		Int("exposes", len(manifest.Exposes)).
		Msg("Loaded remote manifest")

	return r, nil
}

// Manifest returns the current manifest
func (r *ManifestResolver) Manifest() *Manifest {
	return r.manifest.Load()
}

// Resolve looks a component up in the current manifest
func (r *ManifestResolver) Resolve(name string) (Component, error) {
	return r.manifest.Load().Resolve(name)
}

// Reload re-reads the manifest file
func (r *ManifestResolver) Reload() error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	manifest, err := LoadManifest(r.path)
	if err != nil {
		observability.RecordManifestReload(false)
		r.logger.Warn().Err(err).Str("path", r.path).Msg("Manifest reload failed, keeping previous version")
		return err
	}

	previous := r.manifest.Swap(manifest)
	observability.RecordManifestReload(true)

	r.logger.Info().
		Str("previous_version", previous.Version).
		Str("version", manifest.Version).
		Msg("Remote manifest reloaded")

	return nil
}

// Watch reloads the manifest whenever its file changes, until ctx is done.
// The parent directory is watched because bundlers replace the file rather than write it.
func (r *ManifestResolver) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go r.watchLoop(ctx, watcher)

	r.logger.Info().Str("path", r.path).Msg("Watching remote manifest")
	return nil
}

func (r *ManifestResolver) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	target := filepath.Clean(r.path)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}

			// Debounce bursts of writes from the bundler
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(r.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				_ = r.Reload()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.logger.Error().Err(err).Msg("Watcher error")

		case <-ctx.Done():
			return
		}
	}
}
