package server

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/sambeau/unitconv/config"
)

// Watcher monitors the config file and reloads the server when it changes
type Watcher struct {
	watcher    *fsnotify.Watcher
	server     *Server
	configPath string
	logger     *zap.Logger
	getenv     func(string) string

	// Pending reload, reset on every event so rapid writes settle first
	mu      sync.Mutex
	timer   *time.Timer
	reloads uint64
}

// NewWatcher creates a config file watcher for s.
func NewWatcher(s *Server, configPath string, logger *zap.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:    fsWatcher,
		server:     s,
		configPath: configPath,
		logger:     logger,
		getenv:     os.Getenv,
	}, nil
}

// Start begins watching for file changes
func (w *Watcher) Start(ctx context.Context) error {
	// Watch the directory so editors that replace the file are seen
	configDir := filepath.Dir(w.configPath)
	if err := w.watcher.Add(configDir); err != nil {
		return err
	}
	w.logger.Info("watching config", zap.String("path", w.configPath))

	go w.eventLoop(ctx)
	return nil
}

// eventLoop processes file system events
func (w *Watcher) eventLoop(ctx context.Context) {
	// Debounce duration - wait for rapid changes to settle
	const debounce = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only handle write and create events
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Base(event.Name) != filepath.Base(w.configPath) {
				continue
			}

			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.timer = time.AfterFunc(debounce, w.reload)
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", zap.Error(err))
		}
	}
}

// reload re-reads the config file and applies it. A broken file keeps the
// running configuration.
func (w *Watcher) reload() {
	cfg, err := config.Load(w.configPath, w.getenv)
	if err == nil {
		err = w.server.Reload(cfg)
	}
	if w.server.metrics != nil {
		w.server.metrics.observeReload(err)
	}
	if err != nil {
		w.logger.Error("config reload failed, keeping previous settings", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()
	for _, warning := range config.Warnings(cfg) {
		w.logger.Warn(warning)
	}
}

// Reloads returns how many reloads have been applied.
func (w *Watcher) Reloads() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Close stops the watcher and cancels any pending reload
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
