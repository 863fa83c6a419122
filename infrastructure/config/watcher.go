package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Watcher watches the YAML config file and hot-reloads the runtime-changeable
// subset (limits). Static settings like the server address require a restart.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once

	mu       sync.RWMutex
	limits   Limits
	onChange []func(Limits)
}

// NewWatcher creates a watcher over the given config file, seeded with the
// config's current limits.
func NewWatcher(cfg *Config, logger *zap.Logger) (*Watcher, error) {
	if cfg.ConfigFile == "" {
		return nil, fmt.Errorf("no config file to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(cfg.ConfigFile); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}
	// Watch the directory too so atomic saves (write-then-rename) are seen.
	if err := fsw.Add(filepath.Dir(cfg.ConfigFile)); err != nil {
		logger.Warn("failed to watch config directory", zap.Error(err))
	}

	return &Watcher{
		path:    cfg.ConfigFile,
		watcher: fsw,
		logger:  logger,
		stopCh:  make(chan struct{}),
		limits:  cfg.Limits,
	}, nil
}

// Start begins watching for configuration changes
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("configuration watcher started", zap.String("path", w.path))
}

// Stop stops watching for configuration changes
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
	})
}

// Limits returns the current limits
func (w *Watcher) Limits() Limits {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.limits
}

// OnChange registers a callback invoked after a successful reload
func (w *Watcher) OnChange(handler func(Limits)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, handler)
}

func (w *Watcher) watchLoop() {
	// Debounce so editors that fire several events per save reload once.
	var debounce *time.Timer
	const debounceDuration = 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDuration, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Error("failed to reload config file", zap.Error(err))
		return
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		w.logger.Error("failed to parse config file, keeping current", zap.Error(err))
		return
	}
	if cfg.Limits.MaxSkills < 0 || cfg.Limits.MaxPrerequisitesPerSkill < 0 {
		w.logger.Error("invalid limits in config file, keeping current")
		return
	}

	w.mu.Lock()
	old := w.limits
	w.limits = cfg.Limits
	handlers := make([]func(Limits), len(w.onChange))
	copy(handlers, w.onChange)
	w.mu.Unlock()

	if old != cfg.Limits {
		w.logger.Info("limits reloaded",
			zap.Int("maxSkills", cfg.Limits.MaxSkills),
			zap.Int("maxPrerequisitesPerSkill", cfg.Limits.MaxPrerequisitesPerSkill),
		)
	}
	for _, handler := range handlers {
		go handler(cfg.Limits)
	}
}
