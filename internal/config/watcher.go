package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"raccoon/pkg/logging"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// ReloadFunc receives every configuration that loaded and validated
// successfully after a change on disk.
type ReloadFunc func(cfg RaccoonConfig)

// Watcher reloads config.yaml when it changes.
//
// The directory is watched rather than the file so that editors which
// replace the file by rename keep triggering events. Invalid configurations
// are logged and ignored; the last good one stays in effect.
type Watcher struct {
	configPath string
	onReload   ReloadFunc
	debounce   time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher creates a watcher for the config.yaml inside configPath.
func NewWatcher(configPath string, onReload ReloadFunc) *Watcher {
	return &Watcher{
		configPath: configPath,
		onReload:   onReload,
		debounce:   DefaultDebounce,
	}
}

// Start begins watching. It returns once the watch is installed.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(w.configPath); err != nil {
		fsWatcher.Close()
		return fmt.Errorf("failed to watch directory %s: %w", w.configPath, err)
	}

	w.watcher = fsWatcher
	w.done = make(chan struct{})
	go w.run(ctx, fsWatcher, w.done)

	logging.Info("Config", "Watching %s for configuration changes", ConfigFilePath(w.configPath))
	return nil
}

// Stop closes the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	fsWatcher, done := w.watcher, w.done
	w.watcher = nil
	w.mu.Unlock()

	if fsWatcher == nil {
		return nil
	}
	err := fsWatcher.Close()
	<-done
	return err
}

func (w *Watcher) run(ctx context.Context, fsWatcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	target := filepath.Clean(ConfigFilePath(w.configPath))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			logging.Warn("Config", "Watcher error: %v", err)

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadConfig(w.configPath)
	if err != nil {
		logging.Error("Config", err, "Ignoring invalid configuration change, keeping previous settings")
		return
	}
	logging.Info("Config", "Configuration reloaded")
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
