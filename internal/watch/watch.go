// Package watch reruns a callback when any of a set of files changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before a rerun.
const DefaultDebounce = 200 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Files are the paths whose changes trigger OnChange.
	Files []string
	// Debounce coalesces bursts of events. Zero means DefaultDebounce.
	Debounce time.Duration
	// OnChange runs after a debounced change. Runs never overlap.
	OnChange func(ctx context.Context) error
	Logger   *slog.Logger
}

// Watcher watches a fixed set of files.
type Watcher struct {
	cfg     Config
	targets map[string]struct{}
}

// New returns a Watcher for cfg.
func New(cfg Config) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	targets := make(map[string]struct{}, len(cfg.Files))
	for _, f := range cfg.Files {
		targets[filepath.Clean(f)] = struct{}{}
	}
	return &Watcher{cfg: cfg, targets: targets}
}

// Run blocks until ctx is done. Parent directories are watched rather than
// the files themselves so files replaced by rename keep being tracked.
// Errors from OnChange are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	dirs := make(map[string]struct{})
	for f := range w.targets {
		dir := filepath.Dir(f)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = struct{}{}
	}
	w.cfg.Logger.Info("watching for changes", slog.Any("files", w.cfg.Files))

	timer := time.NewTimer(w.cfg.Debounce)
	timer.Stop()
	var changed string

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if _, ok := w.targets[filepath.Clean(event.Name)]; !ok {
				continue
			}
			changed = event.Name
			timer.Reset(w.cfg.Debounce)

		case <-timer.C:
			w.cfg.Logger.Info("change detected", slog.String("file", filepath.Base(changed)))
			if err := w.cfg.OnChange(ctx); err != nil {
				w.cfg.Logger.Error("rerun failed", slog.String("error", err.Error()))
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.cfg.Logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}
