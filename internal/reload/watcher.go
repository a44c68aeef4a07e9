// Package reload re-applies the configuration file when it changes on disk.
package reload

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 200 * time.Millisecond

// Watch calls apply after the file at path is written, created or renamed
// into place, until ctx is cancelled. Bursts of events are debounced. An
// apply error is logged and the watcher keeps running.
//
// The parent directory is watched rather than the file itself so that
// editors replacing the file atomically are still seen.
func Watch(ctx context.Context, path string, logger *slog.Logger, apply func() error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("reload: resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("reload: create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("reload: watch %s: %w", filepath.Dir(abs), err)
	}

	logger.Info("reload: watching config", slog.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("reload: stopped")
			return nil

		case <-fire:
			if err := apply(); err != nil {
				logger.Warn("reload: keeping previous config",
					slog.String("path", abs),
					slog.String("error", err.Error()))
				continue
			}
			logger.Info("reload: config applied", slog.String("path", abs))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("reload: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}
