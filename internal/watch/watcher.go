// Package watch re-runs the deploy pipeline whenever the build output
// directory changes.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits after the last event
// before redeploying, so one build does not trigger a deploy per file.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a source tree and invokes a callback after changes
// settle.
type Watcher struct {
	watcher    *fsnotify.Watcher
	logger     *zap.Logger
	debounce   time.Duration
	ignoreDirs map[string]bool
}

// New creates a Watcher. A non-positive debounce falls back to
// DefaultDebounce.
func New(logger *zap.Logger, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		watcher:  fsw,
		logger:   logger,
		debounce: debounce,
		ignoreDirs: map[string]bool{
			".git":         true,
			"node_modules": true,
		},
	}, nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run watches sourceDir recursively and calls onChange after events
// settle for the debounce interval. A failing onChange is logged and the
// loop keeps running. Returns when ctx is cancelled or the watcher dies.
func (w *Watcher) Run(ctx context.Context, sourceDir string, onChange func() error) error {
	if err := w.addTree(sourceDir); err != nil {
		return err
	}
	w.logger.Info("watching for changes",
		zap.String("source", sourceDir),
		zap.Duration("debounce", w.debounce))

	// Timer starts drained; the first event arms it
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			if w.shouldIgnore(event.Name) {
				continue
			}
			// New directories need their own watches
			if event.Op.Has(fsnotify.Create) {
				if err := w.addTree(event.Name); err != nil {
					w.logger.Debug("could not watch new path",
						zap.String("path", event.Name),
						zap.Error(err))
				}
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			w.logger.Warn("file watcher error", zap.Error(err))

		case <-timer.C:
			if err := onChange(); err != nil {
				w.logger.Error("redeploy failed", zap.Error(err))
			}
		}
	}
}

// addTree registers path and every directory beneath it. Non-directories
// are silently skipped; events for files come from their parent watch.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignoreDirs[d.Name()] {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// shouldIgnore reports whether an event path lives in an ignored
// directory.
func (w *Watcher) shouldIgnore(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if w.ignoreDirs[seg] {
			return true
		}
	}
	return false
}
