// Package watch re-runs synchronization when the content root changes.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/projex-snippets/projex/internal/ignore"
)

// DefaultDebounce is how long the tree must stay quiet before a resync.
const DefaultDebounce = 500 * time.Millisecond

// SyncFunc runs one synchronization. initial is true for the startup run.
type SyncFunc func(ctx context.Context, initial bool)

// Config configures a Watcher.
type Config struct {
	// Root is the directory watched recursively.
	Root string
	// StartupDelay postpones the initial run.
	StartupDelay time.Duration
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Skip names directories that are not watched. Defaults to
	// ignore.ScanDefaults.
	Skip   *ignore.Set
	Logger *slog.Logger
}

// Watcher calls a SyncFunc once after the startup delay and again after
// every burst of changes. All calls happen on the Run goroutine, one at a
// time.
type Watcher struct {
	cfg  Config
	sync SyncFunc
	log  *slog.Logger
}

// New returns a Watcher. It does not touch the filesystem until Run.
func New(cfg Config, sync SyncFunc) *Watcher {
	if cfg.Root == "" || sync == nil {
		panic("watch.New: root and sync func must be set")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Skip == nil {
		cfg.Skip = ignore.MustNew(ignore.ScanDefaults...)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Watcher{cfg: cfg, sync: sync, log: cfg.Logger}
}

// Run watches until ctx is done. Changes that arrive before the initial run
// are folded into it.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addRecursive(fw, w.cfg.Root); err != nil {
		return err
	}
	w.log.Info("watching content", "root", w.cfg.Root, "debounce", w.cfg.Debounce)

	startup := time.NewTimer(w.cfg.StartupDelay)
	defer startup.Stop()
	started := false

	debounce := time.NewTimer(w.cfg.Debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watch stopped")
			return nil

		case <-startup.C:
			started = true
			w.sync(ctx, true)

		case <-debounce.C:
			w.sync(ctx, false)

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(fw, ev) {
				continue
			}
			w.log.Debug("content changed", "path", ev.Name, "op", ev.Op.String())
			if started {
				debounce.Reset(w.cfg.Debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "err", err)
		}
	}
}

// relevant filters out permission-only changes and skipped names, and starts
// watching directories created under the root.
func (w *Watcher) relevant(fw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if w.cfg.Skip.Match(filepath.Base(ev.Name)) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if err := w.addRecursive(fw, ev.Name); err != nil {
			w.log.Warn("watching new directory failed", "path", ev.Name, "err", err)
		}
	}
	return true
}

// addRecursive watches dir and every directory below it. Non-directories
// are ignored, so callers can pass any created path.
func (w *Watcher) addRecursive(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == w.cfg.Root {
				return fmt.Errorf("watching %s: %w", path, err)
			}
			// Unreadable subtrees, or paths removed before the walk.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.cfg.Root && w.cfg.Skip.Match(d.Name()) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			w.log.Warn("watch add failed", "path", path, "err", err)
		}
		return nil
	})
}
