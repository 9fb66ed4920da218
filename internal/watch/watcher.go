// Package watch delivers debounced change batches for Java source trees.
// Changes are collected until no new event arrives within the debounce
// window, then the affected paths go out as one batch; the caller re-runs
// its scan over them.
// Implements: prd010-watch-mode R1, R3.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the settle window applied when Options leaves it zero.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Roots    []string // Source tree roots; at least one is required.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher watches source roots recursively and emits change batches.
type Watcher struct {
	opts Options
	fsw  *fsnotify.Watcher
	log  *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}

	batches chan []string
}

// New creates a Watcher. Run starts it.
func New(opts Options) (*Watcher, error) {
	if len(opts.Roots) == 0 {
		return nil, fmt.Errorf("watch: no roots given")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		opts:    opts,
		fsw:     fsw,
		log:     opts.Logger,
		pending: make(map[string]struct{}),
		batches: make(chan []string, 1),
	}, nil
}

// Batches returns the channel of settled change batches. Paths are sorted
// and deduplicated within a batch.
func (w *Watcher) Batches() <-chan []string {
	return w.batches
}

// Run watches until the context is canceled. Directories created while
// running are watched too.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	for _, root := range w.opts.Roots {
		if err := w.addRecursive(root); err != nil {
			return err
		}
	}
	w.log.Info("watching", "roots", len(w.opts.Roots), "debounce", w.opts.Debounce)

	ticker := time.NewTicker(w.opts.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", "error", err)

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// addRecursive watches root and every directory below it, skipping hidden
// directories.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.log.Warn("cannot watch directory", "path", path, "error", err)
			return nil
		}
		w.log.Debug("watching directory", "path", path)
		return nil
	})
}

// handle records one fsnotify event. New directories get a watch; only
// documentation-relevant files join the pending batch.
func (w *Watcher) handle(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !strings.HasPrefix(filepath.Base(path), ".") {
				if err := w.addRecursive(path); err != nil {
					w.log.Warn("cannot watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}
	if event.Op == fsnotify.Chmod {
		return
	}
	if !relevant(path) {
		return
	}

	w.mu.Lock()
	w.pending[path] = struct{}{}
	w.mu.Unlock()
	w.log.Debug("change detected", "path", path, "op", event.Op.String())
}

// relevant reports whether a changed file affects the documentation index.
func relevant(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".java") ||
		base == "package.html" || base == "overview.html"
}

// flush sends the pending paths as one batch, if any settled.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	batch := make([]string, 0, len(w.pending))
	for path := range w.pending {
		batch = append(batch, path)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	sort.Strings(batch)
	select {
	case w.batches <- batch:
		w.log.Debug("batch sent", "files", len(batch))
	case <-ctx.Done():
	}
}
