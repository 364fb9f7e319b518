// Package preview serves a built site over HTTP and rebuilds it whenever the
// source tree changes.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/wikibuilder/internal/logfields"
	"git.home.luguber.info/inful/wikibuilder/internal/metrics"
	"git.home.luguber.info/inful/wikibuilder/internal/site"
)

const (
	// DefaultAddr is where the preview server listens when no address is given.
	DefaultAddr = ":8080"

	// debounceDelay coalesces bursts of filesystem events into one rebuild.
	debounceDelay = 300 * time.Millisecond

	shutdownTimeout = 5 * time.Second
)

// Options configures the preview server.
type Options struct {
	Addr      string
	SiteDir   string // Directory the generator writes to and the server serves from
	WatchDir  string // Source tree to watch for changes
	Generator *site.Generator
	Recorder  metrics.Recorder

	// MetricsHandler, when set, is mounted at /metrics.
	MetricsHandler http.Handler

	Logger *slog.Logger
}

// Serve runs an initial build, then serves the site and rebuilds on every
// change under the watch directory until the context is cancelled. A failed
// rebuild keeps the previous good site on disk and is only logged.
func Serve(ctx context.Context, opts Options) error {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := opts.Generator.Build(ctx); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}

	// The default output lives inside the watched source tree. Rebuilds write
	// there, so it must be excluded from watching or every rebuild would
	// trigger the next one.
	watchDir, err := filepath.Abs(opts.WatchDir)
	if err != nil {
		return fmt.Errorf("resolve watch dir: %w", err)
	}
	siteDir, err := filepath.Abs(opts.SiteDir)
	if err != nil {
		return fmt.Errorf("resolve site dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer watcher.Close()
	if err := addDirsRecursive(watcher, watchDir, siteDir, logger); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           newMux(opts.SiteDir, opts.MetricsHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("preview server listening", logfields.Addr(opts.Addr), logfields.Path(opts.WatchDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	rebuildReq, trigger := newDebouncer()
	go rebuildWorker(ctx, opts, logger, rebuildReq)

	for {
		select {
		case <-ctx.Done():
			return shutdown(srv, logger)
		case err := <-serveErr:
			return err
		case ev, ok := <-watcher.Events:
			if !ok {
				return shutdown(srv, logger)
			}
			handleEvent(watcher, ev, trigger, siteDir, logger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return shutdown(srv, logger)
			}
			logger.Warn("watcher error", logfields.Error(err))
		}
	}
}

func newMux(siteDir string, metricsHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}
	mux.Handle("/", http.FileServer(http.Dir(siteDir)))
	return mux
}

// newDebouncer returns a one-slot rebuild request channel and a trigger that
// arms a short timer on every call, so a burst of saves requests one rebuild.
func newDebouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceDelay, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	return req, trigger
}

func rebuildWorker(ctx context.Context, opts Options, logger *slog.Logger, req <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-req:
			logger.Info("change detected, rebuilding")
			opts.Recorder.IncRebuilds()
			if _, err := opts.Generator.Build(ctx); err != nil {
				logger.Warn("rebuild failed", logfields.Error(err))
			}
		}
	}
}

func handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func(), siteDir string, logger *slog.Logger) {
	if underDir(ev.Name, siteDir) || shouldIgnoreEvent(ev.Name) {
		return
	}
	// New directories need their own watch to see files created inside them.
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name, siteDir, logger)
		}
	}
	logger.Debug("file change", logfields.Path(ev.Name))
	trigger()
}

// addDirsRecursive watches every directory under root except skipDir (the
// build output) and hidden directories.
func addDirsRecursive(w *fsnotify.Watcher, root, skipDir string, logger *slog.Logger) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if underDir(path, skipDir) {
				return filepath.SkipDir
			}
			if path != root && shouldIgnoreEvent(path) {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				logger.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// underDir reports whether path is dir itself or contained in it. Both paths
// must be in the same form (absolute here).
func underDir(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// shouldIgnoreEvent filters out hidden files and editor droppings so saving
// a swap file does not trigger a rebuild.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if base == ".DS_Store" || base == "Thumbs.db" {
		return true
	}
	if base != "." && base != ".." && len(base) > 0 && base[0] == '.' {
		return true
	}
	if len(base) > 0 && base[len(base)-1] == '~' {
		return true
	}
	if filepath.Ext(base) == ".swp" || filepath.Ext(base) == ".swx" {
		return true
	}
	if len(base) > 1 && base[0] == '#' && base[len(base)-1] == '#' {
		return true
	}
	return false
}

func shutdown(srv *http.Server, logger *slog.Logger) error {
	logger.Info("shutting down preview server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("server shutdown error", logfields.Error(err))
	}
	return nil
}
