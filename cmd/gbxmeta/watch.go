package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"gbxmeta/internal/catalog"
	"gbxmeta/internal/output"
)

// defaultSettle is how long a file must go without writes before it is decoded.
const defaultSettle = 250 * time.Millisecond

func cmdWatch(args []string) error {
	flags, common := newFlagSet("watch")
	dir := flags.String("dir", "", "directory to watch recursively")
	settle := flags.Duration("settle", defaultSettle, "quiet period before a changed file is decoded")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := requireFlag("dir", *dir); err != nil {
		return err
	}
	cfg, log, err := common.load()
	if err != nil {
		return err
	}

	cat, err := newCatalog(cfg)
	if err != nil {
		return err
	}
	w, err := newWatcher(*dir, cat, log, *settle)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("watching", "dir", *dir)
	return w.Run(ctx, func(row catalog.Row) error {
		return output.WriteJSONL(stdout, []catalog.Row{row})
	})
}

// watcher decodes matching files under a directory tree once writes to
// them settle.
type watcher struct {
	log    *slog.Logger
	cat    *catalog.Catalog
	fsw    *fsnotify.Watcher
	settle time.Duration

	mu      sync.Mutex
	pending map[string]*settleTimer
	ready   chan string
	done    chan struct{}
}

func newWatcher(dir string, cat *catalog.Catalog, log *slog.Logger, settle time.Duration) (*watcher, error) {
	root, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if info, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &watcher{
		log:     log,
		cat:     cat,
		fsw:     fsw,
		settle:  settle,
		pending: make(map[string]*settleTimer),
		ready:   make(chan string, 16),
		done:    make(chan struct{}),
	}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches root and every directory below it.
func (w *watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		w.log.Debug("watching directory", "path", path)
		return nil
	})
}

// Run delivers one row per settled file until ctx is done or emit fails.
func (w *watcher) Run(ctx context.Context, emit func(catalog.Row) error) error {
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
			w.log.Error("watcher error", "err", err)

		case path := <-w.ready:
			row, _ := w.cat.Decode(path)
			if row.Error != "" {
				w.log.Warn("decode failed", "path", path, "err", row.Error)
			} else {
				w.log.Info("decoded", "path", path, "name", row.Name, "uid", row.UID)
			}
			if err := emit(row); err != nil {
				return err
			}
		}
	}
}

func (w *watcher) handle(event fsnotify.Event) {
	w.log.Debug("file event", "event", event.String())

	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		w.cancel(event.Name)
		return
	case !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write):
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil && !errors.Is(err, fs.ErrNotExist) {
				w.log.Error("watch new directory", "path", event.Name, "err", err)
			}
			return
		}
	}
	if w.cat.Match(filepath.Base(event.Name)) {
		w.schedule(event.Name)
	}
}

// schedule (re)arms the settle timer for path.
func (w *watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	st := &settleTimer{}
	st.Timer = time.AfterFunc(w.settle, func() { w.fire(path, st) })
	w.pending[path] = st
}

// settleTimer is one arming of a path's timer; its identity tells a live
// timer from one that was replaced after it had already started running.
type settleTimer struct{ *time.Timer }

// fire hands path to the catalog loop once st settles. A replaced timer
// finds a different entry and does nothing.
func (w *watcher) fire(path string, st *settleTimer) {
	w.mu.Lock()
	if w.pending[path] != st {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.mu.Unlock()
	select {
	case w.ready <- path:
	case <-w.done:
	}
}

func (w *watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

// Close stops the underlying watcher and any pending timers.
func (w *watcher) Close() error {
	w.mu.Lock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()
	close(w.done)
	return w.fsw.Close()
}
