// Package watch reloads a catalog when its source file changes on disk.
package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of events an editor produces for one save.
const DefaultDebounce = 200 * time.Millisecond

// Reloader is implemented by *catalog.Store.
type Reloader interface {
	Reload() (bool, error)
}

// Options controls watcher behavior.
type Options struct {
	// Debounce is the quiet period after the last event before reloading.
	// Zero means DefaultDebounce.
	Debounce time.Duration

	// OnReload, if set, is called after every reload attempt.
	OnReload func(changed bool, err error)
}

// Watcher watches one catalog file and triggers a debounced reload on change.
//
// The parent directory is watched rather than the file itself so that
// atomic saves (write to temp, rename over the target) are seen.
//
// Usage:
//
//	w, err := watch.New(store.Path(), store, watch.Options{}, logger)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(); err != nil {
//	    return err
//	}
//	defer w.Close()
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	reloader Reloader
	options  Options
	logger   *slog.Logger

	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	closed  bool
}

// New creates a watcher for path. Call Start to begin watching.
func New(path string, reloader Reloader, options Options, logger *slog.Logger) (*Watcher, error) {
	if reloader == nil {
		return nil, errors.New("watch: reloader is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %q: %w", path, err)
	}
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create file watcher: %w", err)
	}

	return &Watcher{
		fsw:      fsw,
		path:     filepath.Clean(abs),
		reloader: reloader,
		options:  options,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return errors.New("watch: watcher already closed")
	}
	if w.started {
		return errors.New("watch: watcher already started")
	}

	dir := filepath.Dir(w.path)
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch: failed to watch %s: %w", dir, err)
	}
	w.started = true

	w.wg.Add(1)
	go w.eventLoop()

	w.logger.Info("catalog watcher started", "path", w.path, "debounce", w.options.Debounce)
	return nil
}

// Close stops the watcher and waits for the event loop to exit. Idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	w.wg.Wait()
	err := w.fsw.Close()
	w.logger.Info("catalog watcher stopped", "path", w.path)
	return err
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("catalog file event", "op", event.Op.String(), "file", event.Name)
			if timer == nil {
				timer = time.NewTimer(w.options.Debounce)
			} else {
				timer.Reset(w.options.Debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("catalog watcher error", "error", err)

		case <-fire:
			fire = nil
			changed, err := w.reloader.Reload()
			if err != nil {
				w.logger.Warn("catalog reload failed", "path", w.path, "error", err)
			}
			if w.options.OnReload != nil {
				w.options.OnReload(changed, err)
			}
		}
	}
}

// relevant keeps writes and creates of the watched file. Removes and renames
// away are ignored; the previous snapshot stays in place until the file returns.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
