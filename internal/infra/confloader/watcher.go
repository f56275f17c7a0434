package confloader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to definition files under a watched path.
type Watcher struct {
	watcher    *fsnotify.Watcher
	callbacks  []func(string)
	extensions []string
	debounce   time.Duration
	mu         sync.RWMutex
	done       chan struct{}
	stopOnce   sync.Once
	logger     *slog.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithExtensions limits notifications to files with one of the given
// extensions (e.g. ".yaml"). Without it every file is reported.
func WithExtensions(exts ...string) WatcherOption {
	return func(w *Watcher) {
		w.extensions = exts
	}
}

// WithDebounce coalesces events arriving within d of each other into one
// notification carrying the last path. Editors typically emit several
// events per save.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a new configuration file watcher.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &Watcher{
		watcher:   w,
		callbacks: make([]func(string), 0),
		done:      make(chan struct{}),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(watcher)
	}

	return watcher, nil
}

// Watch adds a file or directory to watch. For a file, its directory is
// watched so that editors which replace the file by rename are caught.
func (w *Watcher) Watch(path string) error {
	dir := path
	if fi, err := os.Stat(path); err != nil || !fi.IsDir() {
		dir = filepath.Dir(path)
	}

	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Debug("watching definitions", "dir", dir, "target", filepath.Base(path))
	return nil
}

// OnChange registers a callback to be called when a watched file changes.
// The callback receives the path of the changed file.
func (w *Watcher) OnChange(callback func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start delivers change notifications until Stop is called.
func (w *Watcher) Start() {
	w.logger.Debug("definition watcher started", "debounce", w.debounce)

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("definition file changed", "file", event.Name, "op", event.Op.String())
			if w.debounce <= 0 {
				w.notifyCallbacks(event.Name)
				continue
			}
			pending = event.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.notifyCallbacks(pending)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("definition watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		if err = w.watcher.Close(); err != nil {
			w.logger.Error("close definition watcher", "error", err)
			return
		}
		w.logger.Debug("definition watcher stopped")
	})
	return err
}

// relevant filters out chmod-only events and files with other extensions.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.matchExtension(event.Name)
}

func (w *Watcher) matchExtension(name string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	return slices.ContainsFunc(w.extensions, func(e string) bool {
		return strings.EqualFold(ext, e)
	})
}

func (w *Watcher) notifyCallbacks(path string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		cb(path)
	}
}
