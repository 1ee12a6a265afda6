// Package watch re-renders a transcript file whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long the file must stay quiet before a run starts.
const DefaultDelay = 300 * time.Millisecond

// RunFunc renders the transcript at path.
type RunFunc func(ctx context.Context, path string) error

// Config holds configuration for a Watcher.
type Config struct {
	Path   string
	Delay  time.Duration
	Run    RunFunc
	Logger *slog.Logger
}

// Watcher runs a RunFunc once at start and again after each burst of
// writes to the watched file.
type Watcher struct {
	path      string
	run       RunFunc
	log       *slog.Logger
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	runs      chan struct{}
}

// New creates a Watcher. The parent directory is watched so that editors
// that replace the file on save are still followed.
func New(cfg Config) (*Watcher, error) {
	if cfg.Run == nil {
		return nil, fmt.Errorf("watch %s: no run function", cfg.Path)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(cfg.Path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", cfg.Path, err)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	delay := cfg.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	w := &Watcher{
		path:    filepath.Clean(cfg.Path),
		run:     cfg.Run,
		log:     log,
		watcher: fw,
		runs:    make(chan struct{}, 1),
	}
	w.debouncer = NewDebouncer(delay, w.trigger)
	return w, nil
}

// Run renders once, then keeps rendering on change until ctx is done.
// Render errors are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.debouncer.Stop()
	defer w.watcher.Close()

	w.trigger()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-w.runs:
			if err := w.run(ctx, w.path); err != nil {
				w.log.Warn("render failed", "path", w.path, "error", err)
			}

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.log.Debug("transcript changed", "path", event.Name, "op", event.Op.String())
				w.debouncer.Add()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}

// trigger queues a run; runs already queued absorb it.
func (w *Watcher) trigger() {
	select {
	case w.runs <- struct{}{}:
	default:
	}
}

// Debouncer calls onFlush once after a burst of Add calls has been quiet
// for the configured delay.
type Debouncer struct {
	mu      sync.Mutex
	timer   *time.Timer
	delay   time.Duration
	onFlush func()
	stopped bool
}

// NewDebouncer creates a debouncer with the given flush callback.
func NewDebouncer(delay time.Duration, onFlush func()) *Debouncer {
	return &Debouncer{delay: delay, onFlush: onFlush}
}

// Add records a change and restarts the quiet period.
func (d *Debouncer) Add() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()

	if !stopped && d.onFlush != nil {
		d.onFlush()
	}
}

// Stop cancels any pending flush.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
