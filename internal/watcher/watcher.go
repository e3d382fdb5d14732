package watcher

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher collects filesystem events for a directory into a queue that the
// UI loop drains without blocking
type Watcher struct {
	fs     *fsnotify.Watcher
	logger *slog.Logger

	mu     sync.Mutex
	queue  []fsnotify.Event
	done   chan struct{}
	closed bool
}

// New starts watching dir (non recursively)
func New(dir string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		fs:     fsw,
		logger: logger.With(slog.String("component", "watcher")),
		done:   make(chan struct{}),
	}
	go w.forward()
	return w, nil
}

func (w *Watcher) forward() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.mu.Lock()
			w.queue = append(w.queue, event)
			w.mu.Unlock()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", slog.Any("error", err))
		}
	}
}

// Drain returns every event received since the previous call
func (w *Watcher) Drain() []fsnotify.Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	events := w.queue
	w.queue = nil
	return events
}

// Close stops watching and waits for the forwarding goroutine to exit
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	err := w.fs.Close()
	<-w.done
	return err
}
