package watcher

import (
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the minimum gap between two watcher driven reloads
const DefaultDebounce = 200 * time.Millisecond

// Reconciler turns drained events into at most one reload per batch.
// A reload requested inside the debounce window is dropped, not deferred;
// the next batch of events decides again.
type Reconciler struct {
	Target   string // base name of the watched file
	Debounce time.Duration
	Now      func() time.Time
	Logger   *slog.Logger

	lastReload time.Time
}

// NewReconciler creates a reconciler for the file at path
func NewReconciler(path string, debounce time.Duration, logger *slog.Logger) *Reconciler {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reconciler{
		Target:   filepath.Base(path),
		Debounce: debounce,
		Now:      time.Now,
		Logger:   logger.With(slog.String("component", "reconciler")),
	}
}

// Process inspects a batch of events and calls reload when the target file
// was modified and the debounce window has passed. It reports whether
// reload ran.
func (r *Reconciler) Process(events []fsnotify.Event, reload func()) bool {
	pending := false
	for _, event := range events {
		if filepath.Base(event.Name) != r.Target {
			continue
		}
		if isModification(event) {
			pending = true
			r.Logger.Debug("change queued", slog.String("op", event.Op.String()))
		} else {
			r.Logger.Debug("ignoring event", slog.String("op", event.Op.String()))
		}
	}
	if !pending {
		return false
	}

	now := r.now()
	if !r.lastReload.IsZero() && now.Sub(r.lastReload) < r.Debounce {
		r.Logger.Debug("skipping reload inside debounce window")
		return false
	}

	reload()
	r.lastReload = now
	return true
}

// isModification reports content changes. Create counts only because an
// atomic save renames a temporary file over todo.txt, which fsnotify reports
// as a Create of the target name.
func isModification(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (r *Reconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
