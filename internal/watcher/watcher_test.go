package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestWatcherQueuesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.txt")
	if err := os.WriteFile(path, []byte("a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(dir, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("b\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	var seen []fsnotify.Event
	for time.Now().Before(deadline) {
		seen = append(seen, w.Drain()...)
		if hasWrite(seen, path) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if !hasWrite(seen, path) {
		t.Fatalf("no write event for %s in %v", path, seen)
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	w, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestNewMissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func hasWrite(events []fsnotify.Event, path string) bool {
	for _, e := range events {
		if e.Name == path && e.Has(fsnotify.Write) {
			return true
		}
	}
	return false
}
