package monitor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrCaptureTimeout is returned when tmux does not answer in time
var ErrCaptureTimeout = errors.New("capture-pane timed out")

const defaultCommandTimeout = 2 * time.Second

const paneFormat = "#{pane_id}\t#{session_name}:#{window_index}.#{pane_index}\t#{pane_current_command}\t#{pane_current_path}\t#{pane_pid}"

// Runner executes a tmux subcommand and returns its stdout
type Runner func(ctx context.Context, args ...string) ([]byte, error)

// Pane is one row of tmux list-panes output
type Pane struct {
	ID      string
	Target  string
	Command string
	Path    string
	PID     int
}

// Tmux wraps the tmux command line client
type Tmux struct {
	Run     Runner
	Timeout time.Duration
}

// NewTmux creates a client that shells out to the tmux binary
func NewTmux() *Tmux {
	return &Tmux{Run: execRunner, Timeout: defaultCommandTimeout}
}

func execRunner(ctx context.Context, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, "tmux", args...).Output()
}

// ListPanes returns every pane of every session on the server
func (t *Tmux) ListPanes(ctx context.Context) ([]Pane, error) {
	out, err := t.run(ctx, "list-panes", "-a", "-F", paneFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to list panes: %w", err)
	}
	return parsePanes(string(out)), nil
}

// Capture returns the visible content of a pane including ANSI colors
func (t *Tmux) Capture(ctx context.Context, paneID string) (string, error) {
	out, err := t.run(ctx, "capture-pane", "-p", "-e", "-J", "-t", paneID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrCaptureTimeout
		}
		return "", fmt.Errorf("failed to capture pane: %w", err)
	}
	return string(out), nil
}

// SwitchTo focuses the attached client on the given pane
func (t *Tmux) SwitchTo(ctx context.Context, paneID string) error {
	steps := [][]string{
		{"switch-client", "-t", paneID},
		{"select-window", "-t", paneID},
		{"select-pane", "-t", paneID},
	}
	for _, args := range steps {
		if _, err := t.run(ctx, args...); err != nil {
			return fmt.Errorf("failed to %s: %w", args[0], err)
		}
	}
	return nil
}

func (t *Tmux) run(ctx context.Context, args ...string) ([]byte, error) {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	run := t.Run
	if run == nil {
		run = execRunner
	}
	out, err := run(ctx, args...)
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return out, err
}

func parsePanes(output string) []Pane {
	var panes []Pane
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Split(strings.TrimRight(line, "\r"), "\t")
		if len(fields) != 5 || fields[0] == "" {
			continue
		}
		pid, _ := strconv.Atoi(fields[4])
		panes = append(panes, Pane{
			ID:      fields[0],
			Target:  fields[1],
			Command: fields[2],
			Path:    fields[3],
			PID:     pid,
		})
	}
	return panes
}

// projectName derives a short label for a pane from its working directory
func projectName(path string) string {
	if path == "" {
		return "?"
	}
	return filepath.Base(filepath.Clean(path))
}
