package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torudo-dev/torudo/internal/board"
	"github.com/torudo-dev/torudo/internal/db"
	"github.com/torudo-dev/torudo/internal/monitor"
	"github.com/torudo-dev/torudo/internal/nvim"
	"github.com/torudo-dev/torudo/internal/tui"
	"github.com/torudo-dev/torudo/internal/watcher"
)

// ErrSetupRejected is returned when the user declines to create the todo.txt files
var ErrSetupRejected = errors.New("setup rejected")

// runBoard opens the interactive board
func runBoard(cmd *cobra.Command, args []string) error {
	if err := ensureSetup(cmd.InOrStdin(), cmd.OutOrStdout(), cfg.Dir, cfg.TodoPath()); err != nil {
		return err
	}

	store := newStore()
	if added, err := store.EnsureIDs(); err != nil {
		logger.Error("failed to add missing ids", slog.Any("error", err))
	} else {
		logger.Debug("added missing ids", slog.Int("count", added))
	}

	w, err := watcher.New(cfg.Dir, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	records, err := store.Load()
	if err != nil {
		return err
	}
	logger.Debug("loaded records", slog.Int("count", len(records)))

	opts := board.Options{
		Store:           store,
		Editor:          nvim.NewClient(cfg.NvimSocket, cfg.RPCTimeout, logger),
		PreviewInterval: cfg.PreviewInterval,
		Logger:          logger,
	}

	if err := db.Initialize(cfg.JournalPath()); err != nil {
		logger.Warn("completion journal disabled", slog.Any("error", err))
	} else {
		defer db.Close()
		opts.Journal = db.Journal{}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if monitorEnabled() {
		m := monitor.New(cfg.Monitor.AgentCommand, cfg.Monitor.PollInterval, logger)
		go m.Run(ctx)
		opts.Monitor = m
	}

	b := board.New(opts, records)
	b.FocusCurrent()

	return tui.Run(tui.Options{
		Board:        b,
		Events:       w,
		Reconciler:   watcher.NewReconciler(cfg.TodoPath(), cfg.Debounce, logger),
		Keys:         cfg.Keys,
		TickInterval: cfg.TickInterval,
		Title:        cfg.TodoPath(),
	})
}

// monitorEnabled reports whether the session column should be shown
func monitorEnabled() bool {
	return cfg.Monitor.Enabled && os.Getenv("TMUX") != ""
}

// ensureSetup creates the todo.txt directory and file after confirmation
func ensureSetup(in io.Reader, out io.Writer, dir, todoPath string) error {
	reader := bufio.NewReader(in)

	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		ok, err := confirmCreation(reader, out, "todotxt directory", dir)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("creation of todotxt directory was rejected: %w", ErrSetupRejected)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create todotxt directory: %w", err)
		}
		fmt.Fprintf(out, "Created todotxt directory: %s\n", dir)
	} else if err != nil {
		return fmt.Errorf("failed to stat todotxt directory: %w", err)
	}

	if _, err := os.Stat(todoPath); errors.Is(err, os.ErrNotExist) {
		ok, err := confirmCreation(reader, out, "todo.txt", todoPath)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("creation of todo.txt was rejected: %w", ErrSetupRejected)
		}
		if err := os.WriteFile(todoPath, nil, 0644); err != nil {
			return fmt.Errorf("failed to create todo.txt: %w", err)
		}
		fmt.Fprintf(out, "Created todo.txt: %s\n", todoPath)
	} else if err != nil {
		return fmt.Errorf("failed to stat todo.txt: %w", err)
	}

	return nil
}

// confirmCreation asks a y/N question; anything but y or yes declines
func confirmCreation(in *bufio.Reader, out io.Writer, item, path string) (bool, error) {
	fmt.Fprintf(out, "%s does not exist: %s\n", item, path)
	fmt.Fprint(out, "Create it? (y/N): ")

	answer, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
