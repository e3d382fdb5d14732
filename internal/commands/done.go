package commands

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/torudo-dev/torudo/internal/db"
	"github.com/torudo-dev/torudo/internal/models"
)

var doneCmd = &cobra.Command{
	Use:   "done [record-id]",
	Short: "Mark a record as completed and move it to done.txt",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

func runDone(cmd *cobra.Command, args []string) error {
	id := args[0]
	store := newStore()

	records, err := store.Load()
	if err != nil {
		return err
	}
	record, known := findRecord(records, id)

	line, found, err := store.MarkComplete(id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no record with id %s", id)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Completed: %s\n", line)

	if known {
		journal(record, line)
	}
	return nil
}

// journal stores a completion in the database; failures are only logged
func journal(r models.Record, line string) {
	if err := db.Initialize(cfg.JournalPath()); err != nil {
		logger.Warn("completion journal unavailable", slog.Any("error", err))
		return
	}
	defer db.Close()

	entry := &models.Completion{
		RecordID:    r.ID,
		Description: r.Description,
		Projects:    strings.Join(r.Projects, " "),
		Priority:    r.PriorityLabel(),
		Line:        line,
		Source:      "cli",
		CompletedAt: time.Now(),
	}
	if err := db.RecordCompletion(entry); err != nil {
		logger.Warn("failed to journal completion", slog.Any("error", err))
	}
}

func findRecord(records []models.Record, id string) (models.Record, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return models.Record{}, false
}
