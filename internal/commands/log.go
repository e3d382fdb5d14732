package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/torudo-dev/torudo/internal/db"
	"github.com/torudo-dev/torudo/internal/models"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recently completed records from the journal",
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	id, _ := cmd.Flags().GetString("id")

	if err := db.Initialize(cfg.JournalPath()); err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()

	if id != "" {
		completions, err := db.CompletionsFor(id)
		if err != nil {
			return err
		}
		if len(completions) == 0 {
			fmt.Fprintf(out, "No completions recorded for %s.\n", id)
			return nil
		}
		fmt.Fprintf(out, "Completions of %s:\n\n", id)
		printCompletions(out, completions)
		return nil
	}

	completions, err := db.RecentCompletions(limit)
	if err != nil {
		return err
	}
	if len(completions) == 0 {
		fmt.Fprintln(out, "No completions recorded yet.")
		return nil
	}

	today, err := db.CountCompletedSince(startOfDay(time.Now()))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Recent completions (%d today):\n\n", today)
	printCompletions(out, completions)
	return nil
}

func printCompletions(out io.Writer, completions []models.Completion) {
	for _, c := range completions {
		projects := c.Projects
		if projects == "" {
			projects = "-"
		}
		fmt.Fprintf(out, "%s  %-4s %-12s %s\n",
			c.CompletedAt.Format("2006-01-02 15:04"),
			c.Source,
			projects,
			c.Description)
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func init() {
	logCmd.Flags().IntP("limit", "n", 10, "Number of completions to show")
	logCmd.Flags().String("id", "", "Only show completions of this record")
}
