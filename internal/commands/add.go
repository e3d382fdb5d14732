package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torudo-dev/torudo/internal/todofile"
)

var addCmd = &cobra.Command{
	Use:   "add [description]",
	Short: "Append a new record to todo.txt",
	Long: `Append a new record with a fresh id to todo.txt.

The description may itself carry todo.txt tokens such as @contexts.
An optional plan is written to the record's detail file.

Examples:
  torudo add "Write release notes" -p docs
  torudo add "Fix login bug" -p auth --priority A --plan "Check the session cookie first"
  torudo add "Refactor parser" -p core --plan-file notes.md --pane %3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	project, _ := cmd.Flags().GetString("project")
	priority, _ := cmd.Flags().GetString("priority")
	planText, _ := cmd.Flags().GetString("plan")
	planFile, _ := cmd.Flags().GetString("plan-file")
	pane, _ := cmd.Flags().GetString("pane")

	if planText != "" && planFile != "" {
		return fmt.Errorf("use either --plan or --plan-file, not both")
	}
	if planFile != "" {
		data, err := os.ReadFile(planFile)
		if err != nil {
			return fmt.Errorf("failed to read plan file: %w", err)
		}
		planText = string(data)
	}

	store := newStore()
	record, err := store.Append(todofile.AppendRequest{
		Description: strings.Join(args, " "),
		Project:     project,
		Priority:    priority,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Added record %s: %s\n", record.ID, record.Description)
	if len(record.Projects) > 0 {
		fmt.Fprintf(out, "  Project: %s\n", strings.Join(record.Projects, ", "))
	}
	if record.HasPriority() {
		fmt.Fprintf(out, "  Priority: %s\n", record.PriorityLabel())
	}

	if planText != "" || pane != "" {
		plan := todofile.Plan{
			Meta: todofile.PlanMeta{TmuxPane: pane},
			Body: planText,
		}
		if err := store.WritePlan(record.ID, plan); err != nil {
			return err
		}
		fmt.Fprintf(out, "  Plan: %s\n", store.DetailPath(record.ID))
	}

	return nil
}

func init() {
	addCmd.Flags().StringP("project", "p", "", "Project name (without the leading +)")
	addCmd.Flags().String("priority", "", "Priority letter A-Z")
	addCmd.Flags().String("plan", "", "Plan text written to the detail file")
	addCmd.Flags().String("plan-file", "", "Read the plan from a file")
	addCmd.Flags().String("pane", "", "tmux pane recorded in the plan front matter")
}
