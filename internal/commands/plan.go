package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan [record-id]",
	Short: "Show or replace the plan in a record's detail file",
	Long: `Show the detail file of a record rendered as markdown.

With --set the body is replaced; front matter such as the tmux pane is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	id := args[0]
	store := newStore()
	raw, _ := cmd.Flags().GetBool("raw")

	if cmd.Flags().Changed("set") {
		body, _ := cmd.Flags().GetString("set")
		plan, err := store.ReadPlan(id)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		plan.Body = body
		if err := store.WritePlan(id, plan); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote plan: %s\n", store.DetailPath(id))
		return nil
	}

	plan, err := store.ReadPlan(id)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("record %s has no plan", id)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if plan.Meta.TmuxPane != "" {
		fmt.Fprintf(out, "tmux pane: %s\n", plan.Meta.TmuxPane)
	}
	if raw {
		fmt.Fprint(out, plan.Body)
		return nil
	}

	rendered, err := renderMarkdown(plan.Body)
	if err != nil {
		return err
	}
	fmt.Fprint(out, rendered)
	return nil
}

func renderMarkdown(body string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	rendered, err := r.Render(body)
	if err != nil {
		return "", fmt.Errorf("failed to render plan: %w", err)
	}
	return rendered, nil
}

func init() {
	planCmd.Flags().String("set", "", "Replace the plan body")
	planCmd.Flags().Bool("raw", false, "Print the markdown without rendering")
}
