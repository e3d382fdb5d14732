package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/torudo-dev/torudo/internal/config"
	"github.com/torudo-dev/torudo/internal/tui"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the board key bindings",
	Long:  "Show the keys bound to each board action, as resolved from the config file.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showKeys(cmd.OutOrStdout(), cfg.Keys)
	},
}

func showKeys(out io.Writer, keymap config.Keymap) {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(tui.ColorAccentBright))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorAccentMain)).Width(12)

	fmt.Fprintln(out, title.Render("BOARD KEYS"))
	fmt.Fprintln(out)

	sections := []struct {
		name string
		rows [][2]string
	}{
		{"Navigation", [][2]string{
			{keymap.Up, "previous record or session"},
			{keymap.Down, "next record or session"},
			{keymap.Left, "previous column"},
			{keymap.Right, "next column (the last one lists agent sessions)"},
		}},
		{"Actions", [][2]string{
			{keymap.Complete, "complete the selected record"},
			{keymap.Reload, "add missing ids and reload todo.txt"},
			{keymap.SwitchPane, "switch tmux to the selected session"},
		}},
		{"Other", [][2]string{
			{keymap.Help, "toggle the full help bar"},
			{keymap.Quit, "quit"},
		}},
	}

	for _, section := range sections {
		fmt.Fprintf(out, "  %s\n", section.name)
		for _, row := range section.rows {
			if row[0] == "" {
				continue
			}
			fmt.Fprintf(out, "    %s %s\n", keyStyle.Render(row[0]), row[1])
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Rebind keys in the [keys] table of %s\n", config.DefaultPath())
}
