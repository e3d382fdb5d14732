package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torudo-dev/torudo/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage torudo configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config: %s\n", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path and resolved todo.txt locations",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "config:   %s\n", configPath())
		fmt.Fprintf(out, "todo:     %s\n", cfg.TodoPath())
		fmt.Fprintf(out, "done:     %s\n", cfg.DonePath())
		fmt.Fprintf(out, "details:  %s\n", cfg.DetailPath())
		fmt.Fprintf(out, "journal:  %s\n", cfg.JournalPath())
		fmt.Fprintf(out, "nvim:     %s\n", cfg.NvimSocket)
	},
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}
