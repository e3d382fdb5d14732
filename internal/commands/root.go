package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/torudo-dev/torudo/internal/config"
	"github.com/torudo-dev/torudo/internal/todofile"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile string
	cfg     config.Config
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "torudo",
	Short: "A todo.txt board for the terminal",
	Long: `torudo shows todo.txt records as a grid of project columns and keeps a
Neovim instance focused on the detail file of the selected record.

Run without arguments to open the board. Inside tmux, a trailing column lists
running agent sessions and previews their screens in Neovim.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	Args:               cobra.NoArgs,
	RunE:               runBoard,
}

// setup loads configuration and, in debug mode, opens the debug log
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	cfg = loaded

	if cfg.Debug {
		f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		logFile = f
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		logger.Info("debug mode enabled",
			slog.String("dir", cfg.Dir),
			slog.String("todo_file", cfg.TodoPath()))
	}
	slog.SetDefault(logger)
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

// newStore builds the todo.txt store from the loaded configuration
func newStore() *todofile.Store {
	return &todofile.Store{
		Path:      cfg.TodoPath(),
		DonePath:  cfg.DonePath(),
		DetailDir: cfg.DetailPath(),
		DetailExt: cfg.DetailExt,
		Now:       time.Now,
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "torudo %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().String("dir", "", "todo.txt directory (overrides TODOTXT_DIR)")
	rootCmd.PersistentFlags().String("nvim-listen", "", "Neovim RPC socket path")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Write a debug log into the todo.txt directory")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(idsCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
