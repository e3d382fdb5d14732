package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var idsCmd = &cobra.Command{
	Use:   "ids",
	Short: "Give every record without one a fresh id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		added, err := newStore().EnsureIDs()
		if err != nil {
			return err
		}
		if added == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Every record already has an id.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added ids to %d record(s).\n", added)
		return nil
	},
}
