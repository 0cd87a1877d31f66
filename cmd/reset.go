package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget launches, first launch date and the user's answer",
	Run: func(cmd *cobra.Command, args []string) {
		h := mustNewHost(cfgFile, dryRunOverride)
		defer h.Close()

		h.ctrl.Reset()
		fmt.Fprintln(cmd.OutOrStdout(), "Usage record reset.")
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
