package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Register one application launch",
	Long: `Registers a launch for the current tracking epoch and records the first
launch date if none is known yet. Call it exactly once per application
session: every call counts as a launch.

Nothing is recorded once the user has rated the app or opted out.`,
	Run: func(cmd *cobra.Command, args []string) {
		h := mustNewHost(cfgFile, dryRunOverride)
		defer h.Close()

		h.ctrl.OnStart()
		fmt.Fprintf(cmd.OutOrStdout(), "Launch count: %d\n", h.usage.LaunchCount())
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
