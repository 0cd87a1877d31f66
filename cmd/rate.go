package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rateCmd represents the rate command
var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Open the store listing and record that the user rated the app",
	Long: `Opens the store listing for the configured package, falling back to the
web listing when the native store cannot be opened, and records that the
user rated the app. Use --dry-run to only log the URL.`,
	Run: func(cmd *cobra.Command, args []string) {
		h := mustNewHost(cfgFile, dryRunOverride)
		defer h.Close()

		if err := h.ctrl.RateNow(); err != nil {
			h.logger.Error("Error opening store listing", "error", err)
			h.Close()
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(rateCmd)
}
