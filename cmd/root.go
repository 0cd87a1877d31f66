package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Used for flags.
	cfgFile        string
	dryRunOverride bool

	rootCmd = &cobra.Command{
		Use:   "rating-prompt",
		Short: "Decide when to ask users to rate an app, and remember their answer",
		Long: `rating-prompt tracks launches and days of use for an application and
shows a "rate this app" prompt once the configured thresholds are met.
The user's answer (rate now, remind me later, never) is persisted so the
prompt is not shown again until it makes sense.

Call "start" once per session and "show" whenever the app becomes visible.`,
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Define flags persistent across all commands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rating-prompt/rating-prompt.toml or ./rating-prompt.toml)")
	rootCmd.PersistentFlags().BoolVar(&dryRunOverride, "dry-run", false, "Log store URLs instead of opening them.")
}
