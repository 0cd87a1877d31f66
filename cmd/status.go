package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kyleseneker/rating-prompt/internal/conditions"
	"github.com/kyleseneker/rating-prompt/internal/config"
	"github.com/kyleseneker/rating-prompt/internal/tracker"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the usage record and whether the prompt would be shown",
	Long: `Prints the persisted usage record and the current display decision.
It does not register a launch or show the prompt.`,
	Run: func(cmd *cobra.Command, args []string) {
		h := mustNewHost(cfgFile, dryRunOverride)
		defer h.Close()

		renderStatus(cmd.OutOrStdout(), h.cfg, h.ctrl.Record(), h.ctrl.Evaluate())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func renderStatus(out io.Writer, cfg *config.Config, rec tracker.UsageRecord, decision conditions.Decision) {
	firstLaunch := "-"
	if rec.HasFirstLaunch() {
		firstLaunch = rec.FirstLaunch.UTC().Format(time.RFC3339)
	}

	fmt.Fprintln(out, "\n--- Usage Record ---")
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Field", "Value"})
	table.SetBorder(false)
	table.Append([]string{"Has Rated", strconv.FormatBool(rec.HasRated)})
	table.Append([]string{"Never Remind Again", strconv.FormatBool(rec.NeverRemindAgain)})
	table.Append([]string{"First Launch", firstLaunch})
	table.Append([]string{"Launch Count", strconv.Itoa(rec.LaunchCount)})
	table.Render()

	combinator := "AND"
	if cfg.UseOrCombinator {
		combinator = "OR"
	}

	fmt.Fprintln(out, "\n--- Display Decision ---")
	table = tablewriter.NewWriter(out)
	table.SetHeader([]string{"Check", "Current", "Required"})
	table.SetBorder(false)
	table.Append([]string{"Launches", strconv.Itoa(decision.LaunchCount), "> " + strconv.Itoa(cfg.MinimumLaunchCount)})
	table.Append([]string{"Days Since First Launch", strconv.FormatInt(decision.DaysSinceFirstLaunch, 10), "> " + strconv.Itoa(cfg.MinimumDaysAfter)})
	table.Append([]string{"Combinator", combinator, ""})
	table.Append([]string{"Show Prompt", strconv.FormatBool(decision.Show), decision.Reason})
	table.Render()
}
