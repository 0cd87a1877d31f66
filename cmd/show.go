package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kyleseneker/rating-prompt/internal/logging"
	"github.com/kyleseneker/rating-prompt/internal/presenter"
)

var forceShow bool

// openTerminal opens the presenter's terminal. Replaced in tests.
var openTerminal = func(dispatch func(func()), logger logging.Logger) (*presenter.TTY, io.Closer, error) {
	tty, f, err := presenter.OpenTTY(dispatch, logger)
	if err != nil {
		return nil, nil, err
	}
	return tty, f, nil
}

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the rating prompt if the display criteria are met",
	Long: `Evaluates the display criteria (launch count, days since first launch and
any extra conditions) and, when they are met, shows the prompt on the
terminal and records the answer.

With --force the prompt is shown regardless of the criteria, which is
useful to check the dialog texts.`,
	Run: func(cmd *cobra.Command, args []string) {
		h := mustNewHost(cfgFile, dryRunOverride)
		defer h.Close()

		if err := showPrompt(h, cmd.OutOrStdout(), forceShow); err != nil {
			h.logger.Error("Error handling prompt response", "error", err)
			h.Close()
			os.Exit(1)
		}
	},
}

// showPrompt renders the prompt on the terminal and waits for the single answer.
func showPrompt(h *host, out io.Writer, force bool) error {
	// Responses are read on another goroutine and run here, on this loop.
	loop := make(chan func(), 1)
	tty, closer, err := openTerminal(func(fn func()) { loop <- fn }, h.logger)
	if err != nil {
		h.logger.Warn("Cannot render prompt", "error", err)
		fmt.Fprintln(out, "Prompt not shown (no terminal available)")
		return nil
	}
	defer closer.Close()
	h.ctrl.Attach(tty, h.navigator)

	if force {
		h.ctrl.ShowNoMatterWhat()
	} else {
		h.ctrl.ShowIfNeeded()
	}

	if !h.ctrl.IsShowing() {
		decision := h.ctrl.Evaluate()
		fmt.Fprintf(out, "Prompt not shown (%s)\n", decision.Reason)
		return nil
	}

	fn := <-loop
	fn()
	return tty.Err()
}

func init() {
	showCmd.Flags().BoolVar(&forceShow, "force", false, "Show the prompt regardless of the display criteria.")
	rootCmd.AddCommand(showCmd)
}
