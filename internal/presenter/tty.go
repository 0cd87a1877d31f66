package presenter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kyleseneker/rating-prompt/internal/logging"
	"github.com/kyleseneker/rating-prompt/internal/prompt"
)

// ErrNoTerminal is returned when no terminal is available to render on.
var ErrNoTerminal = errors.New("no terminal available")

// TTY renders the rating dialog as a numbered menu on a terminal. The user's
// choice is read on a separate goroutine and handed back through dispatch, which
// must run the function on the host's event loop. Exactly one function is
// dispatched per Render; when input ends before a non-cancelable dialog is
// answered it reports prompt.ResponseAbandoned.
type TTY struct {
	in       io.Reader
	out      io.Writer
	dispatch func(func())
	logger   logging.Logger
	lastErr  error
}

// NewTTY creates a presenter over the given streams.
func NewTTY(in io.Reader, out io.Writer, dispatch func(func()), logger logging.Logger) *TTY {
	return &TTY{
		in:       in,
		out:      out,
		dispatch: dispatch,
		logger:   logger.Named("tty_presenter"),
	}
}

// OpenTTY opens /dev/tty directly so the dialog works even when stdin is redirected.
// The returned file must be closed by the caller.
func OpenTTY(dispatch func(func()), logger logging.Logger) (*TTY, *os.File, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNoTerminal, err)
	}
	return NewTTY(tty, tty, dispatch, logger), tty, nil
}

// Err returns the error reported by the controller for the last answer, if any.
// Only read it from the event loop.
func (p *TTY) Err() error {
	return p.lastErr
}

// Render prints the dialog and starts waiting for the user's choice.
func (p *TTY) Render(d prompt.Dialog, respond func(prompt.Response) error) error {
	if p.in == nil || p.out == nil {
		return ErrNoTerminal
	}
	if len(d.Buttons) == 0 {
		return errors.New("dialog has no buttons")
	}

	if _, err := fmt.Fprintln(p.out); err != nil {
		return fmt.Errorf("failed to write to terminal: %w", err)
	}
	if d.Title != "" {
		fmt.Fprintln(p.out, d.Title)
		fmt.Fprintln(p.out, strings.Repeat("=", len(d.Title)))
	}
	fmt.Fprintln(p.out, d.Message)
	fmt.Fprintln(p.out)
	for i, b := range d.Buttons {
		fmt.Fprintf(p.out, "[%d] %s\n", i+1, b.Label)
	}

	go func() {
		resp := p.readChoice(d)
		p.dispatch(func() {
			if resp == prompt.ResponseAbandoned {
				p.logger.Info("Terminal input ended before the dialog was answered")
			}
			p.lastErr = respond(resp)
		})
	}()
	return nil
}

// readChoice blocks until a valid choice, a cancellation, or end of input.
func (p *TTY) readChoice(d prompt.Dialog) prompt.Response {
	reader := bufio.NewReader(p.in)
	for {
		if d.Cancelable {
			fmt.Fprintf(p.out, "Choose 1-%d (or press Enter to dismiss): ", len(d.Buttons))
		} else {
			fmt.Fprintf(p.out, "Choose 1-%d: ", len(d.Buttons))
		}

		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			if d.Cancelable {
				return prompt.ResponseCancelled
			}
			if err != nil {
				return prompt.ResponseAbandoned
			}
			continue
		}

		num, convErr := strconv.Atoi(line)
		if convErr == nil && num >= 1 && num <= len(d.Buttons) {
			return d.Buttons[num-1].Response
		}
		if err != nil {
			// Input ended on an invalid answer.
			if d.Cancelable {
				return prompt.ResponseCancelled
			}
			return prompt.ResponseAbandoned
		}
		fmt.Fprintln(p.out, "Invalid choice.")
	}
}
