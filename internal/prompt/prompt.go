package prompt

import (
	"errors"
	"strings"

	"github.com/kyleseneker/rating-prompt/internal/conditions"
)

// Texts holds the dialog strings. Empty optional labels hide their field or button.
type Texts struct {
	Title       string // Optional
	Message     string
	RateNow     string
	RemindLater string // Optional
	NeverRemind string // Optional
}

// Config controls when and how the prompt is displayed.
type Config struct {
	MinimumLaunchCount int
	MinimumDaysAfter   int
	UseOrCombinator    bool
	Cancelable         bool
	Style              string // Opaque to the controller, passed through to the presenter
	PackageID          string // Store listing id used by the rate-now action
	Texts              Texts
}

// DefaultConfig returns the stock thresholds: more than 5 launches and more than 7 days.
func DefaultConfig() Config {
	return Config{
		MinimumLaunchCount: 5,
		MinimumDaysAfter:   7,
		Cancelable:         true,
	}
}

// Validate checks that required texts are present and thresholds are sane.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Texts.Message) == "" {
		return errors.New("prompt message is required")
	}
	if strings.TrimSpace(c.Texts.RateNow) == "" {
		return errors.New("rate-now label is required")
	}
	if c.MinimumLaunchCount < 0 || c.MinimumDaysAfter < 0 {
		return errors.New("thresholds cannot be negative")
	}
	return nil
}

func (c Config) thresholds() conditions.Thresholds {
	return conditions.Thresholds{
		MinimumLaunchCount: c.MinimumLaunchCount,
		MinimumDaysAfter:   c.MinimumDaysAfter,
		UseOrCombinator:    c.UseOrCombinator,
	}
}

// Response is the single answer a presenter reports for a rendered dialog.
type Response int

const (
	ResponseRateNow Response = iota
	ResponseRemindLater
	ResponseNeverRemind
	ResponseCancelled
	// ResponseAbandoned reports that the dialog went away without an answer,
	// e.g. the terminal closed. Nothing is recorded and the prompt may show again.
	ResponseAbandoned
)

func (r Response) String() string {
	switch r {
	case ResponseRateNow:
		return "rate_now"
	case ResponseRemindLater:
		return "remind_later"
	case ResponseNeverRemind:
		return "never_remind"
	case ResponseCancelled:
		return "cancelled"
	case ResponseAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Button is one action offered by the dialog.
type Button struct {
	Response Response
	Label    string
}

// Dialog is the render request handed to a Presenter.
type Dialog struct {
	Title      string // Empty means no title
	Message    string
	Style      string
	Cancelable bool
	Buttons    []Button // Primary (rate now) first
}

// HasButton reports whether the dialog offers the given response as a button.
func (d Dialog) HasButton(r Response) bool {
	for _, b := range d.Buttons {
		if b.Response == r {
			return true
		}
	}
	return false
}

// buildDialog applies the visibility rules: message and rate-now are always present,
// the title and secondary buttons only when labelled.
func buildDialog(cfg Config) Dialog {
	d := Dialog{
		Title:      cfg.Texts.Title,
		Message:    cfg.Texts.Message,
		Style:      cfg.Style,
		Cancelable: cfg.Cancelable,
		Buttons:    []Button{{Response: ResponseRateNow, Label: cfg.Texts.RateNow}},
	}
	if cfg.Texts.RemindLater != "" {
		d.Buttons = append(d.Buttons, Button{Response: ResponseRemindLater, Label: cfg.Texts.RemindLater})
	}
	if cfg.Texts.NeverRemind != "" {
		d.Buttons = append(d.Buttons, Button{Response: ResponseNeverRemind, Label: cfg.Texts.NeverRemind})
	}
	return d
}

// Presenter renders the dialog. Render must not block waiting for the user: it
// returns once the dialog is up and later calls respond at most once.
type Presenter interface {
	Render(d Dialog, respond func(Response) error) error
}

// Navigator opens a URI on behalf of the host.
type Navigator interface {
	Open(uri string) error
}

// Callback receives notifications about the dialog.
type Callback interface {
	RemindLaterClicked()
	RateNowClicked()
	NeverRemindAgainClicked()
	DialogShown()
}

// NoopCallback ignores every notification.
type NoopCallback struct{}

func (NoopCallback) RemindLaterClicked()      {}
func (NoopCallback) RateNowClicked()          {}
func (NoopCallback) NeverRemindAgainClicked() {}
func (NoopCallback) DialogShown()             {}

// CallbackFuncs adapts optional functions to the Callback interface.
type CallbackFuncs struct {
	OnRemindLater func()
	OnRateNow     func()
	OnNeverRemind func()
	OnShown       func()
}

func (f CallbackFuncs) RemindLaterClicked() {
	if f.OnRemindLater != nil {
		f.OnRemindLater()
	}
}

func (f CallbackFuncs) RateNowClicked() {
	if f.OnRateNow != nil {
		f.OnRateNow()
	}
}

func (f CallbackFuncs) NeverRemindAgainClicked() {
	if f.OnNeverRemind != nil {
		f.OnNeverRemind()
	}
}

func (f CallbackFuncs) DialogShown() {
	if f.OnShown != nil {
		f.OnShown()
	}
}
