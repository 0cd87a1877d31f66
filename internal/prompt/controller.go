package prompt

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kyleseneker/rating-prompt/internal/conditions"
	"github.com/kyleseneker/rating-prompt/internal/logging"
	"github.com/kyleseneker/rating-prompt/internal/tracker"
)

// State is the display state of a controller. It is not persisted.
type State int

const (
	StateNotShown State = iota
	StateShowing
	StateDismissed
)

func (s State) String() string {
	switch s {
	case StateNotShown:
		return "not_shown"
	case StateShowing:
		return "showing"
	case StateDismissed:
		return "dismissed"
	default:
		return "unknown"
	}
}

// ErrDialogShowing is returned when the config is changed while a dialog is up.
var ErrDialogShowing = errors.New("dialog is currently showing")

// Controller decides when to show the rating prompt and records the user's answer.
// All methods are expected to be called from the host's single event loop.
type Controller struct {
	id         string
	cfg        Config
	usage      *tracker.UsageTracker
	conditions conditions.Set
	callback   Callback
	presenter  Presenter
	navigator  Navigator
	state      State
	generation uint64 // Incremented per render; stale responses carry an old value
	now        func() time.Time
	logger     logging.Logger
}

// Option customizes a Controller.
type Option func(*Controller)

// WithCallback sets the host callback.
func WithCallback(cb Callback) Option {
	return func(c *Controller) {
		if cb != nil {
			c.callback = cb
		}
	}
}

// WithClock replaces time.Now. Useful in tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithConditions registers extra display conditions.
func WithConditions(conds ...conditions.Condition) Option {
	return func(c *Controller) {
		for _, cond := range conds {
			c.conditions.Add(cond)
		}
	}
}

// NewController creates a controller. A presenter and navigator are attached separately
// since they may come and go with the host's UI.
func NewController(cfg Config, usage *tracker.UsageTracker, logger logging.Logger, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid prompt config: %w", err)
	}
	id := uuid.NewString()
	c := &Controller{
		id:       id,
		cfg:      cfg,
		usage:    usage,
		callback: NoopCallback{},
		state:    StateNotShown,
		now:      time.Now,
		logger:   logger.Named("prompt").With("controller_id", id),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ID returns the controller's instance id.
func (c *Controller) ID() string {
	return c.id
}

// Attach sets the rendering surface. Either argument may be nil.
func (c *Controller) Attach(p Presenter, n Navigator) {
	c.presenter = p
	c.navigator = n
}

// Detach forgets the rendering surface, e.g. when the host screen is torn down.
func (c *Controller) Detach() {
	c.presenter = nil
	c.navigator = nil
}

// Config returns the current config.
func (c *Controller) Config() Config {
	return c.cfg
}

// SetConfig replaces the config unless a dialog is showing.
func (c *Controller) SetConfig(cfg Config) error {
	if c.state == StateShowing {
		return ErrDialogShowing
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid prompt config: %w", err)
	}
	c.cfg = cfg
	return nil
}

// AddCondition registers an extra display condition.
func (c *Controller) AddCondition(cond conditions.Condition) {
	c.conditions.Add(cond)
}

// RemoveCondition unregisters a condition and reports whether it was registered.
func (c *Controller) RemoveCondition(cond conditions.Condition) bool {
	return c.conditions.Remove(cond)
}

// State returns the current display state.
func (c *Controller) State() State {
	return c.state
}

// IsShowing returns true if the dialog is currently shown.
func (c *Controller) IsShowing() bool {
	return c.state == StateShowing
}

// UserDidRate returns true if the user rated the app already.
func (c *Controller) UserDidRate() bool {
	return c.usage.HasRated()
}

// UserSetNeverRemindAgain returns true if the user opted out of the prompt.
func (c *Controller) UserSetNeverRemindAgain() bool {
	return c.usage.NeverRemindAgain()
}

// Record returns the persisted usage record.
func (c *Controller) Record() tracker.UsageRecord {
	return c.usage.Record()
}

// OnStart registers one launch. Call it exactly once per host session; repeated
// calls count as extra launches.
func (c *Controller) OnStart() {
	if c.usage.HasRated() || c.usage.NeverRemindAgain() {
		return
	}

	if _, ok := c.usage.FirstLaunch(); !ok {
		c.usage.SetFirstLaunch(c.now())
	}
	count := c.usage.LaunchCount() + 1
	c.usage.SetLaunchCount(count)
	c.logger.Debug("Registered launch", "launch_count", count)
}

// Evaluate returns the current display decision without side effects.
func (c *Controller) Evaluate() conditions.Decision {
	return conditions.Evaluate(c.usage.Record(), c.cfg.thresholds(), c.conditions.All(), c.now())
}

// ShouldShow reports whether the display criteria are currently satisfied.
func (c *Controller) ShouldShow() bool {
	return c.Evaluate().Show
}

// ShowIfNeeded shows the dialog if the display criteria are met and it is not already up.
func (c *Controller) ShowIfNeeded() {
	if c.state == StateShowing {
		return
	}
	decision := c.Evaluate()
	if !decision.Show {
		c.logger.Debug("Display criteria not met", "reason", decision.Reason, "launch_count", decision.LaunchCount, "days", decision.DaysSinceFirstLaunch)
		return
	}
	c.show()
}

// ShowNoMatterWhat shows the dialog regardless of the display criteria. Meant for debugging.
func (c *Controller) ShowNoMatterWhat() {
	c.show()
}

func (c *Controller) show() {
	if c.state == StateShowing {
		return
	}
	if c.presenter == nil {
		c.logger.Warn("No presenter attached, dialog not shown")
		return
	}

	c.state = StateShowing
	c.generation++
	gen := c.generation

	if err := c.render(buildDialog(c.cfg), gen); err != nil {
		c.logger.Error("Failed to show dialog", "error", err)
		if c.generation == gen && c.state == StateShowing {
			c.state = StateNotShown
		}
		return
	}

	c.logger.Info("Dialog shown")
	c.callback.DialogShown()
}

// render calls the presenter, turning a panic into an error so nothing escapes to the host.
func (c *Controller) render(d Dialog, gen uint64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("presenter panicked: %v", r)
		}
	}()
	return c.presenter.Render(d, func(r Response) error {
		return c.handleResponse(gen, r)
	})
}

// handleResponse applies the user's answer for render gen. Answers for other renders
// and second answers for the same render are ignored.
func (c *Controller) handleResponse(gen uint64, r Response) error {
	if gen != c.generation || c.state != StateShowing {
		c.logger.Debug("Ignoring stale dialog response", "response", r.String())
		return nil
	}

	respLogger := c.logger.With("response", r.String())
	switch r {
	case ResponseRateNow:
		c.state = StateDismissed
		return c.RateNow()
	case ResponseRemindLater:
		c.state = StateDismissed
		c.remindLater()
	case ResponseNeverRemind:
		c.state = StateDismissed
		c.neverRemindAgain()
	case ResponseCancelled:
		if !c.cfg.Cancelable {
			respLogger.Warn("Presenter cancelled a non-cancelable dialog, nothing recorded")
			c.state = StateNotShown
			return nil
		}
		c.state = StateDismissed
		c.remindLater()
	case ResponseAbandoned:
		respLogger.Info("Dialog closed without an answer, nothing recorded")
		c.state = StateNotShown
		return nil
	default:
		respLogger.Warn("Unknown dialog response, nothing recorded")
		c.state = StateNotShown
		return nil
	}
	respLogger.Info("Dialog response recorded")
	return nil
}

// RateNow opens the store listing for the host package and records the rating.
// It can be called without a dialog. A dialog that is still showing is dismissed
// and any later answer to it is ignored. If neither the native nor the web listing
// can be opened the error is returned and nothing is recorded.
func (c *Controller) RateNow() error {
	if c.state == StateShowing {
		c.state = StateDismissed
		c.generation++ // Invalidates the pending respond func
	}

	if c.navigator == nil {
		c.logger.Warn("No navigator attached, skipping store listing")
	} else {
		primary, fallback := StoreListingURLs(c.cfg.PackageID)
		if err := openWithFallback(c.navigator, primary, fallback); err != nil {
			return err
		}
	}

	c.usage.SetHasRated(true)
	c.logger.Info("User rated the app")
	c.callback.RateNowClicked()
	return nil
}

// remindLater restarts the tracking epoch.
func (c *Controller) remindLater() {
	c.usage.SetLaunchCount(0)
	c.usage.SetFirstLaunch(c.now())
	c.callback.RemindLaterClicked()
}

func (c *Controller) neverRemindAgain() {
	c.usage.SetNeverRemindAgain(true)
	c.callback.NeverRemindAgainClicked()
}

// Reset clears the persisted usage record. The display state is left alone.
func (c *Controller) Reset() {
	c.usage.Reset()
}
