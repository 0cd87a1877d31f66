package tracker

import (
	"strconv"
	"time"

	"github.com/kyleseneker/rating-prompt/internal/logging"
)

// Keys persisted for the usage record.
const (
	KeyUserHasRated     = "RD_KEY_USER_HAS_RATED"
	KeyNeverRemindAgain = "RD_KEY_NEVER_REMIND_AGAIN"
	KeyFirstStartDate   = "RD_KEY_FIRST_START_DATE"
	KeyLaunchCount      = "RD_KEY_LAUNCH_COUNT"
)

// DefaultNamespace keeps our keys apart from the host application's own state.
const DefaultNamespace = "rating_prompt"

// Store defines a namespaced key-value persistence backend.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key string, value string) error
	// Clear removes every key in the store's namespace.
	Clear() error
	Close() error
}

// UsageRecord is a snapshot of the persisted usage statistics.
type UsageRecord struct {
	HasRated         bool      `json:"has_rated"`
	NeverRemindAgain bool      `json:"never_remind_again"`
	FirstLaunch      time.Time `json:"first_launch"` // Zero when no launch was registered in the current epoch
	LaunchCount      int       `json:"launch_count"`
}

// HasFirstLaunch reports whether a first launch has been registered.
func (r UsageRecord) HasFirstLaunch() bool {
	return !r.FirstLaunch.IsZero()
}

// UsageTracker exposes typed access to the usage record on top of a Store.
// Backend failures never reach the caller: reads fall back to defaults and
// failed writes are logged.
type UsageTracker struct {
	store  Store
	logger logging.Logger
}

// NewUsageTracker creates a tracker over the given store.
func NewUsageTracker(store Store, logger logging.Logger) *UsageTracker {
	return &UsageTracker{
		store:  store,
		logger: logger.Named("usage_tracker"),
	}
}

func (t *UsageTracker) get(key string) (string, bool) {
	value, ok, err := t.store.Get(key)
	if err != nil {
		t.logger.Warn("Failed to read usage value, using default", "key", key, "error", err)
		return "", false
	}
	return value, ok
}

func (t *UsageTracker) set(key, value string) {
	if err := t.store.Set(key, value); err != nil {
		t.logger.Warn("Failed to persist usage value", "key", key, "error", err)
	}
}

func (t *UsageTracker) getBool(key string) bool {
	raw, ok := t.get(key)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		t.logger.Warn("Ignoring malformed boolean usage value", "key", key, "value", raw)
		return false
	}
	return b
}

func (t *UsageTracker) getInt64(key string) (int64, bool) {
	raw, ok := t.get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		t.logger.Warn("Ignoring malformed numeric usage value", "key", key, "value", raw)
		return 0, false
	}
	return n, true
}

// HasRated returns true if the user already rated the app.
func (t *UsageTracker) HasRated() bool {
	return t.getBool(KeyUserHasRated)
}

// SetHasRated persists the has-rated flag.
func (t *UsageTracker) SetHasRated(v bool) {
	t.set(KeyUserHasRated, strconv.FormatBool(v))
}

// NeverRemindAgain returns true if the user asked never to be prompted again.
func (t *UsageTracker) NeverRemindAgain() bool {
	return t.getBool(KeyNeverRemindAgain)
}

// SetNeverRemindAgain persists the never-remind flag.
func (t *UsageTracker) SetNeverRemindAgain(v bool) {
	t.set(KeyNeverRemindAgain, strconv.FormatBool(v))
}

// FirstLaunch returns the first launch time of the current tracking epoch.
func (t *UsageTracker) FirstLaunch() (time.Time, bool) {
	ms, ok := t.getInt64(KeyFirstStartDate)
	if !ok || ms < 0 { // Negative epochs are treated as unset
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// SetFirstLaunch starts a tracking epoch at ts.
func (t *UsageTracker) SetFirstLaunch(ts time.Time) {
	t.set(KeyFirstStartDate, strconv.FormatInt(ts.UnixMilli(), 10)) // Stored as epoch milliseconds
}

// LaunchCount returns the number of launches in the current tracking epoch.
func (t *UsageTracker) LaunchCount() int {
	n, ok := t.getInt64(KeyLaunchCount)
	if !ok || n < 0 { // Clamp values written by older or foreign code
		return 0
	}
	return int(n)
}

// SetLaunchCount persists the launch count. Negative values are stored as 0.
func (t *UsageTracker) SetLaunchCount(n int) {
	if n < 0 {
		n = 0
	}
	t.set(KeyLaunchCount, strconv.Itoa(n))
}

// Record reads all four fields.
func (t *UsageTracker) Record() UsageRecord {
	first, _ := t.FirstLaunch()
	return UsageRecord{
		HasRated:         t.HasRated(),
		NeverRemindAgain: t.NeverRemindAgain(),
		FirstLaunch:      first,
		LaunchCount:      t.LaunchCount(),
	}
}

// Reset restores every field to its default.
func (t *UsageTracker) Reset() {
	if err := t.store.Clear(); err != nil {
		t.logger.Warn("Failed to clear usage record", "error", err)
		return
	}
	t.logger.Info("Usage record reset")
}

// Close releases the underlying store.
func (t *UsageTracker) Close() error {
	return t.store.Close()
}
