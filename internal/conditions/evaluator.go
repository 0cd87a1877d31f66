package conditions

import (
	"time"

	"github.com/kyleseneker/rating-prompt/internal/tracker"
)

const millisPerDay = 1000 * 60 * 60 * 24

// Thresholds are the built-in display criteria.
type Thresholds struct {
	MinimumLaunchCount int
	MinimumDaysAfter   int
	// UseOrCombinator joins the launch and day thresholds with OR instead of AND.
	UseOrCombinator bool
}

// Decision explains the outcome of an evaluation.
type Decision struct {
	Show                 bool
	Reason               string
	DaysSinceFirstLaunch int64
	LaunchCount          int
}

// Reasons reported in Decision.Reason.
const (
	ReasonAlreadyRated     = "already_rated"
	ReasonNeverRemind      = "never_remind_again"
	ReasonConditionUnmet   = "custom_condition_unmet"
	ReasonThresholdsMet    = "thresholds_met"
	ReasonThresholdsNotMet = "thresholds_not_met"
)

// DaysBetween returns the number of whole days from first to last, rounded down.
func DaysBetween(first, last time.Time) int64 {
	diff := last.UnixMilli() - first.UnixMilli()
	days := diff / millisPerDay
	if diff < 0 && diff%millisPerDay != 0 {
		days--
	}
	return days
}

// Evaluate decides whether the prompt should be shown at now.
// Custom conditions are always AND-ed on top of the thresholds, whatever the combinator.
func Evaluate(record tracker.UsageRecord, th Thresholds, conds []Condition, now time.Time) Decision {
	d := Decision{LaunchCount: record.LaunchCount}

	if record.HasRated {
		d.Reason = ReasonAlreadyRated
		return d
	}
	if record.NeverRemindAgain {
		d.Reason = ReasonNeverRemind
		return d
	}

	first := now
	if record.HasFirstLaunch() {
		first = record.FirstLaunch
	}
	d.DaysSinceFirstLaunch = DaysBetween(first, now)

	if !AllMet(conds) {
		d.Reason = ReasonConditionUnmet
		return d
	}

	daysMet := d.DaysSinceFirstLaunch > int64(th.MinimumDaysAfter)
	launchesMet := record.LaunchCount > th.MinimumLaunchCount
	if th.UseOrCombinator {
		d.Show = daysMet || launchesMet
	} else {
		d.Show = daysMet && launchesMet
	}

	if d.Show {
		d.Reason = ReasonThresholdsMet
	} else {
		d.Reason = ReasonThresholdsNotMet
	}
	return d
}

// ShouldShow is Evaluate reduced to its boolean outcome.
func ShouldShow(record tracker.UsageRecord, th Thresholds, conds []Condition, now time.Time) bool {
	return Evaluate(record, th, conds, now).Show
}
