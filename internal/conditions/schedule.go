package conditions

import (
	"time"

	"github.com/kyleseneker/rating-prompt/internal/config"
	"github.com/kyleseneker/rating-prompt/internal/logging"
)

// ScheduleWindow is met only on allowed days between start and end (HH:MM, end exclusive).
type ScheduleWindow struct {
	days     []time.Weekday
	start    string
	end      string
	location *time.Location
	now      func() time.Time
	logger   logging.Logger
}

// NewScheduleWindow builds the condition from a resolved schedule config.
func NewScheduleWindow(cfg config.ScheduleConfig, logger logging.Logger) *ScheduleWindow {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &ScheduleWindow{
		days:     cfg.Days,
		start:    cfg.StartTime,
		end:      cfg.EndTime,
		location: loc,
		now:      time.Now,
		logger:   logger.Named("schedule_window"),
	}
}

// ConditionMet checks if the current time is within the allowed schedule.
func (w *ScheduleWindow) ConditionMet() bool {
	now := w.now().In(w.location)
	currentDay := now.Weekday()
	currentTimeStr := now.Format("15:04")

	isAllowedDay := false
	for _, allowedDay := range w.days {
		if currentDay == allowedDay {
			isAllowedDay = true
			break
		}
	}
	if !isAllowedDay {
		w.logger.Debug("Not an allowed day", "current_day", currentDay, "allowed_days", w.days)
		return false
	}

	if currentTimeStr < w.start || currentTimeStr >= w.end {
		w.logger.Debug("Outside allowed time range", "current_time", currentTimeStr, "start_time", w.start, "end_time", w.end)
		return false
	}
	return true
}
