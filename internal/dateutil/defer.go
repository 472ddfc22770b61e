package dateutil

import (
	"time"

	"github.com/nhle/gtd/internal/model"
)

// DeferPreset selects how far forward a task's dates are pushed.
type DeferPreset string

const (
	DeferTomorrow  DeferPreset = "tomorrow"
	DeferNextWeek  DeferPreset = "nextWeek"
	DeferWeekend   DeferPreset = "weekend"
	DeferNextMonth DeferPreset = "nextMonth"
)

// presetBase returns the calendar date the preset shifts to.
func presetBase(preset DeferPreset, now time.Time) time.Time {
	switch preset {
	case DeferTomorrow:
		return now.AddDate(0, 0, 1)
	case DeferNextWeek:
		return now.AddDate(0, 0, 7)
	case DeferWeekend:
		return nextSaturday(now)
	case DeferNextMonth:
		return now.AddDate(0, 1, 0)
	default:
		return now.AddDate(0, 0, 1)
	}
}

// nextSaturday returns the first Saturday strictly after now.
func nextSaturday(now time.Time) time.Time {
	days := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return now.AddDate(0, 0, days)
}

// preserveTime places the wall-clock time of source onto the base date,
// zeroing seconds. A missing or malformed source defaults to 09:00.
func preserveTime(source string, base time.Time) time.Time {
	hour, minute := 9, 0
	if parsed := Parse(source); parsed != nil {
		local := parsed.In(base.Location())
		hour, minute = local.Hour(), local.Minute()
	}
	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
}

// Defer computes the date updates that push a task forward to the preset's
// base date. Each of StartTime, DueDate, and ReviewAt that is set on the
// task has its calendar date shifted while its original hour and minute
// are preserved. A task with none of the three set gains a DueDate at the
// base date so every deferred task ends up with a forward-looking date.
func Defer(task model.Task, preset DeferPreset, now time.Time) model.TaskPatch {
	base := presetBase(preset, now)

	var patch model.TaskPatch
	if task.StartTime != "" {
		s := Stamp(preserveTime(task.StartTime, base))
		patch.StartTime = &s
	}
	if task.DueDate != "" {
		s := Stamp(preserveTime(task.DueDate, base))
		patch.DueDate = &s
	}
	if task.ReviewAt != "" {
		s := Stamp(preserveTime(task.ReviewAt, base))
		patch.ReviewAt = &s
	}

	if task.StartTime == "" && task.DueDate == "" && task.ReviewAt == "" {
		s := Stamp(preserveTime("", base))
		patch.DueDate = &s
	}

	return patch
}
