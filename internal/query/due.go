package query

import (
	"time"

	"github.com/nhle/gtd/internal/dateutil"
	"github.com/nhle/gtd/internal/model"
)

// DueBucket classifies how soon a task is due.
type DueBucket string

const (
	DueNone     DueBucket = "none"
	DueOverdue  DueBucket = "overdue"
	DueToday    DueBucket = "today"
	DueTomorrow DueBucket = "tomorrow"
	DueThisWeek DueBucket = "this_week"
	DueNextWeek DueBucket = "next_week"
)

// DuePreset filters tasks by due date in search. Unlike buckets, presets
// overlap: "this_week" includes days that also match "today".
type DuePreset string

const (
	DueAnyPreset      DuePreset = "any"
	DueNonePreset     DuePreset = "none"
	DueOverduePreset  DuePreset = "overdue"
	DueTodayPreset    DuePreset = "today"
	DueTomorrowPreset DuePreset = "tomorrow"
	DueThisWeekPreset DuePreset = "this_week"
	DueNextWeekPreset DuePreset = "next_week"
)

// weekBounds computes local-midnight boundaries relative to now.
type weekBounds struct {
	startOfToday  time.Time
	startOfWeek   time.Time
	endOfWeek     time.Time
	nextWeekStart time.Time
	nextWeekEnd   time.Time
}

func computeWeekBounds(now time.Time, weekStart time.Weekday) weekBounds {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	diff := (int(now.Weekday()) - int(weekStart) + 7) % 7
	startOfWeek := startOfToday.AddDate(0, 0, -diff)
	endOfWeek := startOfWeek.AddDate(0, 0, 7)
	return weekBounds{
		startOfToday:  startOfToday,
		startOfWeek:   startOfWeek,
		endOfWeek:     endOfWeek,
		nextWeekStart: endOfWeek,
		nextWeekEnd:   endOfWeek.AddDate(0, 0, 7),
	}
}

// WeekStartDay maps a settings week-start value to a weekday.
// Anything other than "monday" is treated as Sunday.
func WeekStartDay(setting string) time.Weekday {
	if setting == model.WeekStartMonday {
		return time.Monday
	}
	return time.Sunday
}

// BucketDueDate classifies a due-date string relative to now. Missing,
// malformed, and far-future dates all land in DueNone.
func BucketDueDate(dueDate string, now time.Time, weekStart time.Weekday) DueBucket {
	due := dateutil.Parse(dueDate)
	if due == nil {
		return DueNone
	}
	b := computeWeekBounds(now, weekStart)
	d := due.In(now.Location())

	switch {
	case d.Before(b.startOfToday):
		return DueOverdue
	case d.Before(b.startOfToday.AddDate(0, 0, 1)):
		return DueToday
	case d.Before(b.startOfToday.AddDate(0, 0, 2)):
		return DueTomorrow
	case d.Before(b.endOfWeek):
		return DueThisWeek
	case !d.Before(b.nextWeekStart) && d.Before(b.nextWeekEnd):
		return DueNextWeek
	default:
		return DueNone
	}
}

// MatchesDuePreset reports whether the task's due date satisfies the
// search preset.
func MatchesDuePreset(task model.Task, preset DuePreset, now time.Time, weekStart time.Weekday) bool {
	if preset == "" || preset == DueAnyPreset {
		return true
	}
	if preset == DueNonePreset {
		return task.DueDate == ""
	}
	due := dateutil.Parse(task.DueDate)
	if due == nil {
		return false
	}
	b := computeWeekBounds(now, weekStart)
	d := due.In(now.Location())

	switch preset {
	case DueOverduePreset:
		return d.Before(b.startOfToday)
	case DueTodayPreset:
		return !d.Before(b.startOfToday) && d.Before(b.startOfToday.AddDate(0, 0, 1))
	case DueTomorrowPreset:
		tomorrow := b.startOfToday.AddDate(0, 0, 1)
		return !d.Before(tomorrow) && d.Before(tomorrow.AddDate(0, 0, 1))
	case DueThisWeekPreset:
		return !d.Before(b.startOfWeek) && d.Before(b.endOfWeek)
	case DueNextWeekPreset:
		return !d.Before(b.nextWeekStart) && d.Before(b.nextWeekEnd)
	}
	return true
}
