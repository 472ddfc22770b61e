package dateutil

import (
	"testing"
	"time"

	"github.com/nhle/gtd/internal/model"
)

func TestDeferShiftsAllDatesPreservingTime(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	task := model.Task{
		ID:        "t1",
		Title:     "Test",
		Status:    model.StatusNext,
		StartTime: "2025-01-02T08:15:00.000Z",
		DueDate:   "2025-01-03T15:30:45.000Z",
		ReviewAt:  "2025-01-04T12:45:00.000Z",
	}

	patch := Defer(task, DeferNextWeek, now)
	base := now.AddDate(0, 0, 7)

	checks := []struct {
		name   string
		got    *string
		source string
	}{
		{"startTime", patch.StartTime, task.StartTime},
		{"dueDate", patch.DueDate, task.DueDate},
		{"reviewAt", patch.ReviewAt, task.ReviewAt},
	}
	for _, c := range checks {
		if c.got == nil {
			t.Fatalf("%s: expected update", c.name)
		}
		shifted := Parse(*c.got)
		if shifted == nil {
			t.Fatalf("%s: update %q did not parse", c.name, *c.got)
		}
		orig := Parse(c.source).In(base.Location())
		local := shifted.In(base.Location())
		if local.Year() != base.Year() || local.Month() != base.Month() || local.Day() != base.Day() {
			t.Errorf("%s: calendar date not shifted to base, got %v", c.name, local)
		}
		if local.Hour() != orig.Hour() || local.Minute() != orig.Minute() {
			t.Errorf("%s: time of day not preserved, got %02d:%02d want %02d:%02d",
				c.name, local.Hour(), local.Minute(), orig.Hour(), orig.Minute())
		}
		if local.Second() != 0 {
			t.Errorf("%s: seconds not zeroed: %v", c.name, local)
		}
	}
}

func TestDeferWithoutDatesAssignsDueDate(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	task := model.Task{ID: "t1", Title: "Test", Status: model.StatusNext}

	patch := Defer(task, DeferTomorrow, now)

	if patch.StartTime != nil || patch.ReviewAt != nil {
		t.Fatal("only dueDate should be assigned")
	}
	if patch.DueDate == nil {
		t.Fatal("expected a dueDate update")
	}
	due := Parse(*patch.DueDate).In(now.Location())
	base := now.AddDate(0, 0, 1)
	if due.Year() != base.Year() || due.Month() != base.Month() || due.Day() != base.Day() {
		t.Fatalf("dueDate not at now+1d: %v", due)
	}
	if due.Hour() != 9 || due.Minute() != 0 {
		t.Fatalf("expected default 09:00, got %02d:%02d", due.Hour(), due.Minute())
	}
}

func TestDeferMalformedDateFallsBackToNine(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	task := model.Task{ID: "t1", Title: "Test", Status: model.StatusNext, DueDate: "garbage"}

	patch := Defer(task, DeferNextMonth, now)
	if patch.DueDate == nil {
		t.Fatal("expected a dueDate update")
	}
	due := Parse(*patch.DueDate).In(now.Location())
	if due.Hour() != 9 || due.Minute() != 0 {
		t.Fatalf("malformed source should default to 09:00, got %02d:%02d", due.Hour(), due.Minute())
	}
}

func TestDeferWeekendLandsOnSaturday(t *testing.T) {
	// 2025-01-04 is a Saturday.
	cases := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC), time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 1, 4, 8, 0, 0, 0, time.UTC), time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		patch := Defer(model.Task{ID: "t", Title: "t"}, DeferWeekend, c.now)
		if patch.DueDate == nil {
			t.Fatal("expected a dueDate update")
		}
		due := Parse(*patch.DueDate).In(c.now.Location())
		if due.Weekday() != time.Saturday {
			t.Errorf("now=%v: expected Saturday, got %v", c.now, due.Weekday())
		}
		if due.Day() != c.want.Day() {
			t.Errorf("now=%v: expected day %d, got %d", c.now, c.want.Day(), due.Day())
		}
	}
}
