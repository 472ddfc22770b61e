package query

import (
	"time"

	"github.com/nhle/gtd/internal/dateutil"
	"github.com/nhle/gtd/internal/model"
)

// DigestSummary holds the counts shown in the morning digest notification.
type DigestSummary struct {
	DueToday          int
	Overdue           int
	FocusToday        int
	ReviewDueTasks    int
	ReviewDueProjects int
}

// HasItems reports whether the digest has anything worth announcing.
func (d DigestSummary) HasItems() bool {
	return d.DueToday > 0 || d.Overdue > 0 || d.FocusToday > 0 ||
		d.ReviewDueTasks > 0 || d.ReviewDueProjects > 0
}

// DailyDigest summarizes the day's workload: tasks due today, overdue
// tasks, tasks scheduled to start today, and tasks/projects due for
// review. Completed and soft-deleted items are ignored.
func DailyDigest(data model.AppData, now time.Time, weekStart time.Weekday) DigestSummary {
	var sum DigestSummary
	for _, t := range data.Tasks {
		if t.IsDeleted() || t.IsCompleted() {
			continue
		}
		switch BucketDueDate(t.DueDate, now, weekStart) {
		case DueToday:
			sum.DueToday++
		case DueOverdue:
			sum.Overdue++
		}
		if start := dateutil.Parse(t.StartTime); start != nil {
			s := start.In(now.Location())
			if s.Year() == now.Year() && s.YearDay() == now.YearDay() {
				sum.FocusToday++
			}
		}
		if dateutil.IsDueForReview(t.ReviewAt, now) {
			sum.ReviewDueTasks++
		}
	}
	for _, p := range data.Projects {
		if p.Status == model.ProjectArchived {
			continue
		}
		if dateutil.IsDueForReview(p.ReviewAt, now) {
			sum.ReviewDueProjects++
		}
	}
	return sum
}
