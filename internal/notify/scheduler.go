package notify

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nhle/gtd/internal/dateutil"
	"github.com/nhle/gtd/internal/model"
	"github.com/nhle/gtd/internal/query"
	"github.com/nhle/gtd/internal/store"
)

// DefaultCheckInterval is how often the scheduler scans for due
// notifications.
const DefaultCheckInterval = 15 * time.Second

// Default digest delivery times, used when the settings carry none.
const (
	defaultMorningTime = "09:00"
	defaultEveningTime = "20:00"
)

// Scheduler periodically scans the store and fires task reminders and
// daily digests. Each task occurrence and each digest per local day is
// delivered at most once.
type Scheduler struct {
	store    *store.Store
	notifier Notifier
	log      *log.Logger
	interval time.Duration
	now      func() time.Time

	mu sync.Mutex
	// notifiedAt keys a task ID to the occurrence timestamp it was last
	// notified for. A rescheduled task gets a fresh occurrence and fires
	// again; re-checks of the same occurrence stay silent.
	notifiedAt map[string]string
	// digestSent keys a digest kind ("morning"/"evening") to the local
	// date it was last delivered on.
	digestSent map[string]string

	stopCh chan struct{}
	done   chan struct{}
	unsub  func()
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithInterval overrides the scan interval.
func WithInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.interval = d }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

// WithLogger overrides the logger.
func WithLogger(l *log.Logger) SchedulerOption {
	return func(s *Scheduler) { s.log = l }
}

// NewScheduler creates a scheduler over the store.
func NewScheduler(st *store.Store, notifier Notifier, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		store:      st,
		notifier:   notifier,
		log:        log.StandardLogger(),
		interval:   DefaultCheckInterval,
		now:        time.Now,
		notifiedAt: make(map[string]string),
		digestSent: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins periodic checking on a background goroutine. A store
// mutation triggers an immediate re-check so a freshly scheduled task
// does not wait a full interval.
func (s *Scheduler) Start() {
	if s.stopCh != nil {
		return
	}
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})

	kick := make(chan struct{}, 1)
	s.unsub = s.store.Subscribe(func(model.AppData) {
		select {
		case kick <- struct{}{}:
		default:
		}
	})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.Check()
			case <-kick:
				s.Check()
			}
		}
	}()
}

// Stop halts checking and forgets delivery state, so a restarted
// scheduler may re-notify for still-pending occurrences. It waits for
// any in-flight check to finish before clearing state.
func (s *Scheduler) Stop() {
	if s.stopCh == nil {
		return
	}
	close(s.stopCh)
	<-s.done
	s.stopCh = nil
	s.done = nil
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}

	s.mu.Lock()
	s.notifiedAt = make(map[string]string)
	s.digestSent = make(map[string]string)
	s.mu.Unlock()
}

// Check runs one scan: task reminders first, then the two digests. It
// is exported so tests (and a manual trigger) can drive the scheduler
// without the ticker.
func (s *Scheduler) Check() {
	data := s.store.Snapshot()
	if !data.Settings.NotificationsOn() {
		return
	}
	now := s.now()

	s.checkTasks(data, now)
	s.checkDigest(data, now, "morning", data.Settings.DailyDigestMorningEnabled, data.Settings.DailyDigestMorningTime, defaultMorningTime)
	s.checkDigest(data, now, "evening", data.Settings.DailyDigestEveningEnabled, data.Settings.DailyDigestEveningTime, defaultEveningTime)
}

func (s *Scheduler) checkTasks(data model.AppData, now time.Time) {
	for _, t := range data.Tasks {
		at := NextScheduledAt(t)
		// Fire for anything already due or coming up within the next
		// scan interval, so a reminder is never a full interval late.
		if at == nil || at.Sub(now) > s.interval {
			continue
		}

		occurrence := dateutil.Stamp(*at)
		s.mu.Lock()
		seen := s.notifiedAt[t.ID] == occurrence
		if !seen {
			s.notifiedAt[t.ID] = occurrence
		}
		s.mu.Unlock()
		if seen {
			continue
		}

		if err := s.notifier.Notify(t.Title, stripMarkdown(t.Description)); err != nil {
			s.log.WithError(err).WithField("task", t.ID).Warn("notification delivery failed")
		}
	}
}

func (s *Scheduler) checkDigest(data model.AppData, now time.Time, kind string, enabled bool, at, fallback string) {
	if !enabled {
		return
	}

	hour, minute := parseTimeOfDay(at, fallback)
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if now.Before(target) {
		return
	}

	day := now.Format("2006-01-02")
	s.mu.Lock()
	sent := s.digestSent[kind] == day
	if !sent {
		s.digestSent[kind] = day
	}
	s.mu.Unlock()
	if sent {
		return
	}

	sum := query.DailyDigest(data, now, query.WeekStartDay(data.Settings.WeekStart))
	if !sum.HasItems() {
		return
	}

	title := "Daily digest"
	if kind == "evening" {
		title = "Evening digest"
	}
	if err := s.notifier.Notify(title, digestBody(sum)); err != nil {
		s.log.WithError(err).WithField("digest", kind).Warn("digest delivery failed")
	}
}

// NextScheduledAt returns the instant a task should fire a reminder: the
// earlier of its start time and due date. Completed and deleted tasks
// never fire.
func NextScheduledAt(t model.Task) *time.Time {
	if t.IsDeleted() || t.IsCompleted() {
		return nil
	}

	start := dateutil.Parse(t.StartTime)
	due := dateutil.Parse(t.DueDate)
	switch {
	case start == nil:
		return due
	case due == nil:
		return start
	case due.Before(*start):
		return due
	default:
		return start
	}
}

// parseTimeOfDay interprets an "HH:MM" string, falling back on malformed
// input.
func parseTimeOfDay(s, fallback string) (hour, minute int) {
	for _, candidate := range []string{s, fallback} {
		if t, err := time.Parse("15:04", candidate); err == nil {
			return t.Hour(), t.Minute()
		}
	}
	return 9, 0
}
