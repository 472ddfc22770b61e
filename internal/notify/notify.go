// Package notify fires reminders for scheduled tasks and the morning
// and evening daily digests. Delivery is pluggable; the daemon logs
// notifications, desktop builds can plug in a system notifier.
package notify

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/nhle/gtd/internal/query"
)

// Notifier delivers a single notification to the user.
type Notifier interface {
	Notify(title, body string) error
}

// LogNotifier writes notifications to the log. It is the daemon's
// default delivery channel.
type LogNotifier struct {
	Log *log.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(title, body string) error {
	logger := n.Log
	if logger == nil {
		logger = log.StandardLogger()
	}
	logger.WithField("title", title).Info(body)
	return nil
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(title, body string) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(title, body string) error { return f(title, body) }

// digestBody renders a digest summary as a short human-readable line.
func digestBody(sum query.DigestSummary) string {
	var parts []string
	if sum.DueToday > 0 {
		parts = append(parts, fmt.Sprintf("%d due today", sum.DueToday))
	}
	if sum.Overdue > 0 {
		parts = append(parts, fmt.Sprintf("%d overdue", sum.Overdue))
	}
	if sum.FocusToday > 0 {
		parts = append(parts, fmt.Sprintf("%d starting today", sum.FocusToday))
	}
	if n := sum.ReviewDueTasks + sum.ReviewDueProjects; n > 0 {
		parts = append(parts, fmt.Sprintf("%d to review", n))
	}
	if len(parts) == 0 {
		return "Nothing scheduled."
	}
	return strings.Join(parts, ", ")
}

// stripMarkdown removes the inline markers task titles may carry so the
// notification text reads as plain prose.
func stripMarkdown(s string) string {
	replacer := strings.NewReplacer("**", "", "__", "", "*", "", "_", "", "`", "", "~~", "")
	return replacer.Replace(s)
}
