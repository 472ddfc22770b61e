// Package dateutil interprets the ISO-8601 date strings carried on tasks
// and projects. Malformed input never produces an error: parsing returns
// nil and formatting returns a fallback, so bad data from any client
// surface degrades to "no date" instead of breaking a view.
package dateutil

import (
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// stampLayout matches the millisecond-precision UTC form the JavaScript
// front ends write (Date.toISOString).
const stampLayout = "2006-01-02T15:04:05.000Z07:00"

// Parse interprets s as either a date-only string (local midnight) or a
// full ISO-8601 timestamp. It returns nil for malformed input.
func Parse(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if len(s) == len(dateOnlyLayout) && !strings.ContainsRune(s, 'T') {
		t, err := time.ParseInLocation(dateOnlyLayout, s, time.Local)
		if err != nil {
			return nil
		}
		return &t
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// Format renders s using the given time layout. When s cannot be parsed
// it returns the fallback, or the empty string if none is supplied.
func Format(s, layout string, fallback ...string) string {
	fb := ""
	if len(fallback) > 0 {
		fb = fallback[0]
	}
	t := Parse(s)
	if t == nil {
		return fb
	}
	return t.Format(layout)
}

// IsDueForReview reports whether ts parses to an instant at or before now.
func IsDueForReview(ts string, now time.Time) bool {
	t := Parse(ts)
	return t != nil && !t.After(now)
}

// Stamp renders t as the canonical wire timestamp (millisecond UTC).
func Stamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}
