package dateutil

import (
	"testing"
	"time"
)

func TestParseDateOnly(t *testing.T) {
	parsed := Parse("2025-01-02")
	if parsed == nil {
		t.Fatal("expected date-only string to parse")
	}
	if parsed.Year() != 2025 || parsed.Month() != time.January || parsed.Day() != 2 {
		t.Fatalf("unexpected date: %v", parsed)
	}
	if parsed.Hour() != 0 || parsed.Minute() != 0 {
		t.Fatalf("expected local midnight, got %v", parsed)
	}
	if parsed.Location() != time.Local {
		t.Fatalf("expected local location, got %v", parsed.Location())
	}
}

func TestParseTimestamp(t *testing.T) {
	parsed := Parse("2025-01-02T10:30:00.000Z")
	if parsed == nil {
		t.Fatal("expected timestamp to parse")
	}
	want := time.Date(2025, 1, 2, 10, 30, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Fatalf("got %v, want %v", parsed, want)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, input := range []string{"", "not-a-date", "2025-13-45", "2025-01-02Tjunk", "  "} {
		if got := Parse(input); got != nil {
			t.Errorf("Parse(%q) = %v, want nil", input, got)
		}
	}
}

func TestFormatFallback(t *testing.T) {
	if got := Format("2025-01-02T10:30:00.000Z", "2006-01-02"); got != "2025-01-02" {
		t.Fatalf("unexpected formatted value: %q", got)
	}
	if got := Format("bad-date", "2006-01-02", "n/a"); got != "n/a" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := Format("bad-date", "2006-01-02"); got != "" {
		t.Fatalf("expected empty default fallback, got %q", got)
	}
}

func TestIsDueForReview(t *testing.T) {
	now := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)

	if !IsDueForReview("2025-01-05T10:00:00.000Z", now) {
		t.Error("past timestamp should be due")
	}
	if !IsDueForReview("2025-01-05T12:00:00.000Z", now) {
		t.Error("exact timestamp should be due")
	}
	if IsDueForReview("2025-01-05T18:00:00.000Z", now) {
		t.Error("future timestamp should not be due")
	}
	if IsDueForReview("garbage", now) {
		t.Error("malformed timestamp should not be due")
	}
}

func TestStampRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	s := Stamp(now)
	if s != "2025-03-04T05:06:07.000Z" {
		t.Fatalf("unexpected stamp: %q", s)
	}
	parsed := Parse(s)
	if parsed == nil || !parsed.Equal(now) {
		t.Fatalf("stamp did not round-trip: %v", parsed)
	}
}
