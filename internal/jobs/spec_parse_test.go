package jobs

import (
	"testing"
	"time"
)

func TestParseScheduleVariants(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in     string
		kind   SpecKind
		cron   string
		every  time.Duration
		source string
	}{
		{"*/5 * * * *", SpecCron, "*/5 * * * *", 0, "cron"},
		{"55 * * * *", SpecCron, "55 * * * *", 0, "cron"},
		{"@hourly", SpecCron, "@hourly", 0, "cron"},
		{"@every 55m", SpecCron, "@every 55m", 0, "cron"},
		{"cron:*/10 * * * *", SpecCron, "*/10 * * * *", 0, "cron"},
		{"55m", SpecInterval, "", 55 * time.Minute, "duration"},
		{"2h30m", SpecInterval, "", 2*time.Hour + 30*time.Minute, "duration"},
		{"every:45s", SpecInterval, "", 45 * time.Second, "duration"},
		{"00:50", SpecInterval, "", 50 * time.Minute, "hhmm"},
		{"02:30", SpecInterval, "", 2*time.Hour + 30*time.Minute, "hhmm"},
		{"every:01:15", SpecInterval, "", time.Hour + 15*time.Minute, "hhmm"},
	}
	for _, tc := range cases {
		got, err := ParseSchedule(tc.in)
		if err != nil {
			t.Fatalf("ParseSchedule(%q) error: %v", tc.in, err)
		}
		if got.Kind != tc.kind {
			t.Fatalf("ParseSchedule(%q) kind = %v, want %v", tc.in, got.Kind, tc.kind)
		}
		if got.Cron != tc.cron {
			t.Fatalf("ParseSchedule(%q) cron = %q, want %q", tc.in, got.Cron, tc.cron)
		}
		if got.Every != tc.every {
			t.Fatalf("ParseSchedule(%q) every = %v, want %v", tc.in, got.Every, tc.every)
		}
		if got.Source != tc.source {
			t.Fatalf("ParseSchedule(%q) source = %q, want %q", tc.in, got.Source, tc.source)
		}
	}
}

func TestParseScheduleRejectsInvalid(t *testing.T) {
	t.Parallel()
	for _, in := range []string{
		"", "   ", "cron:", "every:", "nonsense", "-5m", "0s", "00:00", "01:60", "every:-10m",
	} {
		if _, err := ParseSchedule(in); err == nil {
			t.Fatalf("ParseSchedule(%q) = nil error, want failure", in)
		}
	}
}
