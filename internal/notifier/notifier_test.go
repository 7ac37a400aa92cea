package notifier

import (
	"errors"
	"fmt"
	"testing"
	"time"

	logx "tickd/pkg/logx"
)

func TestReportFailureKeepsBoundedHistory(t *testing.T) {
	t.Parallel()
	s := New(Config{HistorySize: 3}, logx.Nop())
	for i := 0; i < 5; i++ {
		s.ReportFailure(fmt.Sprintf("task-%d", i), errors.New("boom"), time.Unix(int64(i), 0))
	}

	recent := s.Recent(0)
	if len(recent) != 3 {
		t.Fatalf("history size = %d, want 3", len(recent))
	}
	// Newest first.
	if recent[0].Task != "task-4" || recent[2].Task != "task-2" {
		t.Fatalf("recent = %+v, want task-4..task-2 newest first", recent)
	}

	reported, _ := s.Counters()
	if reported != 5 {
		t.Fatalf("reported = %d, want 5 (ring eviction must not uncount)", reported)
	}
}

func TestReportFailureThrottlesLoggingOnly(t *testing.T) {
	t.Parallel()
	s := New(Config{RatePerSec: 1, HistorySize: 100}, logx.Nop())
	for i := 0; i < 10; i++ {
		s.ReportFailure("hot", errors.New("boom"), time.Now())
	}

	reported, throttled := s.Counters()
	if reported != 10 {
		t.Fatalf("reported = %d, want all 10", reported)
	}
	if throttled == 0 {
		t.Fatal("no reports throttled at 1/s with 10 rapid failures")
	}
	if got := len(s.Recent(0)); got != 10 {
		t.Fatalf("history = %d entries, want 10 (throttling must not drop entries)", got)
	}
}

func TestRecentLimit(t *testing.T) {
	t.Parallel()
	s := New(Config{}, logx.Nop())
	for i := 0; i < 4; i++ {
		s.ReportFailure(fmt.Sprintf("t%d", i), errors.New("x"), time.Now())
	}
	recent := s.Recent(2)
	if len(recent) != 2 || recent[0].Task != "t3" || recent[1].Task != "t2" {
		t.Fatalf("Recent(2) = %+v, want [t3 t2]", recent)
	}
}

func TestReportFailureNilError(t *testing.T) {
	t.Parallel()
	s := New(Config{}, logx.Nop())
	s.ReportFailure("odd", nil, time.Now())
	recent := s.Recent(1)
	if len(recent) != 1 || recent[0].Error != "" {
		t.Fatalf("recent = %+v, want one entry with empty error text", recent)
	}
}
