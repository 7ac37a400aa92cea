// Package notifier implements the scheduler's failure-reporting
// collaborator: failures are logged, counted, and kept in a bounded ring
// for status output. Reporting never blocks and never fails.
package notifier

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	logx "tickd/pkg/logx"
)

type Config struct {
	// RatePerSec caps failure log lines per second so a hot-failing
	// recurring task cannot flood the log. Default 5.
	RatePerSec int
	// HistorySize bounds the in-memory ring of recent failures. Default 100.
	HistorySize int
}

// Failure is one reported task failure.
type Failure struct {
	Task       string
	Error      string
	OccurredAt time.Time
}

type Service struct {
	log logx.Logger

	mu        sync.Mutex
	cfg       Config
	limiter   *rate.Limiter
	history   []Failure
	reported  uint64
	throttled uint64
}

func New(cfg Config, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Service{log: log}
	s.Apply(cfg)
	return s
}

// Apply updates throttling knobs at runtime.
func (s *Service) Apply(cfg Config) {
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 5
	}
	s.mu.Lock()
	s.cfg = cfg
	s.limiter = rate.NewLimiter(rate.Limit(rps), rps)
	s.mu.Unlock()
}

// ReportFailure records a task failure. Throttled reports still count and
// still land in the ring; only the log line is suppressed.
func (s *Service) ReportFailure(task string, err error, occurredAt time.Time) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}

	s.mu.Lock()
	s.reported++
	s.history = append(s.history, Failure{Task: task, Error: msg, OccurredAt: occurredAt})
	size := s.cfg.HistorySize
	if size <= 0 {
		size = 100
	}
	if len(s.history) > size {
		s.history = s.history[len(s.history)-size:]
	}
	allowed := s.limiter.Allow()
	if !allowed {
		s.throttled++
	}
	s.mu.Unlock()

	if allowed {
		s.log.Error("task failure reported",
			logx.String("task", task),
			logx.Any("err", err),
			logx.Time("occurred_at", occurredAt))
	}
}

// Recent returns up to limit most recent failures, newest first.
func (s *Service) Recent(limit int) []Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.history)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Failure, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.history[i])
	}
	return out
}

// Counters reports total and throttled failure counts.
func (s *Service) Counters() (reported, throttled uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reported, s.throttled
}
