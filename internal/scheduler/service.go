package scheduler

import (
	"context"
	"sync"
	"time"

	"tickd/internal/eventbus"
	logx "tickd/pkg/logx"
)

// Config controls the scheduler loop.
type Config struct {
	// PollInterval is the sleep between ticks. Zero means the 1s default.
	PollInterval time.Duration
}

const defaultPollInterval = time.Second

// Service drives the tick loop: sleep PollInterval, collect the due set
// (mutating the registry under its lock), then hand off to the dispatcher.
//
// Start while running is a no-op, as is Stop while stopped. Stop takes
// effect at the next tick boundary and never cancels in-flight runs.
type Service struct {
	mu  sync.Mutex
	cfg Config

	log logx.Logger

	registry *Registry
	disp     *dispatcher

	stopCh chan struct{}
	wg     sync.WaitGroup

	now func() time.Time
}

func New(cfg Config, reporter FailureReporter, log logx.Logger, bus eventbus.Bus) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		cfg:      cfg,
		log:      log,
		registry: NewRegistry(),
		disp:     &dispatcher{log: log, bus: bus, reporter: reporter},
		now:      time.Now,
	}
}

// Registry exposes the underlying task registry.
func (s *Service) Registry() *Registry { return s.registry }

// AddTask registers a task. Safe to call whether or not the loop is running.
func (s *Service) AddTask(spec TaskSpec) error { return s.registry.Add(spec) }

// RemoveTask removes a task by name and reports whether it was found.
// Safe to call whether or not the loop is running.
func (s *Service) RemoveTask(name string) bool { return s.registry.Remove(name) }

// Apply updates the loop configuration. A changed poll interval takes
// effect on the next tick.
func (s *Service) Apply(cfg Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// Running reports whether the loop is currently started.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopCh != nil
}

// Start spawns the tick loop. Calling Start while already running is a
// no-op.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		return
	}
	stopCh := make(chan struct{})
	s.stopCh = stopCh
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx, stopCh)
	}()
	s.log.Info("scheduler started", logx.Duration("poll_interval", s.pollIntervalLocked()))
}

// Stop halts new dispatch at the next tick boundary. Runs already handed to
// the dispatcher continue to completion; use WaitIdle to join them.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	stopCh := s.stopCh
	s.stopCh = nil
	s.mu.Unlock()
	if stopCh == nil {
		return
	}
	close(stopCh)
	s.wg.Wait()
	s.log.Info("scheduler stopped")
}

// WaitIdle blocks until all in-flight runs finish or ctx is done. Intended
// for shutdown and tests; it does not prevent new dispatch.
func (s *Service) WaitIdle(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.disp.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (s *Service) run(ctx context.Context, stopCh chan struct{}) {
	for {
		timer := time.NewTimer(s.pollInterval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-stopCh:
			timer.Stop()
			return
		case <-timer.C:
		}
		s.tick(ctx, s.now())
	}
}

// tick is one cycle body: collect and mutate under the registry lock, then
// dispatch without holding it.
func (s *Service) tick(ctx context.Context, now time.Time) {
	due := s.registry.collectDue(now)
	if len(due) == 0 {
		return
	}
	s.log.Debug("tick", logx.Time("now", now), logx.Int("due", len(due)))
	s.disp.dispatch(ctx, due)
}

func (s *Service) pollInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pollIntervalLocked()
}

func (s *Service) pollIntervalLocked() time.Duration {
	if s.cfg.PollInterval > 0 {
		return s.cfg.PollInterval
	}
	return defaultPollInterval
}
