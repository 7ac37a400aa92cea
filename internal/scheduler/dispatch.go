package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"tickd/internal/eventbus"
	logx "tickd/pkg/logx"
)

// Bus event types published by the dispatcher.
const (
	EventDispatched = "task.dispatched"
	EventCompleted  = "task.completed"
	EventFailed     = "task.failed"
)

// TaskEvent is the bus payload for task lifecycle events.
type TaskEvent struct {
	Name     string
	At       time.Time
	Duration time.Duration
	Priority int
	Error    string
}

// FailureReporter receives task execution failures. Implementations must be
// safe for concurrent use; they are called from per-task goroutines.
type FailureReporter interface {
	ReportFailure(task string, err error, occurredAt time.Time)
}

// FailureReporterFunc adapts a function to FailureReporter.
type FailureReporterFunc func(task string, err error, occurredAt time.Time)

func (f FailureReporterFunc) ReportFailure(task string, err error, occurredAt time.Time) {
	f(task, err, occurredAt)
}

// dispatcher starts one goroutine per due task. A failing or blocking task
// can never stall the loop or a sibling run.
type dispatcher struct {
	log      logx.Logger
	bus      eventbus.Bus
	reporter FailureReporter

	wg       sync.WaitGroup
	inFlight atomic.Int64
	runs     atomic.Uint64
	failures atomic.Uint64
}

// dispatch hands off the due set in selector order. Each run is entered
// only after the previous run has been entered, which preserves the
// dispatch-order guarantee without coupling completions: a run that blocks
// forever delays nothing but its own goroutine.
func (d *dispatcher) dispatch(ctx context.Context, due []Task) {
	var gate chan struct{}
	for _, t := range due {
		prev := gate
		entered := make(chan struct{})
		gate = entered
		d.wg.Add(1)
		d.inFlight.Add(1)
		go func(t Task, prev, entered chan struct{}) {
			defer d.wg.Done()
			defer d.inFlight.Add(-1)
			if prev != nil {
				<-prev
			}
			d.runOne(ctx, t, entered)
		}(t, prev, entered)
	}
}

func (d *dispatcher) runOne(ctx context.Context, t Task, entered chan struct{}) {
	start := time.Now()
	d.runs.Add(1)
	d.log.Debug("task dispatched", logx.String("task", t.Name), logx.Int("priority", t.Priority))
	if d.bus != nil {
		d.bus.Publish(eventbus.Event{
			Type: EventDispatched,
			Time: start,
			Data: TaskEvent{Name: t.Name, At: start, Priority: t.Priority},
		})
	}

	var err error
	func() {
		// Panics are converted to errors so one bad task cannot take down
		// the scheduler or any sibling run.
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
				d.log.Error("task panicked",
					logx.String("task", t.Name),
					logx.Any("panic", r),
					logx.String("stack", string(debug.Stack())))
			}
		}()
		close(entered)
		err = t.Action(ctx)
	}()

	dur := time.Since(start)
	if err != nil {
		d.failures.Add(1)
		occurred := time.Now()
		d.log.Warn("task failed", logx.String("task", t.Name), logx.Any("err", err), logx.Duration("dur", dur))
		if d.reporter != nil {
			d.reporter.ReportFailure(t.Name, err, occurred)
		}
		if d.bus != nil {
			d.bus.Publish(eventbus.Event{
				Type: EventFailed,
				Time: occurred,
				Data: TaskEvent{Name: t.Name, At: start, Duration: dur, Priority: t.Priority, Error: err.Error()},
			})
		}
		return
	}

	d.log.Debug("task completed", logx.String("task", t.Name), logx.Duration("dur", dur))
	if d.bus != nil {
		d.bus.Publish(eventbus.Event{
			Type: EventCompleted,
			Time: time.Now(),
			Data: TaskEvent{Name: t.Name, At: start, Duration: dur, Priority: t.Priority},
		})
	}
}
