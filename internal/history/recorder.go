package history

import (
	"context"
	"sync"

	"tickd/internal/eventbus"
	"tickd/internal/scheduler"
	logx "tickd/pkg/logx"
)

// Recorder subscribes to the event bus and journals task lifecycle events.
// It sits entirely downstream of dispatch: a slow or broken store can only
// ever lose journal entries, never block a task run.
type Recorder struct {
	store Store
	bus   eventbus.Bus
	log   logx.Logger

	mu    sync.Mutex
	unsub func()
	wg    sync.WaitGroup
}

func NewRecorder(store Store, bus eventbus.Bus, log logx.Logger) *Recorder {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Recorder{store: store, bus: bus, log: log}
}

// Start subscribes and begins journaling. Calling Start while running is a
// no-op.
func (r *Recorder) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unsub != nil {
		return
	}
	ch, unsub := r.bus.Subscribe(64)
	r.unsub = unsub
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.consume(ctx, ch)
	}()
}

// Stop unsubscribes and waits for the consumer to drain.
func (r *Recorder) Stop(ctx context.Context) {
	r.mu.Lock()
	unsub := r.unsub
	r.unsub = nil
	r.mu.Unlock()
	if unsub == nil {
		return
	}
	unsub()
	r.wg.Wait()
}

func (r *Recorder) consume(ctx context.Context, ch <-chan eventbus.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			te, ok := ev.Data.(scheduler.TaskEvent)
			if !ok {
				continue
			}
			entry := Entry{
				At:       ev.Time,
				Task:     te.Name,
				Event:    ev.Type,
				Duration: te.Duration,
				Error:    te.Error,
			}
			if err := r.store.Append(ctx, entry); err != nil {
				r.log.Warn("history append failed", logx.String("task", te.Name), logx.Any("err", err))
			}
		}
	}
}
