package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Registry is a thread-safe collection of tasks keyed by unique name.
//
// All operations are linearized by a single mutex. Callers may Add and
// Remove from any goroutine at any time, including while the loop is
// running; the loop's own bookkeeping happens under the same lock
// (collectDue), so external calls and tick mutations never interleave
// inconsistently.
type Registry struct {
	mu    sync.Mutex
	tasks map[string]*Task
	seq   uint64
}

func NewRegistry() *Registry {
	return &Registry{tasks: map[string]*Task{}}
}

// Add registers a new task. It fails without mutating state when the name
// is already present or when a recurring spec has a non-positive interval.
func (r *Registry) Add(spec TaskSpec) error {
	if strings.TrimSpace(spec.Name) == "" {
		return ErrNameRequired
	}
	if spec.Action == nil {
		return fmt.Errorf("task %q: %w", spec.Name, ErrNilAction)
	}
	if spec.Mode == Recurring && spec.Interval <= 0 {
		return fmt.Errorf("task %q: %w", spec.Name, ErrInvalidInterval)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[spec.Name]; ok {
		return fmt.Errorf("task %q: %w", spec.Name, ErrDuplicateName)
	}
	r.seq++
	r.tasks[spec.Name] = &Task{
		Name:     spec.Name,
		Action:   spec.Action,
		NextRun:  spec.FirstRun,
		Mode:     spec.Mode,
		Interval: spec.Interval,
		Priority: spec.Priority,
		seq:      r.seq,
	}
	return nil
}

// Remove deletes the task if present and reports whether it was found.
// Removing an unknown name is not an error.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tasks[name]
	if ok {
		delete(r.tasks, name)
	}
	return ok
}

// Len reports the number of registered tasks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// Snapshot returns value copies of all tasks in insertion order, safe to
// iterate without holding the registry lock.
func (r *Registry) Snapshot() []Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Registry) snapshotLocked() []Task {
	out := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// collectDue runs one tick's bookkeeping under a single lock acquisition:
// snapshot, select the due set, and apply the resulting mutations.
func (r *Registry) collectDue(now time.Time) []Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	due, muts := selectDue(r.snapshotLocked(), now)
	r.applyLocked(muts)
	return due
}

// applyMutations performs the removals and NextRun updates computed by a
// selection pass. Entries whose task was removed and re-registered since
// the snapshot (seq mismatch) are skipped rather than clobbering the new
// task.
func (r *Registry) applyMutations(muts mutations) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyLocked(muts)
}

func (r *Registry) applyLocked(muts mutations) {
	for _, rm := range muts.removals {
		if t, ok := r.tasks[rm.name]; ok && t.seq == rm.seq {
			delete(r.tasks, rm.name)
		}
	}
	for _, adv := range muts.advances {
		if t, ok := r.tasks[adv.name]; ok && t.seq == adv.seq {
			t.NextRun = adv.next
		}
	}
}
