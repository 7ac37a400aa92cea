package scheduler

import (
	"sort"
	"time"
)

// mutations is the schedule bookkeeping produced by one selection pass:
// one-shot tasks that fired are removed, recurring tasks that fired have
// their NextRun advanced.
type mutations struct {
	removals []taskRef
	advances []advance
}

type taskRef struct {
	name string
	seq  uint64
}

type advance struct {
	name string
	seq  uint64
	next time.Time
}

// selectDue computes the set of tasks due at now, in dispatch order, along
// with the post-dispatch schedule mutations. It performs no I/O and never
// invokes task actions.
//
// Dispatch order: ascending priority, then earliest NextRun, then insertion
// order (stable). The order covers dispatch only; nothing is implied about
// when each task's work finishes.
func selectDue(tasks []Task, now time.Time) ([]Task, mutations) {
	var due []Task
	for _, t := range tasks {
		if !t.NextRun.After(now) {
			due = append(due, t)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].Priority != due[j].Priority {
			return due[i].Priority < due[j].Priority
		}
		if !due[i].NextRun.Equal(due[j].NextRun) {
			return due[i].NextRun.Before(due[j].NextRun)
		}
		return due[i].seq < due[j].seq
	})

	var muts mutations
	for _, t := range due {
		switch t.Mode {
		case Recurring:
			// Advance by whole intervals until strictly in the future. A loop
			// stalled past several intervals fires the task once and lands
			// back on its original cadence; the base is always the previous
			// NextRun, never "now", so the schedule does not drift.
			next := t.NextRun
			for !next.After(now) {
				next = next.Add(t.Interval)
			}
			muts.advances = append(muts.advances, advance{name: t.Name, seq: t.seq, next: next})
		default:
			muts.removals = append(muts.removals, taskRef{name: t.Name, seq: t.seq})
		}
	}
	return due, muts
}
