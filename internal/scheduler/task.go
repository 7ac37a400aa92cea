package scheduler

import (
	"context"
	"time"
)

// Mode selects what happens to a task after it fires.
type Mode int

const (
	// OneShot tasks run once and are removed from the registry when they fire.
	OneShot Mode = iota
	// Recurring tasks re-fire every Interval until removed explicitly.
	Recurring
)

func (m Mode) String() string {
	switch m {
	case OneShot:
		return "one_shot"
	case Recurring:
		return "recurring"
	default:
		return "unknown"
	}
}

// Action is the unit of work a task performs. The scheduler never inspects
// it; it only invokes it and captures the result. The context is the one
// the loop was started with; the scheduler imposes no deadline of its own.
type Action func(ctx context.Context) error

// TaskSpec describes a task to register.
type TaskSpec struct {
	Name     string
	Action   Action
	FirstRun time.Time
	Mode     Mode
	Interval time.Duration // required > 0 for Recurring, ignored for OneShot
	Priority int           // lower dispatches earlier within a tick; default 0
}

// Task is a registered task as seen through registry snapshots. Snapshots
// are value copies; mutating one never affects the registry.
type Task struct {
	Name     string
	Action   Action
	NextRun  time.Time
	Mode     Mode
	Interval time.Duration
	Priority int

	seq uint64 // registry insertion order; breaks remaining dispatch-order ties
}
