package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func noopAction(context.Context) error { return nil }

func TestAddDuplicateNameFails(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	first := TaskSpec{Name: "a", Action: noopAction, FirstRun: time.Unix(100, 0)}
	if err := r.Add(first); err != nil {
		t.Fatalf("first Add error: %v", err)
	}

	dup := first
	dup.FirstRun = time.Unix(999, 0)
	err := r.Add(dup)
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("second Add error = %v, want ErrDuplicateName", err)
	}

	// The failed Add must not have mutated state.
	snap := r.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("registry size = %d, want 1", len(snap))
	}
	if !snap[0].NextRun.Equal(time.Unix(100, 0)) {
		t.Fatalf("NextRun = %v, want original %v", snap[0].NextRun, time.Unix(100, 0))
	}
}

func TestAddRecurringRequiresPositiveInterval(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	for _, iv := range []time.Duration{0, -time.Second} {
		err := r.Add(TaskSpec{Name: "r", Action: noopAction, Mode: Recurring, Interval: iv})
		if !errors.Is(err, ErrInvalidInterval) {
			t.Fatalf("interval %v: error = %v, want ErrInvalidInterval", iv, err)
		}
	}
	if r.Len() != 0 {
		t.Fatalf("registry size = %d, want 0", r.Len())
	}
}

func TestAddValidation(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	if err := r.Add(TaskSpec{Name: "  ", Action: noopAction}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("empty name error = %v, want ErrNameRequired", err)
	}
	if err := r.Add(TaskSpec{Name: "x"}); !errors.Is(err, ErrNilAction) {
		t.Fatalf("nil action error = %v, want ErrNilAction", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	if r.Remove("ghost") {
		t.Fatal("Remove of unknown name returned true")
	}
	if err := r.Add(TaskSpec{Name: "a", Action: noopAction}); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if !r.Remove("a") {
		t.Fatal("Remove of existing task returned false")
	}
	if r.Remove("a") {
		t.Fatal("second Remove returned true")
	}
}

func TestSnapshotIsInsertionOrderedCopy(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	for _, name := range []string{"c", "a", "b"} {
		if err := r.Add(TaskSpec{Name: name, Action: noopAction}); err != nil {
			t.Fatalf("Add(%q) error: %v", name, err)
		}
	}

	snap := r.Snapshot()
	got := []string{snap[0].Name, snap[1].Name, snap[2].Name}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snapshot order = %v, want %v", got, want)
		}
	}

	// Mutating the copy must not leak into the registry.
	snap[0].NextRun = time.Unix(12345, 0)
	if r.Snapshot()[0].NextRun.Equal(time.Unix(12345, 0)) {
		t.Fatal("snapshot mutation reached the registry")
	}
}

func TestApplyMutationsSkipsReplacedTasks(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	if err := r.Add(TaskSpec{Name: "a", Action: noopAction, FirstRun: time.Unix(10, 0)}); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	snap := r.Snapshot()
	_, muts := selectDue(snap, time.Unix(10, 0))
	if len(muts.removals) != 1 {
		t.Fatalf("removals = %d, want 1", len(muts.removals))
	}

	// Replace the task between selection and apply: the stale removal must
	// not delete the replacement.
	r.Remove("a")
	if err := r.Add(TaskSpec{Name: "a", Action: noopAction, FirstRun: time.Unix(99, 0)}); err != nil {
		t.Fatalf("re-Add error: %v", err)
	}
	r.applyMutations(muts)

	if r.Len() != 1 {
		t.Fatalf("registry size = %d, want 1 (replacement must survive)", r.Len())
	}
}
