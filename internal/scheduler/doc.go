// Package scheduler provides an in-process task scheduler: a registry of
// deferred and repeating tasks plus a polling loop that dispatches each task
// at its due time.
//
// # Model
//
// Tasks are registered under a unique name with an absolute first run time,
// a mode (one-shot or recurring), an optional interval, and a priority.
// The loop ticks at a fixed poll interval. Each tick takes the registry
// lock once, computes the due set, applies the schedule bookkeeping
// (one-shot removal, recurring advance), releases the lock, and hands the
// due set to the dispatcher.
//
// # Dispatch
//
// Every due task runs in its own goroutine. Within one tick, runs are
// entered in ascending (priority, next run time, insertion order); nothing
// is guaranteed about completion order. Errors and panics are captured per
// task and forwarded to the failure reporter; they never reach the loop or
// sibling runs.
//
// # Recurring advance
//
// A recurring task that fires late is advanced by whole intervals until its
// next run time is strictly in the future. A stalled loop therefore never
// replays missed intervals in a burst, and the cadence stays anchored to
// the original schedule rather than drifting with "now".
//
// # Limitations
//
// Pending tasks are not persisted, and a running action cannot be cancelled
// or timed out by the scheduler itself; actions that need a deadline should
// derive one from the context they receive.
package scheduler
