// Package history journals task executions to a local store. It records
// what already ran; pending tasks are never persisted.
package history

import (
	"context"
	"errors"
	"time"
)

var ErrDisabled = errors.New("history disabled")

// Config configures the journal.
//
// Driver values:
//   - "sqlite": SQLite database file
//   - "" or "none": journaling disabled
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Entry is one journaled task lifecycle event. Keep it compact and
// schema-stable.
type Entry struct {
	At       time.Time
	Task     string
	Event    string // "task.dispatched" | "task.completed" | "task.failed"
	Duration time.Duration
	Error    string
}

type Store interface {
	Append(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}
