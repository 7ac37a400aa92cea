package scheduler

import "errors"

var (
	// ErrDuplicateName is returned by Add when the name is already registered.
	// Callers must pick another name or remove the existing task first.
	ErrDuplicateName = errors.New("task name already registered")

	// ErrInvalidInterval is returned by Add when a recurring spec has a
	// non-positive interval.
	ErrInvalidInterval = errors.New("recurring task requires a positive interval")

	// ErrNameRequired is returned by Add for an empty task name.
	ErrNameRequired = errors.New("task name required")

	// ErrNilAction is returned by Add when no action is provided.
	ErrNilAction = errors.New("task action required")
)
