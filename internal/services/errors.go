package services

import "errors"

// Common service errors
var (
	// ErrInvalidArgument covers malformed counter names and formats, and
	// snapshots of a shape no differ is registered for.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict marks a counter create race the bounded retry could not
	// resolve. Transient; callers may retry the whole operation.
	ErrConflict = errors.New("conflicting concurrent write")
	// ErrUnavailable marks an unreachable or timed-out storage collaborator.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrInternal marks an unexpected diff or formatter failure. A bug, not
	// a user-facing condition.
	ErrInternal = errors.New("internal error")
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
)
