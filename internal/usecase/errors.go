package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrSnapshotInvalid marks a provider payload that failed boundary
	// validation; the whole cycle aborts without partial writes.
	ErrSnapshotInvalid = errors.New("provider snapshot invalid")
	// ErrSyncInProgress is returned when a sync run finds a prior run for the
	// same tournament still in flight and skips itself.
	ErrSyncInProgress = errors.New("sync already in progress")
	// ErrGroupsLocked refuses group reassignment once picks exist.
	ErrGroupsLocked = errors.New("groups are locked")
)
