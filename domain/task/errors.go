package task

import "errors"

var (
	// ErrTaskNotFound indicates the task does not exist, belongs to another
	// owner, or is soft-deleted. The three causes are deliberately
	// indistinguishable to the caller.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTitleRequired indicates a create or update with an empty title.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidStatus indicates an unrecognized status value.
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrInvalidPriority indicates an unrecognized priority value.
	ErrInvalidPriority = errors.New("invalid task priority")
	// ErrImmutableField indicates an update tried to change id, owner_id or
	// created_at.
	ErrImmutableField = errors.New("field is immutable")
	// ErrInvalidPage indicates pagination parameters out of allowed range.
	ErrInvalidPage = errors.New("pagination out of range")
	// ErrOwnerRequired indicates an operation without an authenticated owner.
	ErrOwnerRequired = errors.New("owner id is required")
)
