package task

import "errors"

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrNotOwner is returned when the requester does not own the task.
	ErrNotOwner = errors.New("not authorized")
	// ErrTitleRequired is returned when a task is created without a title.
	ErrTitleRequired = errors.New("task title is required")
	// ErrInvalidStatus is returned when a patch carries an unknown status.
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrInvalidUrgency is returned when a patch carries an unknown urgency.
	ErrInvalidUrgency = errors.New("invalid task urgency")
	// ErrInvalidCategory is returned when a patch carries an unknown category.
	ErrInvalidCategory = errors.New("invalid task category")
)
