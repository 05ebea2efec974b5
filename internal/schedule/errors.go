package schedule

import (
	"errors"
	"fmt"
)

// ErrEmptyTaskSet is returned when Schedule is called with no tasks.
var ErrEmptyTaskSet = errors.New("schedule: task set is empty")

// DurationError reports a task whose duration is not a positive number of
// business days.
type DurationError struct {
	TaskID   string
	Duration int
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("schedule: task %q has invalid duration %d (must be at least 1 business day)", e.TaskID, e.Duration)
}

// DuplicateIDError reports two tasks sharing the same id.
type DuplicateIDError struct {
	TaskID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("schedule: duplicate task id %q", e.TaskID)
}

// DanglingDependencyError reports a dependency reference to a task id that
// is not present in the set. Unknown references are errors, never silently
// dropped.
type DanglingDependencyError struct {
	TaskID       string
	DependencyID string
}

func (e *DanglingDependencyError) Error() string {
	return fmt.Sprintf("schedule: task %q depends on unknown task %q", e.TaskID, e.DependencyID)
}

// CycleError reports a dependency cycle, naming one task that is part of it.
type CycleError struct {
	TaskID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("schedule: dependency cycle detected involving task %q", e.TaskID)
}

// IsValidationError reports whether err is one of the scheduler's input
// validation failures, as opposed to an internal fault. Callers use this to
// map scheduling errors to a client-error response.
func IsValidationError(err error) bool {
	var de *DurationError
	var dup *DuplicateIDError
	var dde *DanglingDependencyError
	var ce *CycleError
	return errors.Is(err, ErrEmptyTaskSet) ||
		errors.As(err, &de) ||
		errors.As(err, &dup) ||
		errors.As(err, &dde) ||
		errors.As(err, &ce)
}
