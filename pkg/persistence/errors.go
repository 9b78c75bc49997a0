// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrAssignmentNotFound indicates no assignment exists for the given identifier.
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrInvalidAssignmentStatus indicates an invalid lifecycle status was provided.
	ErrInvalidAssignmentStatus = errors.New("invalid assignment status")
)

// AssignmentError wraps assignment-related persistence errors with context.
type AssignmentError struct {
	Op           string // Operation being performed (e.g., "GetByID", "Save", "Delete")
	AssignmentID string
	Err          error
}

func (e *AssignmentError) Error() string {
	return fmt.Sprintf("%s operation failed for assignment %s: %v", e.Op, e.AssignmentID, e.Err)
}

func (e *AssignmentError) Unwrap() error {
	return e.Err
}

func (e *AssignmentError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewAssignmentError creates a new assignment error with context.
func NewAssignmentError(op, assignmentID string, err error) *AssignmentError {
	return &AssignmentError{
		Op:           op,
		AssignmentID: assignmentID,
		Err:          err,
	}
}

// IsAssignmentNotFound checks if an error indicates a missing assignment.
func IsAssignmentNotFound(err error) bool {
	return errors.Is(err, ErrAssignmentNotFound)
}
