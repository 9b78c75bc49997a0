// Package services provides the business logic for assignment authoring and
// publishing, with standardized error types for the API layer.
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/edukit/assignflow/pkg/models"
	"github.com/edukit/assignflow/pkg/persistence"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	// ErrInvalidRequest indicates malformed input (400 Bad Request).
	ErrInvalidRequest = errors.New("invalid request")

	// Business logic conflicts (409 Conflict).
	ErrAlreadyPublished      = errors.New("assignment has already been published")
	ErrCannotModifyPublished = errors.New("cannot modify published assignment")
)

// ErrAssignmentNotFound is returned when an assignment is not found.
var ErrAssignmentNotFound = persistence.ErrAssignmentNotFound

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// ValidationFailedError carries the structured, scoped validation errors
// produced by publish validation. The API layer renders it as a 422 with the
// full error list.
type ValidationFailedError struct {
	Errors []models.ValidationError
}

func (e *ValidationFailedError) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, v := range e.Errors {
		messages = append(messages, v.Message)
	}

	return "validation failed: " + strings.Join(messages, "; ")
}

// AsValidationFailed extracts a ValidationFailedError from an error chain.
func AsValidationFailed(err error) (*ValidationFailedError, bool) {
	var failed *ValidationFailedError
	ok := errors.As(err, &failed)

	return failed, ok
}

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}

// IsConflictError checks if an error should map to HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyPublished) ||
		errors.Is(err, ErrCannotModifyPublished)
}

// IsNotFoundError checks if an error should map to HTTP 404.
func IsNotFoundError(err error) bool {
	return persistence.IsAssignmentNotFound(err)
}
