package remote

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/edukit/assignflow/pkg/models"
)

// Kind is the closed taxonomy of classified remote failures.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindBadRequest      Kind = "bad_request"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindServerError     Kind = "server_error"
	KindNetworkError    Kind = "network_error"
	KindTimeout         Kind = "timeout"
	KindUnknown         Kind = "unknown"
)

// Default human-readable messages per kind. A body-supplied message always
// takes precedence.
const (
	MsgValidation      = "Validation failed. Please fix the errors and try again."
	MsgBadRequest      = "Invalid request. Please check your input and try again."
	MsgUnauthenticated = "Your session has expired. Please sign in again."
	MsgForbidden       = "You do not have permission to perform this action."
	MsgNotFound        = "Assignment not found."
	MsgConflict        = "This assignment has already been published."
	MsgServerError     = "Something went wrong on our end. Please try again later."
	MsgNetworkError    = "Network error. Please check your connection and try again."
	MsgTimeout         = "Request timed out. Please try again."
	MsgUnknown         = "An unexpected error occurred."
)

// Error is a classified remote failure. Errors is populated only for
// KindValidation; Code and StatusCode are raw metadata carried through from
// the response and never influence the kind.
type Error struct {
	Kind       Kind
	Message    string
	Code       string
	StatusCode int
	Errors     []models.ValidationError
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Conflict synthesizes a conflict error without a backing response. The
// orchestrator uses it when a publish is blocked before any network traffic.
func Conflict(message string) *Error {
	if message == "" {
		message = MsgConflict
	}

	return &Error{Kind: KindConflict, Message: message, StatusCode: http.StatusConflict}
}

// Classify maps a transport outcome to exactly one member of the closed
// taxonomy. Pure and deterministic; already-classified errors pass through.
func Classify(err error) *Error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, ErrTimedOut) {
		return &Error{Kind: KindTimeout, Message: MsgTimeout}
	}

	if errors.Is(err, ErrNetworkUnreachable) {
		return &Error{Kind: KindNetworkError, Message: MsgNetworkError}
	}

	var status *StatusError
	if errors.As(err, &status) {
		return classifyStatus(status)
	}

	return &Error{Kind: KindUnknown, Message: MsgUnknown}
}

func classifyStatus(status *StatusError) *Error {
	out := &Error{StatusCode: status.StatusCode}
	if status.Body != nil {
		out.Code = status.Body.Code
	}

	// A non-empty validation-errors array wins regardless of status code.
	if status.Body != nil && len(status.Body.Errors) > 0 {
		out.Kind = KindValidation
		out.Message = MsgValidation
		out.Errors = status.Body.Errors

		return overrideMessage(out, status)
	}

	switch {
	case status.StatusCode == http.StatusBadRequest:
		out.Kind = KindBadRequest
		out.Message = MsgBadRequest
	case status.StatusCode == http.StatusUnauthorized:
		out.Kind = KindUnauthenticated
		out.Message = MsgUnauthenticated
	case status.StatusCode == http.StatusForbidden:
		out.Kind = KindForbidden
		out.Message = MsgForbidden
	case status.StatusCode == http.StatusNotFound:
		out.Kind = KindNotFound
		out.Message = MsgNotFound
	case status.StatusCode == http.StatusConflict:
		out.Kind = KindConflict
		out.Message = MsgConflict
	case status.StatusCode == http.StatusUnprocessableEntity:
		out.Kind = KindValidation
		out.Message = MsgValidation
	case status.StatusCode >= 500 && status.StatusCode <= 599:
		out.Kind = KindServerError
		out.Message = MsgServerError
	default:
		out.Kind = KindUnknown
		out.Message = MsgUnknown
	}

	return overrideMessage(out, status)
}

func overrideMessage(out *Error, status *StatusError) *Error {
	if msg := status.Body.text(); msg != "" {
		out.Message = msg
	}

	return out
}
