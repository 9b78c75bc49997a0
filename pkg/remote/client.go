// Package remote defines the contract with the assignment API and the
// classification of its failures into a closed error taxonomy.
package remote

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/edukit/assignflow/pkg/models"
)

// MutationResult is the authoritative server response to a create, update or
// publish mutation. The orchestrator adopts its fields as-is.
type MutationResult struct {
	AssignmentID string                  `json:"id"`
	Status       models.AssignmentStatus `json:"status"`
	UpdatedAt    time.Time               `json:"updated_at"`
	PublishedAt  *time.Time              `json:"published_at,omitempty"`
}

// Client is the remote mutation surface consumed by the workflow engine.
// Transport details (retries, auth) live behind this interface.
type Client interface {
	Create(ctx context.Context, payload models.AssignmentPayload) (*MutationResult, error)
	Update(ctx context.Context, id string, payload models.AssignmentPayload) (*MutationResult, error)
	Publish(ctx context.Context, id string, payload models.AssignmentPayload) (*MutationResult, error)
	Load(ctx context.Context, id string) (*models.Assignment, error)
}

// Transport-level failure signals. HTTP client implementations wrap the
// underlying error with one of these so the classifier stays transport
// agnostic.
var (
	ErrNetworkUnreachable = errors.New("network unreachable")
	ErrTimedOut           = errors.New("request timed out")
)

// ErrorBody is the structured failure body returned by the API: an RFC 7807
// style document extended with a machine code and scoped validation errors.
type ErrorBody struct {
	Code    string                   `json:"code,omitempty"`
	Message string                   `json:"message,omitempty"`
	Detail  string                   `json:"detail,omitempty"`
	Errors  []models.ValidationError `json:"errors,omitempty"`
}

// text returns the human-readable message, preferring the explicit message
// field over the RFC 7807 detail.
func (b *ErrorBody) text() string {
	if b == nil {
		return ""
	}

	if b.Message != "" {
		return b.Message
	}

	return b.Detail
}

// StatusError is a non-2xx response from the API, before classification.
type StatusError struct {
	StatusCode int
	Body       *ErrorBody
}

func (e *StatusError) Error() string {
	if msg := e.Body.text(); msg != "" {
		return msg
	}

	return "remote call failed with status " + strconv.Itoa(e.StatusCode)
}
