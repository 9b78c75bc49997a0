// Package models defines the core domain models for assignment authoring.
package models

import "time"

// AssignmentStatus represents the lifecycle state of an assignment.
type AssignmentStatus string

const (
	AssignmentStatusDraft     AssignmentStatus = "draft"     // Editable, not visible to consumers
	AssignmentStatusPublished AssignmentStatus = "published" // Visible, no longer editable
)

// Valid reports whether the status is a known lifecycle state.
func (s AssignmentStatus) Valid() bool {
	return s == AssignmentStatusDraft || s == AssignmentStatusPublished
}

// Assignment represents an authored assignment with its draft/publish lifecycle.
type Assignment struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"       validate:"required,min=1"`
	Description string           `json:"description"`
	Status      AssignmentStatus `json:"status"      validate:"required"`
	Questions   []*Question      `json:"questions"`
	Metadata    map[string]any   `json:"metadata,omitempty"`
	Owner       string           `json:"owner"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	PublishedAt *time.Time       `json:"published_at,omitempty"`
}

// Question is a single sub-item of an assignment. Config holds the
// type-specific content (choices, answer key, rubric) and is validated
// against the question type's schema at publish time.
type Question struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"   validate:"required"`
	Prompt   string         `json:"prompt"`
	Points   int            `json:"points"`
	Config   map[string]any `json:"config"`
	Position int            `json:"position"`
}

// AssignmentPayload is the editable content submitted by save and publish
// operations. Identity and lifecycle fields are managed server-side.
type AssignmentPayload struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Questions   []*Question    `json:"questions"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Owner       string         `json:"owner"`
}
