// Package workflow implements the draft/publish orchestration engine for
// assignment authoring sessions.
package workflow

import (
	"time"

	"github.com/edukit/assignflow/pkg/models"
)

// EntityRef tracks whether the assignment has a remote identity yet. The
// zero value is Unsaved.
type EntityRef struct {
	id string
}

// Unsaved returns a reference with no remote identity.
func Unsaved() EntityRef {
	return EntityRef{}
}

// Saved returns a reference bound to a remote assignment ID.
func Saved(id string) EntityRef {
	return EntityRef{id: id}
}

// ID returns the remote assignment ID and whether one has been assigned.
func (r EntityRef) ID() (string, bool) {
	return r.id, r.id != ""
}

// IsSaved reports whether the assignment exists remotely.
func (r EntityRef) IsSaved() bool {
	return r.id != ""
}

// State is an immutable snapshot of one authoring session's workflow state.
// Derived flags are computed from the raw fields on every read and never
// cached.
type State struct {
	Entity           EntityRef
	Status           models.AssignmentStatus
	IsSaving         bool
	IsPublishing     bool
	Error            string
	ValidationErrors []models.ValidationError
	LastSavedAt      *time.Time
	PublishedAt      *time.Time
}

// CanEdit reports whether the assignment content may still change.
func (s State) CanEdit() bool {
	return s.Status == models.AssignmentStatusDraft
}

// CanPublish reports whether a publish may be initiated: drafts only, and
// never while a publish is already in flight.
func (s State) CanPublish() bool {
	return s.Status == models.AssignmentStatusDraft && !s.IsPublishing
}

// IsLoading reports whether any remote call is in flight.
func (s State) IsLoading() bool {
	return s.IsSaving || s.IsPublishing
}
