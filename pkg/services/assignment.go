package services

import (
	"context"
	"fmt"
	"time"

	"github.com/edukit/assignflow/pkg/models"
	"github.com/edukit/assignflow/pkg/persistence"
	"github.com/google/uuid"
)

// Assignment provides CRUD operations over draft assignments.
type Assignment struct {
	persistence persistence.Persistence
}

// NewAssignment creates a new assignment service.
func NewAssignment(persistence persistence.Persistence) *Assignment {
	return &Assignment{
		persistence: persistence,
	}
}

// HealthCheck checks the health of the persistence layer.
func (a *Assignment) HealthCheck(ctx context.Context) (string, bool) {
	if a.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := a.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// FetchByID retrieves an assignment by its ID.
func (a *Assignment) FetchByID(ctx context.Context, id string) (*models.Assignment, error) {
	if id == "" {
		return nil, &ServiceError{Op: "FetchByID", Code: "invalid_request", Message: "assignment ID is required", Err: ErrInvalidRequest}
	}

	assignment, err := a.persistence.AssignmentRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}

	return assignment, nil
}

// List returns all assignments.
func (a *Assignment) List(ctx context.Context) ([]*models.Assignment, error) {
	assignments, err := a.persistence.AssignmentRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	return assignments, nil
}

// Create persists a new draft assignment from the submitted payload. Drafts
// are permissive: content completeness is only enforced at publish time.
func (a *Assignment) Create(ctx context.Context, payload models.AssignmentPayload) (*models.Assignment, error) {
	now := time.Now().UTC()

	assignment := &models.Assignment{
		ID:        uuid.New().String(),
		Status:    models.AssignmentStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	applyPayload(assignment, payload)

	if err := a.persistence.AssignmentRepository().Save(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	return assignment, nil
}

// Update modifies an existing draft assignment. Published assignments are
// immutable.
func (a *Assignment) Update(ctx context.Context, id string, payload models.AssignmentPayload) (*models.Assignment, error) {
	existing, err := a.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.Status == models.AssignmentStatusPublished {
		return nil, ErrCannotModifyPublished
	}

	applyPayload(existing, payload)
	existing.UpdatedAt = time.Now().UTC()

	if err := a.persistence.AssignmentRepository().Save(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}

	return existing, nil
}

// Delete removes an assignment by its ID.
func (a *Assignment) Delete(ctx context.Context, id string) error {
	if _, err := a.FetchByID(ctx, id); err != nil {
		return err
	}

	if err := a.persistence.AssignmentRepository().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	return nil
}

// applyPayload copies editable content onto the assignment and assigns IDs
// and positions to new questions.
func applyPayload(assignment *models.Assignment, payload models.AssignmentPayload) {
	assignment.Title = payload.Title
	assignment.Description = payload.Description
	assignment.Metadata = payload.Metadata

	if payload.Owner != "" {
		assignment.Owner = payload.Owner
	}

	questions := make([]*models.Question, 0, len(payload.Questions))

	for i, q := range payload.Questions {
		if q == nil {
			continue
		}

		question := *q
		if question.ID == "" {
			question.ID = uuid.New().String()
		}

		question.Position = i
		questions = append(questions, &question)
	}

	assignment.Questions = questions
}
