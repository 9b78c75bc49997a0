// Package services provides assignment publishing with content validation.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/edukit/assignflow/pkg/models"
	"github.com/edukit/assignflow/pkg/persistence"
	"github.com/xeipuuv/gojsonschema"
)

// Publishing handles the one-way draft to published transition.
type Publishing struct {
	persistence persistence.Persistence
}

// NewPublishing creates a new publishing service.
func NewPublishing(persistence persistence.Persistence) *Publishing {
	return &Publishing{
		persistence: persistence,
	}
}

// Publish applies the final payload, validates the assignment is complete
// and flips its status to published. Published assignments never revert.
func (p *Publishing) Publish(ctx context.Context, id string, payload models.AssignmentPayload) (*models.Assignment, error) {
	if id == "" {
		return nil, &ServiceError{Op: "Publish", Code: "invalid_request", Message: "assignment ID is required", Err: ErrInvalidRequest}
	}

	assignment, err := p.persistence.AssignmentRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}

	if assignment.Status == models.AssignmentStatusPublished {
		return nil, ErrAlreadyPublished
	}

	applyPayload(assignment, payload)

	if errs := validateForPublishing(assignment); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	now := time.Now().UTC()
	assignment.Status = models.AssignmentStatusPublished
	assignment.UpdatedAt = now
	assignment.PublishedAt = &now

	if err := p.persistence.AssignmentRepository().Save(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to save published assignment: %w", err)
	}

	return assignment, nil
}

// questionSchemas maps question types to the JSON schema their config must
// satisfy at publish time.
var questionSchemas = map[string]map[string]any{
	"multiple_choice": {
		"type":     "object",
		"required": []any{"choices", "answer"},
		"properties": map[string]any{
			"choices": map[string]any{"type": "array", "minItems": 2},
			"answer":  map[string]any{"type": "integer", "minimum": 0},
		},
	},
	"true_false": {
		"type":     "object",
		"required": []any{"answer"},
		"properties": map[string]any{
			"answer": map[string]any{"type": "boolean"},
		},
	},
	"short_answer": {
		"type": "object",
		"properties": map[string]any{
			"answer": map[string]any{"type": "string"},
		},
	},
	"essay": {
		"type": "object",
	},
}

// validateForPublishing checks that an assignment is complete enough to be
// seen by students. Every problem is reported, not just the first.
func validateForPublishing(assignment *models.Assignment) []models.ValidationError {
	var errs []models.ValidationError

	if assignment.Title == "" {
		errs = append(errs, models.NewFieldError("title", "Title is required"))
	}

	if len(assignment.Questions) == 0 {
		errs = append(errs, models.NewFieldError("questions", "At least one question is required"))
	}

	for _, question := range assignment.Questions {
		errs = append(errs, validateQuestion(question)...)
	}

	return errs
}

func validateQuestion(question *models.Question) []models.ValidationError {
	var errs []models.ValidationError

	if question.Prompt == "" {
		errs = append(errs, models.NewQuestionError(question.ID, "Prompt is required"))
	}

	if question.Points < 0 {
		errs = append(errs, models.NewQuestionError(question.ID, "Points cannot be negative"))
	}

	schema, ok := questionSchemas[question.Type]
	if !ok {
		errs = append(errs, models.NewQuestionError(question.ID, fmt.Sprintf("Unknown question type %q", question.Type)))

		return errs
	}

	config := question.Config
	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(config))
	if err != nil {
		errs = append(errs, models.NewQuestionError(question.ID, "Invalid question configuration"))

		return errs
	}

	if !result.Valid() {
		for _, desc := range result.Errors() {
			errs = append(errs, models.NewQuestionError(question.ID, "Invalid configuration: "+desc.String()))
		}
	}

	return errs
}
