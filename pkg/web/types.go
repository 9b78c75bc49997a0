// Package web provides HTTP request and response types for the assignment API.
package web

import "github.com/edukit/assignflow/pkg/models"

// SaveAssignmentRequest is the body for creating or updating a draft. Drafts
// are deliberately permissive: only publish enforces content completeness.
type SaveAssignmentRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []QuestionRequest `json:"questions" validate:"dive"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
	Owner       string            `json:"owner"`
}

// QuestionRequest is a single question in a save or publish request.
type QuestionRequest struct {
	ID     string         `json:"id,omitempty"`
	Type   string         `json:"type"   validate:"required"`
	Prompt string         `json:"prompt"`
	Points int            `json:"points" validate:"gte=0"`
	Config map[string]any `json:"config"`
}

// ToPayload converts the request body into the service-layer payload.
func (r SaveAssignmentRequest) ToPayload() models.AssignmentPayload {
	questions := make([]*models.Question, 0, len(r.Questions))
	for _, q := range r.Questions {
		questions = append(questions, &models.Question{
			ID:     q.ID,
			Type:   q.Type,
			Prompt: q.Prompt,
			Points: q.Points,
			Config: q.Config,
		})
	}

	return models.AssignmentPayload{
		Title:       r.Title,
		Description: r.Description,
		Questions:   questions,
		Metadata:    r.Metadata,
		Owner:       r.Owner,
	}
}

// AssignmentResponse is the wire representation of an assignment. The id and
// status fields are what authoring clients adopt after each mutation.
type AssignmentResponse struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Status      models.AssignmentStatus `json:"status"`
	Questions   []*models.Question      `json:"questions"`
	Metadata    map[string]any          `json:"metadata,omitempty"`
	Owner       string                  `json:"owner"`
	CreatedAt   string                  `json:"created_at"`
	UpdatedAt   string                  `json:"updated_at"`
	PublishedAt *string                 `json:"published_at,omitempty"`
}

// TransformAssignmentResponse converts a domain assignment for the wire.
func TransformAssignmentResponse(assignment *models.Assignment) AssignmentResponse {
	response := AssignmentResponse{
		ID:          assignment.ID,
		Title:       assignment.Title,
		Description: assignment.Description,
		Status:      assignment.Status,
		Questions:   assignment.Questions,
		Metadata:    assignment.Metadata,
		Owner:       assignment.Owner,
		CreatedAt:   assignment.CreatedAt.Format(timeFormat),
		UpdatedAt:   assignment.UpdatedAt.Format(timeFormat),
	}

	if assignment.PublishedAt != nil {
		publishedAt := assignment.PublishedAt.Format(timeFormat)
		response.PublishedAt = &publishedAt
	}

	return response
}

const timeFormat = "2006-01-02T15:04:05.000Z07:00"
