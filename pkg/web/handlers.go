// Package web provides the REST handlers for assignment authoring.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/edukit/assignflow/pkg/eventbus"
	"github.com/edukit/assignflow/pkg/events"
	"github.com/edukit/assignflow/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	assignmentService *services.Assignment
	publishingService *services.Publishing
	validator         *validator.Validate
	eventBus          eventbus.EventBus
	logger            *slog.Logger
}

func NewAPIHandlers(
	assignmentService *services.Assignment,
	publishingService *services.Publishing,
	validator *validator.Validate,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		assignmentService: assignmentService,
		publishingService: publishingService,
		validator:         validator,
		eventBus:          eventBus,
		logger:            logger,
	}
}

func (h *APIHandlers) ListAssignments(c fiber.Ctx) error {
	assignments, err := h.assignmentService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, TransformAssignmentResponse(assignment))
	}

	return c.JSON(fiber.Map{
		"assignments": responses,
		"total_count": len(responses),
	})
}

func (h *APIHandlers) GetAssignment(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Assignment ID is required")
	}

	assignment, err := h.assignmentService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformAssignmentResponse(assignment))
}

func (h *APIHandlers) CreateAssignment(c fiber.Ctx) error {
	var req SaveAssignmentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.assignmentService.Create(c.Context(), req.ToPayload())
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c.Context(), created.ID, events.AssignmentCreated{
		BaseEvent: events.NewBaseEvent(events.AssignmentCreatedEvent, created.ID),
		Title:     created.Title,
		Owner:     created.Owner,
	})

	return c.Status(fiber.StatusCreated).JSON(TransformAssignmentResponse(created))
}

func (h *APIHandlers) UpdateAssignment(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Assignment ID is required")
	}

	var req SaveAssignmentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.assignmentService.Update(c.Context(), id, req.ToPayload())
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c.Context(), updated.ID, events.DraftSaved{
		BaseEvent:     events.NewBaseEvent(events.DraftSavedEvent, updated.ID),
		Title:         updated.Title,
		QuestionCount: len(updated.Questions),
	})

	return c.JSON(TransformAssignmentResponse(updated))
}

func (h *APIHandlers) PublishAssignment(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Assignment ID is required")
	}

	var req SaveAssignmentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	published, err := h.publishingService.Publish(c.Context(), id, req.ToPayload())
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c.Context(), published.ID, events.AssignmentPublished{
		BaseEvent:     events.NewBaseEvent(events.AssignmentPublishedEvent, published.ID),
		Title:         published.Title,
		QuestionCount: len(published.Questions),
		PublishedAt:   *published.PublishedAt,
	})

	return c.JSON(TransformAssignmentResponse(published))
}

func (h *APIHandlers) DeleteAssignment(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Assignment ID is required")
	}

	if err := h.assignmentService.Delete(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c.Context(), id, events.AssignmentDeleted{
		BaseEvent: events.NewBaseEvent(events.AssignmentDeletedEvent, id),
	})

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.assignmentService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Assignflow API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Assignflow API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// publishEvent emits a lifecycle event. Event delivery failures are logged
// and never fail the request.
func (h *APIHandlers) publishEvent(ctx context.Context, key string, event eventbus.Event) {
	if h.eventBus == nil {
		return
	}

	if err := h.eventBus.Publish(ctx, key, event); err != nil {
		h.logger.WarnContext(ctx, "failed to publish event",
			"event_type", string(event.GetType()),
			"assignment_id", key,
			"error", err)
	}
}
