// Package events defines event types for assignment lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Kafka topic for assignment lifecycle events.
const Topic = "assignflow.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	AssignmentCreatedEvent   EventType = "assignment.created"
	DraftSavedEvent          EventType = "assignment.draft.saved"
	AssignmentPublishedEvent EventType = "assignment.published"
	AssignmentDeletedEvent   EventType = "assignment.deleted"
)

type BaseEvent struct {
	ID           string         `json:"id"`
	Type         EventType      `json:"type"`
	Timestamp    time.Time      `json:"timestamp"`
	AssignmentID string         `json:"assignment_id"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent creates a base event with a fresh ID and timestamp.
func NewBaseEvent(eventType EventType, assignmentID string) BaseEvent {
	return BaseEvent{
		ID:           uuid.New().String(),
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		AssignmentID: assignmentID,
	}
}

type AssignmentCreated struct {
	BaseEvent

	Title string `json:"title"`
	Owner string `json:"owner,omitempty"`
}

func (e AssignmentCreated) GetType() EventType {
	return AssignmentCreatedEvent
}

type DraftSaved struct {
	BaseEvent

	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
}

func (e DraftSaved) GetType() EventType {
	return DraftSavedEvent
}

type AssignmentPublished struct {
	BaseEvent

	Title         string    `json:"title"`
	QuestionCount int       `json:"question_count"`
	PublishedAt   time.Time `json:"published_at"`
}

func (e AssignmentPublished) GetType() EventType {
	return AssignmentPublishedEvent
}

type AssignmentDeleted struct {
	BaseEvent
}

func (e AssignmentDeleted) GetType() EventType {
	return AssignmentDeletedEvent
}
