package workflow

import (
	"context"
	"log/slog"
	"sync"

	"github.com/edukit/assignflow/pkg/models"
	"github.com/edukit/assignflow/pkg/remote"
)

// Blocked-publish messages surfaced without any network traffic.
const (
	msgAlreadyPublished = "This assignment has already been published."
	msgCannotPublish    = "Cannot publish at this time."
)

// Observer receives workflow outcomes. Callbacks run synchronously inside
// the method that produced the outcome, after state has been updated.
type Observer interface {
	OnSaveDraftSuccess(result *remote.MutationResult)
	OnPublishSuccess(result *remote.MutationResult)
	OnError(err *remote.Error)
}

// Orchestrator owns the only mutable copy of a session's workflow state and
// is its sole writer. One orchestrator per authoring session; safe for
// concurrent use.
//
// SaveDraft and Publish never propagate remote failures: every failure is
// classified, folded into state, reported to observers and swallowed.
type Orchestrator struct {
	mu        sync.Mutex
	state     State
	client    remote.Client
	observers []Observer
	logger    *slog.Logger
}

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithStatus seeds the initial lifecycle status. Defaults to draft.
func WithStatus(status models.AssignmentStatus) Option {
	return func(o *Orchestrator) {
		o.state.Status = status
	}
}

// WithAssignmentID seeds the remote identity when resuming an existing
// assignment.
func WithAssignmentID(id string) Option {
	return func(o *Orchestrator) {
		o.state.Entity = Saved(id)
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// NewOrchestrator creates an orchestrator for a fresh authoring session.
func NewOrchestrator(client remote.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client: client,
		state:  State{Status: models.AssignmentStatusDraft},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Subscribe registers an observer for subsequent outcomes.
func (o *Orchestrator) Subscribe(observer Observer) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.observers = append(o.observers, observer)
}

// State returns a snapshot of the current workflow state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.snapshot()
}

// snapshot copies the state, including the validation error slice so callers
// cannot alias the orchestrator's own copy. Callers must hold the lock.
func (o *Orchestrator) snapshot() State {
	out := o.state
	if o.state.ValidationErrors != nil {
		out.ValidationErrors = make([]models.ValidationError, len(o.state.ValidationErrors))
		copy(out.ValidationErrors, o.state.ValidationErrors)
	}

	return out
}

// SaveDraft persists the current content, creating the assignment on the
// first ever save and updating it thereafter. Returns the server response,
// or nil when the save failed or another call is already in flight.
func (o *Orchestrator) SaveDraft(ctx context.Context, payload models.AssignmentPayload) *remote.MutationResult {
	o.mu.Lock()

	if o.state.IsLoading() {
		o.mu.Unlock()
		o.logger.Warn("Rejected saveDraft: another call is in flight")

		return nil
	}

	// Stale errors never linger across a retry, even one that fails.
	o.state.Error = ""
	o.state.ValidationErrors = nil
	o.state.IsSaving = true
	entity := o.state.Entity
	o.mu.Unlock()

	var (
		result *remote.MutationResult
		err    error
	)

	if id, ok := entity.ID(); ok {
		result, err = o.client.Update(ctx, id, payload)
	} else {
		result, err = o.client.Create(ctx, payload)
	}

	if err != nil {
		o.settleFailure(err, func(s *State) { s.IsSaving = false })

		return nil
	}

	o.mu.Lock()
	o.state.IsSaving = false
	o.adoptSave(result)
	o.mu.Unlock()

	o.logger.Debug("Draft saved", "assignment_id", result.AssignmentID)
	o.notify(func(obs Observer) { obs.OnSaveDraftSuccess(result) })

	return result
}

// Publish transitions the assignment to published, creating it first when it
// has never been saved. Returns the server response, or nil when the publish
// was blocked or failed.
func (o *Orchestrator) Publish(ctx context.Context, payload models.AssignmentPayload) *remote.MutationResult {
	o.mu.Lock()

	if o.state.IsLoading() {
		o.mu.Unlock()
		o.logger.Warn("Rejected publish: another call is in flight")

		return nil
	}

	// The guard runs before error clearing so the blocked-publish message
	// persists as the latest error. No network traffic on a blocked call.
	if !o.state.CanPublish() {
		message := msgCannotPublish
		if o.state.Status == models.AssignmentStatusPublished {
			message = msgAlreadyPublished
		}

		o.state.Error = message
		o.mu.Unlock()

		o.logger.Warn("Rejected publish", "reason", message)
		o.notify(func(obs Observer) { obs.OnError(remote.Conflict(message)) })

		return nil
	}

	o.state.Error = ""
	o.state.ValidationErrors = nil
	o.state.IsPublishing = true
	entity := o.state.Entity
	o.mu.Unlock()

	id, ok := entity.ID()
	if !ok {
		created, err := o.client.Create(ctx, payload)
		if err != nil {
			o.settleFailure(err, func(s *State) { s.IsPublishing = false })

			return nil
		}

		o.mu.Lock()
		o.adoptSave(created)
		o.mu.Unlock()

		id = created.AssignmentID
	}

	result, err := o.client.Publish(ctx, id, payload)
	if err != nil {
		o.settleFailure(err, func(s *State) { s.IsPublishing = false })

		return nil
	}

	o.mu.Lock()
	o.state.IsPublishing = false
	o.state.Entity = Saved(result.AssignmentID)
	o.state.Status = result.Status
	o.state.PublishedAt = result.PublishedAt
	o.mu.Unlock()

	o.logger.Info("Assignment published", "assignment_id", result.AssignmentID)
	o.notify(func(obs Observer) { obs.OnPublishSuccess(result) })

	return result
}

// SetStatus overrides the lifecycle status unconditionally. Used to seed
// state loaded out-of-band; bypasses all guards.
func (o *Orchestrator) SetStatus(status models.AssignmentStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state.Status = status
}

// SetAssignmentID overrides the remote identity unconditionally. Used to
// seed state loaded out-of-band; bypasses all guards.
func (o *Orchestrator) SetAssignmentID(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state.Entity = Saved(id)
}

// ClearErrors resets both the entity-scoped error and the validation errors.
func (o *Orchestrator) ClearErrors() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state.Error = ""
	o.state.ValidationErrors = nil
}

// ClearFieldError dismisses the validation errors for one field or question
// without touching the rest or the entity-scoped error.
func (o *Orchestrator) ClearFieldError(field, questionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state.ValidationErrors = models.Without(o.state.ValidationErrors, field, questionID)
}

// adoptSave applies a create/update response. The response is authoritative:
// its status is trusted as-is even though saves semantically target drafts.
// Callers must hold the lock.
func (o *Orchestrator) adoptSave(result *remote.MutationResult) {
	o.state.Entity = Saved(result.AssignmentID)
	o.state.Status = result.Status
	savedAt := result.UpdatedAt
	o.state.LastSavedAt = &savedAt
}

// settleFailure classifies a remote failure, folds it into state and reports
// it to observers.
func (o *Orchestrator) settleFailure(err error, reset func(*State)) {
	classified := remote.Classify(err)

	o.mu.Lock()
	reset(&o.state)
	o.state.Error = classified.Message
	o.state.ValidationErrors = classified.Errors
	o.mu.Unlock()

	o.logger.Warn("Remote call failed", "kind", classified.Kind, "error", classified.Message)
	o.notify(func(obs Observer) { obs.OnError(classified) })
}

func (o *Orchestrator) notify(fn func(Observer)) {
	o.mu.Lock()
	observers := make([]Observer, len(o.observers))
	copy(observers, o.observers)
	o.mu.Unlock()

	for _, obs := range observers {
		fn(obs)
	}
}
