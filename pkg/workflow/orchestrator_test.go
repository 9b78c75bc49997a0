package workflow_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/edukit/assignflow/pkg/models"
	"github.com/edukit/assignflow/pkg/remote"
	"github.com/edukit/assignflow/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is a hand-rolled remote.Client double. Unset functions succeed
// with canned results.
type fakeClient struct {
	mu           sync.Mutex
	createCalls  int
	updateCalls  int
	publishCalls int

	createFn  func(payload models.AssignmentPayload) (*remote.MutationResult, error)
	updateFn  func(id string, payload models.AssignmentPayload) (*remote.MutationResult, error)
	publishFn func(id string, payload models.AssignmentPayload) (*remote.MutationResult, error)
}

var savedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func (f *fakeClient) Create(_ context.Context, payload models.AssignmentPayload) (*remote.MutationResult, error) {
	f.mu.Lock()
	f.createCalls++
	fn := f.createFn
	f.mu.Unlock()

	if fn != nil {
		return fn(payload)
	}

	return &remote.MutationResult{
		AssignmentID: "a123",
		Status:       models.AssignmentStatusDraft,
		UpdatedAt:    savedAt,
	}, nil
}

func (f *fakeClient) Update(_ context.Context, id string, payload models.AssignmentPayload) (*remote.MutationResult, error) {
	f.mu.Lock()
	f.updateCalls++
	fn := f.updateFn
	f.mu.Unlock()

	if fn != nil {
		return fn(id, payload)
	}

	return &remote.MutationResult{
		AssignmentID: id,
		Status:       models.AssignmentStatusDraft,
		UpdatedAt:    savedAt,
	}, nil
}

func (f *fakeClient) Publish(_ context.Context, id string, payload models.AssignmentPayload) (*remote.MutationResult, error) {
	f.mu.Lock()
	f.publishCalls++
	fn := f.publishFn
	f.mu.Unlock()

	if fn != nil {
		return fn(id, payload)
	}

	publishedAt := savedAt.Add(time.Minute)

	return &remote.MutationResult{
		AssignmentID: id,
		Status:       models.AssignmentStatusPublished,
		UpdatedAt:    publishedAt,
		PublishedAt:  &publishedAt,
	}, nil
}

func (f *fakeClient) Load(_ context.Context, id string) (*models.Assignment, error) {
	return &models.Assignment{ID: id, Status: models.AssignmentStatusDraft}, nil
}

func (f *fakeClient) calls() (create, update, publish int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.createCalls, f.updateCalls, f.publishCalls
}

// recordingObserver captures every callback invocation.
type recordingObserver struct {
	mu        sync.Mutex
	saves     []*remote.MutationResult
	publishes []*remote.MutationResult
	errs      []*remote.Error
}

func (r *recordingObserver) OnSaveDraftSuccess(result *remote.MutationResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, result)
}

func (r *recordingObserver) OnPublishSuccess(result *remote.MutationResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishes = append(r.publishes, result)
}

func (r *recordingObserver) OnError(err *remote.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordingObserver) lastError() *remote.Error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.errs) == 0 {
		return nil
	}

	return r.errs[len(r.errs)-1]
}

func TestSaveDraft_FirstSaveCreates(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	observer := &recordingObserver{}
	orch := workflow.NewOrchestrator(client)
	orch.Subscribe(observer)

	result := orch.SaveDraft(context.Background(), models.AssignmentPayload{Title: "X"})
	require.NotNil(t, result)

	state := orch.State()
	id, ok := state.Entity.ID()
	require.True(t, ok)
	assert.Equal(t, "a123", id)
	assert.Equal(t, models.AssignmentStatusDraft, state.Status)
	assert.Empty(t, state.Error)
	assert.Empty(t, state.ValidationErrors)
	require.NotNil(t, state.LastSavedAt)
	assert.Equal(t, savedAt, *state.LastSavedAt)
	assert.False(t, state.IsSaving)

	assert.Len(t, observer.saves, 1)
	assert.Empty(t, observer.errs)
}

func TestSaveDraft_SecondSaveUpdates(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	orch := workflow.NewOrchestrator(client)

	require.NotNil(t, orch.SaveDraft(context.Background(), models.AssignmentPayload{Title: "X"}))
	require.NotNil(t, orch.SaveDraft(context.Background(), models.AssignmentPayload{Title: "Y"}))

	create, update, _ := client.calls()
	assert.Equal(t, 1, create, "exactly one create per session")
	assert.Equal(t, 1, update)
}

func TestSaveDraft_SeededIDNeverCreates(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	orch := workflow.NewOrchestrator(client, workflow.WithAssignmentID("a999"))

	result := orch.SaveDraft(context.Background(), models.AssignmentPayload{Title: "X"})
	require.NotNil(t, result)
	assert.Equal(t, "a999", result.AssignmentID)

	create, update, _ := client.calls()
	assert.Zero(t, create)
	assert.Equal(t, 1, update)
}

func TestSaveDraft_FailureIsSwallowedAndClassified(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		createFn: func(models.AssignmentPayload) (*remote.MutationResult, error) {
			return nil, remote.ErrNetworkUnreachable
		},
	}
	observer := &recordingObserver{}
	orch := workflow.NewOrchestrator(client)
	orch.Subscribe(observer)

	result := orch.SaveDraft(context.Background(), models.AssignmentPayload{Title: "X"})
	assert.Nil(t, result)

	state := orch.State()
	assert.Equal(t, "Network error. Please check your connection and try again.", state.Error)
	assert.False(t, state.IsSaving)
	assert.False(t, state.Entity.IsSaved())

	require.NotNil(t, observer.lastError())
	assert.Equal(t, remote.KindNetworkError, observer.lastError().Kind)
}

func TestSaveDraft_ClearsStaleErrorsAtAttemptStart(t *testing.T) {
	t.Parallel()

	failing := true
	client := &fakeClient{}
	client.createFn = func(payload models.AssignmentPayload) (*remote.MutationResult, error) {
		if failing {
			return nil, &remote.StatusError{
				StatusCode: 422,
				Body: &remote.ErrorBody{
					Errors: []models.ValidationError{models.NewFieldError("title", "Title is required")},
				},
			}
		}

		return &remote.MutationResult{AssignmentID: "a123", Status: models.AssignmentStatusDraft, UpdatedAt: savedAt}, nil
	}

	orch := workflow.NewOrchestrator(client)

	assert.Nil(t, orch.SaveDraft(context.Background(), models.AssignmentPayload{}))
	assert.NotEmpty(t, orch.State().Error)
	assert.Len(t, orch.State().ValidationErrors, 1)

	failing = false

	require.NotNil(t, orch.SaveDraft(context.Background(), models.AssignmentPayload{Title: "X"}))
	assert.Empty(t, orch.State().Error)
	assert.Empty(t, orch.State().ValidationErrors)
}

func TestPublish_BlockedWhenAlreadyPublished(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	observer := &recordingObserver{}
	orch := workflow.NewOrchestrator(client,
		workflow.WithStatus(models.AssignmentStatusPublished),
		workflow.WithAssignmentID("a123"),
	)
	orch.Subscribe(observer)

	result := orch.Publish(context.Background(), models.AssignmentPayload{})
	assert.Nil(t, result)

	create, update, publish := client.calls()
	assert.Zero(t, create+update+publish, "no network traffic on a blocked publish")

	assert.Equal(t, "This assignment has already been published.", orch.State().Error)
	require.NotNil(t, observer.lastError())
	assert.Equal(t, remote.KindConflict, observer.lastError().Kind)
}

func TestPublish_ValidationFailureKeepsDraft(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		publishFn: func(string, models.AssignmentPayload) (*remote.MutationResult, error) {
			return nil, &remote.StatusError{
				StatusCode: 422,
				Body: &remote.ErrorBody{
					Errors: []models.ValidationError{models.NewFieldError("title", "Title is required")},
				},
			}
		},
	}
	orch := workflow.NewOrchestrator(client, workflow.WithAssignmentID("a123"))

	result := orch.Publish(context.Background(), models.AssignmentPayload{})
	assert.Nil(t, result)

	state := orch.State()
	require.Len(t, state.ValidationErrors, 1)
	assert.Equal(t, map[string]string{"title": "Title is required"}, models.FieldErrors(state.ValidationErrors))
	assert.Equal(t, models.AssignmentStatusDraft, state.Status)
	assert.False(t, state.IsPublishing)
}

func TestPublish_UnsavedCreatesThenPublishes(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	orch := workflow.NewOrchestrator(client)

	result := orch.Publish(context.Background(), models.AssignmentPayload{Title: "X"})
	require.NotNil(t, result)

	create, _, publish := client.calls()
	assert.Equal(t, 1, create)
	assert.Equal(t, 1, publish)

	state := orch.State()
	assert.Equal(t, models.AssignmentStatusPublished, state.Status)
	require.NotNil(t, state.PublishedAt)
	assert.False(t, state.IsPublishing)
}

func TestPublish_CreateFailureSkipsPublish(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		createFn: func(models.AssignmentPayload) (*remote.MutationResult, error) {
			return nil, &remote.StatusError{StatusCode: 500, Body: &remote.ErrorBody{}}
		},
	}
	orch := workflow.NewOrchestrator(client)

	result := orch.Publish(context.Background(), models.AssignmentPayload{})
	assert.Nil(t, result)

	_, _, publish := client.calls()
	assert.Zero(t, publish, "publish must never run when the create sub-step fails")
	assert.False(t, orch.State().IsPublishing)
}

func TestPublish_SuccessClearsErrors(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	orch := workflow.NewOrchestrator(client, workflow.WithAssignmentID("a123"))

	require.NotNil(t, orch.Publish(context.Background(), models.AssignmentPayload{}))

	state := orch.State()
	assert.Empty(t, state.Error)
	assert.Empty(t, state.ValidationErrors)
}

func TestPublish_SecondPublishBlockedAfterSuccess(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	orch := workflow.NewOrchestrator(client, workflow.WithAssignmentID("a123"))

	require.NotNil(t, orch.Publish(context.Background(), models.AssignmentPayload{}))
	assert.Nil(t, orch.Publish(context.Background(), models.AssignmentPayload{}))

	_, _, publish := client.calls()
	assert.Equal(t, 1, publish)
	assert.Equal(t, "This assignment has already been published.", orch.State().Error)
}

func TestSaveDraft_RejectedWhileInFlight(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})

	client := &fakeClient{
		createFn: func(models.AssignmentPayload) (*remote.MutationResult, error) {
			close(started)
			<-release

			return &remote.MutationResult{AssignmentID: "a123", Status: models.AssignmentStatusDraft, UpdatedAt: savedAt}, nil
		},
	}
	orch := workflow.NewOrchestrator(client)

	done := make(chan *remote.MutationResult, 1)

	go func() {
		done <- orch.SaveDraft(context.Background(), models.AssignmentPayload{})
	}()

	<-started
	assert.True(t, orch.State().IsSaving)
	assert.Nil(t, orch.SaveDraft(context.Background(), models.AssignmentPayload{}), "second call while in flight is a no-op")

	close(release)
	require.NotNil(t, <-done)

	create, _, _ := client.calls()
	assert.Equal(t, 1, create)
}

func TestPublish_RejectedWhileSaveInFlight(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})

	client := &fakeClient{
		createFn: func(models.AssignmentPayload) (*remote.MutationResult, error) {
			close(started)
			<-release

			return &remote.MutationResult{AssignmentID: "a123", Status: models.AssignmentStatusDraft, UpdatedAt: savedAt}, nil
		},
	}
	orch := workflow.NewOrchestrator(client)

	go orch.SaveDraft(context.Background(), models.AssignmentPayload{})

	<-started
	assert.Nil(t, orch.Publish(context.Background(), models.AssignmentPayload{}))

	_, _, publish := client.calls()
	assert.Zero(t, publish)

	close(release)
}

func TestPublish_RejectedWhilePublishInFlight(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})

	client := &fakeClient{
		publishFn: func(string, models.AssignmentPayload) (*remote.MutationResult, error) {
			close(started)
			<-release

			return &remote.MutationResult{AssignmentID: "a123", Status: models.AssignmentStatusPublished, UpdatedAt: savedAt, PublishedAt: &savedAt}, nil
		},
	}
	orch := workflow.NewOrchestrator(client, workflow.WithAssignmentID("a123"))

	observer := &recordingObserver{}
	orch.Subscribe(observer)

	done := make(chan *remote.MutationResult, 1)

	go func() {
		done <- orch.Publish(context.Background(), models.AssignmentPayload{})
	}()

	<-started
	assert.True(t, orch.State().IsPublishing)

	// The second call is a silent no-op: no error written, nobody notified.
	assert.Nil(t, orch.Publish(context.Background(), models.AssignmentPayload{}))
	assert.Empty(t, orch.State().Error)
	assert.Empty(t, observer.errs)

	close(release)
	require.NotNil(t, <-done)

	state := orch.State()
	assert.Equal(t, models.AssignmentStatusPublished, state.Status)
	assert.Empty(t, state.Error, "the settled publish leaves no error behind")

	_, _, publish := client.calls()
	assert.Equal(t, 1, publish)
}

func TestSetStatusAndSetAssignmentID_BypassGuards(t *testing.T) {
	t.Parallel()

	orch := workflow.NewOrchestrator(&fakeClient{})

	orch.SetAssignmentID("a777")
	orch.SetStatus(models.AssignmentStatusPublished)

	state := orch.State()
	id, ok := state.Entity.ID()
	require.True(t, ok)
	assert.Equal(t, "a777", id)
	assert.Equal(t, models.AssignmentStatusPublished, state.Status)

	// And back to draft: explicit overrides are the one path that reverts.
	orch.SetStatus(models.AssignmentStatusDraft)
	assert.True(t, orch.State().CanPublish())
}

func TestClearFieldError_LeavesOthersUntouched(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		createFn: func(models.AssignmentPayload) (*remote.MutationResult, error) {
			return nil, &remote.StatusError{
				StatusCode: 422,
				Body: &remote.ErrorBody{
					Errors: []models.ValidationError{
						models.NewFieldError("title", "Title is required"),
						models.NewQuestionError("q1", "Prompt is required"),
					},
				},
			}
		},
	}
	orch := workflow.NewOrchestrator(client)

	assert.Nil(t, orch.SaveDraft(context.Background(), models.AssignmentPayload{}))
	require.Len(t, orch.State().ValidationErrors, 2)

	orch.ClearFieldError("title", "")

	state := orch.State()
	require.Len(t, state.ValidationErrors, 1)
	assert.Equal(t, "q1", state.ValidationErrors[0].QuestionID)
	assert.NotEmpty(t, state.Error, "entity-scoped error is untouched")

	orch.ClearErrors()
	assert.Empty(t, orch.State().Error)
	assert.Empty(t, orch.State().ValidationErrors)
}

func TestObserver_ErrorPassesThroughClassifiedKind(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		updateFn: func(string, models.AssignmentPayload) (*remote.MutationResult, error) {
			return nil, errors.New("wire gremlins")
		},
	}
	observer := &recordingObserver{}
	orch := workflow.NewOrchestrator(client, workflow.WithAssignmentID("a123"))
	orch.Subscribe(observer)

	assert.Nil(t, orch.SaveDraft(context.Background(), models.AssignmentPayload{}))
	require.NotNil(t, observer.lastError())
	assert.Equal(t, remote.KindUnknown, observer.lastError().Kind)
}
