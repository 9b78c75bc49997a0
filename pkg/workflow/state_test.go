package workflow_test

import (
	"testing"

	"github.com/edukit/assignflow/pkg/models"
	"github.com/edukit/assignflow/pkg/workflow"
	"github.com/stretchr/testify/assert"
)

func TestState_DerivedFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		state        workflow.State
		canEdit      bool
		canPublish   bool
		isLoading    bool
	}{
		{
			name:       "fresh draft",
			state:      workflow.State{Status: models.AssignmentStatusDraft},
			canEdit:    true,
			canPublish: true,
		},
		{
			name:       "draft while publishing",
			state:      workflow.State{Status: models.AssignmentStatusDraft, IsPublishing: true},
			canEdit:    true,
			canPublish: false,
			isLoading:  true,
		},
		{
			name:       "draft while saving",
			state:      workflow.State{Status: models.AssignmentStatusDraft, IsSaving: true},
			canEdit:    true,
			canPublish: true,
			isLoading:  true,
		},
		{
			name:       "published",
			state:      workflow.State{Status: models.AssignmentStatusPublished},
			canEdit:    false,
			canPublish: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.canEdit, tt.state.CanEdit())
			assert.Equal(t, tt.canPublish, tt.state.CanPublish())
			assert.Equal(t, tt.isLoading, tt.state.IsLoading())
		})
	}
}

func TestEntityRef(t *testing.T) {
	t.Parallel()

	unsaved := workflow.Unsaved()
	assert.False(t, unsaved.IsSaved())

	_, ok := unsaved.ID()
	assert.False(t, ok)

	saved := workflow.Saved("a123")
	assert.True(t, saved.IsSaved())

	id, ok := saved.ID()
	assert.True(t, ok)
	assert.Equal(t, "a123", id)
}

func TestEntityRef_ZeroValueIsUnsaved(t *testing.T) {
	t.Parallel()

	var ref workflow.EntityRef

	assert.False(t, ref.IsSaved())
	assert.Equal(t, workflow.Unsaved(), ref)
}
