package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/edukit/assignflow/pkg/models"
	"github.com/edukit/assignflow/pkg/persistence"
)

// AssignmentRepository stores one JSON document per assignment.
type AssignmentRepository struct {
	root string
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(root string) *AssignmentRepository {
	return &AssignmentRepository{root: root}
}

func (ar *AssignmentRepository) dir() string {
	return path.Join(ar.root, "assignments")
}

// GetByID retrieves an assignment from the file system. Returns (nil, nil)
// when the assignment does not exist.
func (ar *AssignmentRepository) GetByID(_ context.Context, id string) (*models.Assignment, error) {
	filePath := filepath.Clean(path.Join(ar.dir(), id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, persistence.NewAssignmentError("GetByID", id, err)
	}

	var assignment models.Assignment

	if err := json.Unmarshal(body, &assignment); err != nil {
		return nil, persistence.NewAssignmentError("GetByID", id, err)
	}

	return &assignment, nil
}

// Save writes an assignment to the file system. Assignments with a lifecycle
// status outside draft/published are rejected before touching disk.
func (ar *AssignmentRepository) Save(_ context.Context, assignment *models.Assignment) error {
	if !assignment.Status.Valid() {
		return persistence.NewAssignmentError("Save", assignment.ID, persistence.ErrInvalidAssignmentStatus)
	}

	if err := os.MkdirAll(ar.dir(), 0750); err != nil {
		return fmt.Errorf("failed to create assignments directory: %w", err)
	}

	data, err := json.MarshalIndent(assignment, "", "  ")
	if err != nil {
		return persistence.NewAssignmentError("Save", assignment.ID, err)
	}

	filePath := path.Join(ar.dir(), assignment.ID+".json")

	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return persistence.NewAssignmentError("Save", assignment.ID, err)
	}

	return nil
}

// List returns all stored assignments, oldest first.
func (ar *AssignmentRepository) List(ctx context.Context) ([]*models.Assignment, error) {
	root := os.DirFS(ar.dir())

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list assignment files: %w", err)
	}

	assignments := make([]*models.Assignment, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		id := file[:len(file)-5] // Remove .json extension

		assignment, err := ar.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if assignment != nil {
			assignments = append(assignments, assignment)
		}
	}

	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].CreatedAt.Before(assignments[j].CreatedAt)
	})

	return assignments, nil
}

// Delete removes an assignment by its ID. Deleting a missing assignment is
// not an error.
func (ar *AssignmentRepository) Delete(_ context.Context, id string) error {
	filePath := path.Join(ar.dir(), id+".json")

	err := os.Remove(filePath)
	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return persistence.NewAssignmentError("Delete", id, err)
	}

	return nil
}
