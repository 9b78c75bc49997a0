// Package file provides file-based persistence for assignments.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/edukit/assignflow/pkg/persistence"
)

// Persistence implements persistence.Persistence on the local file system.
type Persistence struct {
	root           string
	assignmentRepo *AssignmentRepository
}

// NewPersistence creates file persistence rooted at the given directory. A
// "file://" prefix is stripped.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:           cleanRoot,
		assignmentRepo: NewAssignmentRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. Nothing to clean up for files.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) AssignmentRepository() persistence.AssignmentRepository {
	return fp.assignmentRepo
}
