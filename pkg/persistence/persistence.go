// Package persistence provides the data storage abstraction for assignments.
package persistence

import (
	"context"

	"github.com/edukit/assignflow/pkg/models"
)

// AssignmentRepository stores assignment records. GetByID returns (nil, nil)
// when no assignment exists; the service layer maps that to a not-found
// error.
type AssignmentRepository interface {
	Save(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
	List(ctx context.Context) ([]*models.Assignment, error)
	Delete(ctx context.Context, id string) error
}

type Persistence interface {
	AssignmentRepository() AssignmentRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
