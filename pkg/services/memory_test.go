package services_test

import (
	"context"
	"sort"
	"sync"

	"github.com/edukit/assignflow/pkg/models"
	"github.com/edukit/assignflow/pkg/persistence"
)

// memoryPersistence is an in-memory persistence implementation for tests.
type memoryPersistence struct {
	repo      *memoryRepository
	unhealthy error
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{
		repo: &memoryRepository{
			assignments: map[string]*models.Assignment{},
		},
	}
}

func (p *memoryPersistence) AssignmentRepository() persistence.AssignmentRepository {
	return p.repo
}

func (p *memoryPersistence) HealthCheck(_ context.Context) error {
	return p.unhealthy
}

func (p *memoryPersistence) Close(_ context.Context) error {
	return nil
}

type memoryRepository struct {
	mu          sync.Mutex
	assignments map[string]*models.Assignment
	saveErr     error
	getErr      error
}

func (r *memoryRepository) Save(_ context.Context, assignment *models.Assignment) error {
	if r.saveErr != nil {
		return r.saveErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *assignment
	r.assignments[assignment.ID] = &clone

	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*models.Assignment, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	assignment, ok := r.assignments[id]
	if !ok {
		return nil, nil
	}

	clone := *assignment

	return &clone, nil
}

func (r *memoryRepository) List(_ context.Context) ([]*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]*models.Assignment, 0, len(r.assignments))
	for _, assignment := range r.assignments {
		clone := *assignment
		list = append(list, &clone)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	return list, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.assignments, id)

	return nil
}
