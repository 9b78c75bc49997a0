// Package redis provides Redis-backed persistence for assignments.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/edukit/assignflow/pkg/models"
	"github.com/edukit/assignflow/pkg/persistence"
	redis "github.com/redis/go-redis/v9"
)

const (
	assignmentKeyPrefix = "assignflow:assignment:"
	assignmentIndexKey  = "assignflow:assignments"
)

// Persistence implements persistence.Persistence on a Redis instance.
type Persistence struct {
	client         redis.UniversalClient
	assignmentRepo *AssignmentRepository
}

// NewPersistence creates Redis persistence from a redis:// connection URL.
func NewPersistence(url string) (persistence.Persistence, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	return &Persistence{
		client:         client,
		assignmentRepo: &AssignmentRepository{client: client},
	}, nil
}

func (rp *Persistence) Close(_ context.Context) error {
	return rp.client.Close()
}

func (rp *Persistence) HealthCheck(ctx context.Context) error {
	return rp.client.Ping(ctx).Err()
}

func (rp *Persistence) AssignmentRepository() persistence.AssignmentRepository {
	return rp.assignmentRepo
}

// AssignmentRepository stores each assignment as a JSON value plus a set of
// known IDs for listing.
type AssignmentRepository struct {
	client redis.UniversalClient
}

func (ar *AssignmentRepository) Save(ctx context.Context, assignment *models.Assignment) error {
	if !assignment.Status.Valid() {
		return persistence.NewAssignmentError("Save", assignment.ID, persistence.ErrInvalidAssignmentStatus)
	}

	data, err := json.Marshal(assignment)
	if err != nil {
		return persistence.NewAssignmentError("Save", assignment.ID, err)
	}

	pipe := ar.client.TxPipeline()
	pipe.Set(ctx, assignmentKeyPrefix+assignment.ID, data, 0)
	pipe.SAdd(ctx, assignmentIndexKey, assignment.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return persistence.NewAssignmentError("Save", assignment.ID, err)
	}

	return nil
}

// GetByID returns (nil, nil) when the assignment does not exist.
func (ar *AssignmentRepository) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	data, err := ar.client.Get(ctx, assignmentKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, persistence.NewAssignmentError("GetByID", id, err)
	}

	var assignment models.Assignment

	if err := json.Unmarshal(data, &assignment); err != nil {
		return nil, persistence.NewAssignmentError("GetByID", id, err)
	}

	return &assignment, nil
}

// List returns all stored assignments, oldest first.
func (ar *AssignmentRepository) List(ctx context.Context) ([]*models.Assignment, error) {
	ids, err := ar.client.SMembers(ctx, assignmentIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list assignment IDs: %w", err)
	}

	assignments := make([]*models.Assignment, 0, len(ids))

	for _, id := range ids {
		assignment, err := ar.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		// Index entries may outlive a concurrently deleted value.
		if assignment != nil {
			assignments = append(assignments, assignment)
		}
	}

	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].CreatedAt.Before(assignments[j].CreatedAt)
	})

	return assignments, nil
}

func (ar *AssignmentRepository) Delete(ctx context.Context, id string) error {
	pipe := ar.client.TxPipeline()
	pipe.Del(ctx, assignmentKeyPrefix+id)
	pipe.SRem(ctx, assignmentIndexKey, id)

	if _, err := pipe.Exec(ctx); err != nil {
		return persistence.NewAssignmentError("Delete", id, err)
	}

	return nil
}
