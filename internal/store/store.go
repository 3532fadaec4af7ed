// Package store defines the repository boundary for goals, tasks and checkpoints,
// with an in-memory implementation and a latency/failure-injecting decorator.
// A SQLite implementation lives in store/sqlite.
package store

import (
	"context"

	"github.com/starford/goalpost/internal/models"
)

// Store is the persistence capability the service depends on.
//
// Get methods return an error matching apperr.ErrNotFound when the ID is absent.
// Soft-deleted goals are still returned; the caller decides how to treat them.
// DeleteGoal is a hard delete and cascades to the goal's tasks and checkpoints.
type Store interface {
	GetGoal(ctx context.Context, id string) (*models.Goal, error)
	ListGoals(ctx context.Context, q GoalQuery) ([]models.Goal, int, error)
	CreateGoal(ctx context.Context, g *models.Goal) error
	UpdateGoal(ctx context.Context, g *models.Goal) error
	DeleteGoal(ctx context.Context, id string) error

	GetTask(ctx context.Context, id string) (*models.Task, error)
	ListTasks(ctx context.Context, goalID string) ([]models.Task, error)
	CreateTask(ctx context.Context, t *models.Task) error
	UpdateTask(ctx context.Context, t *models.Task) error
	DeleteTask(ctx context.Context, id string) error

	GetCheckpoint(ctx context.Context, id string) (*models.Checkpoint, error)
	ListCheckpoints(ctx context.Context, goalID string) ([]models.Checkpoint, error)
	CreateCheckpoint(ctx context.Context, cp *models.Checkpoint) error
	UpdateCheckpoint(ctx context.Context, cp *models.Checkpoint) error
	DeleteCheckpoint(ctx context.Context, id string) error

	Close() error
}

// Compile-time interface checks.
var (
	_ Store = (*Memory)(nil)
	_ Store = (*Flaky)(nil)
)
