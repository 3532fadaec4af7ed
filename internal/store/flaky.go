package store

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/starford/goalpost/internal/models"
)

// ErrInjected is returned by Flaky when it simulates a backend failure.
var ErrInjected = errors.New("store: simulated failure")

// Flaky wraps a Store with artificial latency and random failures.
// It exists to exercise client error handling and is off unless configured.
type Flaky struct {
	next        Store
	latency     time.Duration
	failureRate float64
	roll        func() float64
}

// FlakyOption configures a Flaky store.
type FlakyOption func(*Flaky)

// WithRoll replaces the random source; roll must return values in [0, 1).
func WithRoll(roll func() float64) FlakyOption {
	return func(f *Flaky) { f.roll = roll }
}

// NewFlaky wraps next. A zero latency and failure rate make it a pass-through.
func NewFlaky(next Store, latency time.Duration, failureRate float64, opts ...FlakyOption) *Flaky {
	f := &Flaky{next: next, latency: latency, failureRate: failureRate, roll: rand.Float64}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *Flaky) wait(ctx context.Context) error {
	if f.latency > 0 {
		t := time.NewTimer(f.latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	if f.failureRate > 0 && f.roll() < f.failureRate {
		return ErrInjected
	}
	return nil
}

func (f *Flaky) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.next.GetGoal(ctx, id)
}

func (f *Flaky) ListGoals(ctx context.Context, q GoalQuery) ([]models.Goal, int, error) {
	if err := f.wait(ctx); err != nil {
		return nil, 0, err
	}
	return f.next.ListGoals(ctx, q)
}

func (f *Flaky) CreateGoal(ctx context.Context, g *models.Goal) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.next.CreateGoal(ctx, g)
}

func (f *Flaky) UpdateGoal(ctx context.Context, g *models.Goal) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.next.UpdateGoal(ctx, g)
}

func (f *Flaky) DeleteGoal(ctx context.Context, id string) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.next.DeleteGoal(ctx, id)
}

func (f *Flaky) GetTask(ctx context.Context, id string) (*models.Task, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.next.GetTask(ctx, id)
}

func (f *Flaky) ListTasks(ctx context.Context, goalID string) ([]models.Task, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.next.ListTasks(ctx, goalID)
}

func (f *Flaky) CreateTask(ctx context.Context, t *models.Task) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.next.CreateTask(ctx, t)
}

func (f *Flaky) UpdateTask(ctx context.Context, t *models.Task) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.next.UpdateTask(ctx, t)
}

func (f *Flaky) DeleteTask(ctx context.Context, id string) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.next.DeleteTask(ctx, id)
}

func (f *Flaky) GetCheckpoint(ctx context.Context, id string) (*models.Checkpoint, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.next.GetCheckpoint(ctx, id)
}

func (f *Flaky) ListCheckpoints(ctx context.Context, goalID string) ([]models.Checkpoint, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.next.ListCheckpoints(ctx, goalID)
}

func (f *Flaky) CreateCheckpoint(ctx context.Context, cp *models.Checkpoint) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.next.CreateCheckpoint(ctx, cp)
}

func (f *Flaky) UpdateCheckpoint(ctx context.Context, cp *models.Checkpoint) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.next.UpdateCheckpoint(ctx, cp)
}

func (f *Flaky) DeleteCheckpoint(ctx context.Context, id string) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.next.DeleteCheckpoint(ctx, id)
}

func (f *Flaky) Close() error { return f.next.Close() }
