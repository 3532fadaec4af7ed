package goalservice

import (
	"context"

	"github.com/starford/goalpost/internal/models"
	"github.com/starford/goalpost/internal/validate"
)

// ListCheckpoints returns a goal's checkpoints oldest first.
func (s *Service) ListCheckpoints(ctx context.Context, goalID string) ([]models.Checkpoint, error) {
	if _, err := s.goalFor(ctx, goalID); err != nil {
		return nil, err
	}
	return s.store.ListCheckpoints(ctx, goalID)
}

// AddCheckpoint records a metric observation. A zero RecordedAt means now.
func (s *Service) AddCheckpoint(ctx context.Context, actor, goalID string, in models.Checkpoint) (*models.Checkpoint, error) {
	if _, err := s.goalFor(ctx, goalID); err != nil {
		return nil, err
	}
	now := s.stamp()
	cp := in
	cp.ID = s.newID()
	cp.GoalID = goalID
	if cp.RecordedAt.IsZero() {
		cp.RecordedAt = now
	}
	cp.Audit = models.Audit{CreatedAt: now, UpdatedAt: now, CreatedBy: actor, UpdatedBy: actor}
	if err := validate.Checkpoint(&cp); err != nil {
		return nil, err
	}
	if err := s.store.CreateCheckpoint(ctx, &cp); err != nil {
		return nil, err
	}
	if err := s.syncCurrent(ctx, actor, goalID); err != nil {
		return nil, err
	}
	s.publish("checkpoint", "created", cp.ID, goalID)
	return &cp, nil
}

// UpdateCheckpoint replaces a checkpoint's value, time and annotations.
func (s *Service) UpdateCheckpoint(ctx context.Context, actor, id string, in models.Checkpoint) (*models.Checkpoint, error) {
	existing, err := s.store.GetCheckpoint(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.goalFor(ctx, existing.GoalID); err != nil {
		return nil, err
	}
	cp := in
	cp.ID, cp.GoalID = existing.ID, existing.GoalID
	if cp.RecordedAt.IsZero() {
		cp.RecordedAt = existing.RecordedAt
	}
	cp.Audit = models.Audit{CreatedAt: existing.CreatedAt, CreatedBy: existing.CreatedBy, UpdatedAt: s.stamp(), UpdatedBy: actor}
	if err := validate.Checkpoint(&cp); err != nil {
		return nil, err
	}
	if err := s.store.UpdateCheckpoint(ctx, &cp); err != nil {
		return nil, err
	}
	if err := s.syncCurrent(ctx, actor, cp.GoalID); err != nil {
		return nil, err
	}
	s.publish("checkpoint", "updated", cp.ID, cp.GoalID)
	return &cp, nil
}

// DeleteCheckpoint removes a checkpoint.
func (s *Service) DeleteCheckpoint(ctx context.Context, actor, id string) error {
	existing, err := s.store.GetCheckpoint(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.goalFor(ctx, existing.GoalID); err != nil {
		return err
	}
	if err := s.store.DeleteCheckpoint(ctx, id); err != nil {
		return err
	}
	if err := s.syncCurrent(ctx, actor, existing.GoalID); err != nil {
		return err
	}
	s.publish("checkpoint", "deleted", id, existing.GoalID)
	return nil
}

// syncCurrent sets measurable.current to the newest checkpoint's value.
// A goal without checkpoints keeps its current value.
func (s *Service) syncCurrent(ctx context.Context, actor, goalID string) error {
	cps, err := s.store.ListCheckpoints(ctx, goalID)
	if err != nil || len(cps) == 0 {
		return err
	}
	latest := cps[len(cps)-1].Value
	g, err := s.goalFor(ctx, goalID)
	if err != nil {
		return err
	}
	if g.Measurable.Current == latest {
		return nil
	}
	g.Measurable.Current = latest
	g.UpdatedAt, g.UpdatedBy = s.stamp(), actor
	return s.store.UpdateGoal(ctx, g)
}
