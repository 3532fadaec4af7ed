package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/starford/goalpost/internal/apperr"
	"github.com/starford/goalpost/internal/models"
)

// Memory is a process-local Store. Values are deep-copied on the way in and out.
type Memory struct {
	mu          sync.RWMutex
	goals       map[string]models.Goal
	tasks       map[string]models.Task
	checkpoints map[string]models.Checkpoint
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		goals:       make(map[string]models.Goal),
		tasks:       make(map[string]models.Task),
		checkpoints: make(map[string]models.Checkpoint),
	}
}

func (m *Memory) GetGoal(_ context.Context, id string) (*models.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.goals[id]
	if !ok {
		return nil, apperr.NotFound("goal", id)
	}
	out := g.Clone()
	return &out, nil
}

func (m *Memory) ListGoals(_ context.Context, q GoalQuery) ([]models.Goal, int, error) {
	q = q.WithDefaults()
	m.mu.RLock()
	var matched []models.Goal
	for _, g := range m.goals {
		if q.Match(g) {
			matched = append(matched, g.Clone())
		}
	}
	m.mu.RUnlock()

	SortGoals(matched, q.SortField, q.SortDirection)
	return Page(matched, q), len(matched), nil
}

func (m *Memory) CreateGoal(_ context.Context, g *models.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.goals[g.ID]; ok {
		return fmt.Errorf("goal %q: %w", g.ID, apperr.ErrAlreadyExists)
	}
	m.goals[g.ID] = g.Clone()
	return nil
}

func (m *Memory) UpdateGoal(_ context.Context, g *models.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.goals[g.ID]; !ok {
		return apperr.NotFound("goal", g.ID)
	}
	m.goals[g.ID] = g.Clone()
	return nil
}

func (m *Memory) DeleteGoal(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.goals[id]; !ok {
		return apperr.NotFound("goal", id)
	}
	delete(m.goals, id)
	for tid, t := range m.tasks {
		if t.GoalID == id {
			delete(m.tasks, tid)
		}
	}
	for cid, cp := range m.checkpoints {
		if cp.GoalID == id {
			delete(m.checkpoints, cid)
		}
	}
	return nil
}

func (m *Memory) GetTask(_ context.Context, id string) (*models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, apperr.NotFound("task", id)
	}
	out := t.Clone()
	return &out, nil
}

func (m *Memory) ListTasks(_ context.Context, goalID string) ([]models.Task, error) {
	m.mu.RLock()
	out := []models.Task{}
	for _, t := range m.tasks {
		if t.GoalID == goalID {
			out = append(out, t.Clone())
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b models.Task) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *Memory) CreateTask(_ context.Context, t *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.goals[t.GoalID]; !ok {
		return apperr.NotFound("goal", t.GoalID)
	}
	if _, ok := m.tasks[t.ID]; ok {
		return fmt.Errorf("task %q: %w", t.ID, apperr.ErrAlreadyExists)
	}
	m.tasks[t.ID] = t.Clone()
	return nil
}

func (m *Memory) UpdateTask(_ context.Context, t *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[t.ID]; !ok {
		return apperr.NotFound("task", t.ID)
	}
	m.tasks[t.ID] = t.Clone()
	return nil
}

func (m *Memory) DeleteTask(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return apperr.NotFound("task", id)
	}
	delete(m.tasks, id)
	return nil
}

func (m *Memory) GetCheckpoint(_ context.Context, id string) (*models.Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp, ok := m.checkpoints[id]
	if !ok {
		return nil, apperr.NotFound("checkpoint", id)
	}
	out := cp.Clone()
	return &out, nil
}

func (m *Memory) ListCheckpoints(_ context.Context, goalID string) ([]models.Checkpoint, error) {
	m.mu.RLock()
	out := []models.Checkpoint{}
	for _, cp := range m.checkpoints {
		if cp.GoalID == goalID {
			out = append(out, cp.Clone())
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b models.Checkpoint) int {
		if c := a.RecordedAt.Compare(b.RecordedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *Memory) CreateCheckpoint(_ context.Context, cp *models.Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.goals[cp.GoalID]; !ok {
		return apperr.NotFound("goal", cp.GoalID)
	}
	if _, ok := m.checkpoints[cp.ID]; ok {
		return fmt.Errorf("checkpoint %q: %w", cp.ID, apperr.ErrAlreadyExists)
	}
	m.checkpoints[cp.ID] = cp.Clone()
	return nil
}

func (m *Memory) UpdateCheckpoint(_ context.Context, cp *models.Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.checkpoints[cp.ID]; !ok {
		return apperr.NotFound("checkpoint", cp.ID)
	}
	m.checkpoints[cp.ID] = cp.Clone()
	return nil
}

func (m *Memory) DeleteCheckpoint(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.checkpoints[id]; !ok {
		return apperr.NotFound("checkpoint", id)
	}
	delete(m.checkpoints, id)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
