package goalservice

import (
	"context"
	"time"

	"github.com/starford/goalpost/internal/apperr"
	"github.com/starford/goalpost/internal/models"
	"github.com/starford/goalpost/internal/progress"
	"github.com/starford/goalpost/internal/status"
	"github.com/starford/goalpost/internal/validate"
)

// TaskView is a task with its derived progress and non-blocking warnings.
type TaskView struct {
	models.Task
	ComputedProgress int      `json:"computedProgress"`
	Warnings         []string `json:"warnings"`
}

// TaskTransitionResult is returned by a successful task transition.
type TaskTransitionResult struct {
	Task TaskView `json:"task"`
	From string   `json:"from"`
	To   string   `json:"to"`
}

func taskView(t models.Task) TaskView {
	t.Normalize()
	w := validate.TaskWarnings(t)
	if w == nil {
		w = []string{}
	}
	return TaskView{Task: t, ComputedProgress: progress.CalculateTaskProgress(t), Warnings: w}
}

// taskFor loads a task whose goal is live.
func (s *Service) taskFor(ctx context.Context, id string) (*models.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.goalFor(ctx, t.GoalID); err != nil {
		return nil, err
	}
	t.Normalize()
	return t, nil
}

// ListTasks returns a goal's tasks in creation order.
func (s *Service) ListTasks(ctx context.Context, goalID string) ([]TaskView, error) {
	if _, err := s.goalFor(ctx, goalID); err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx, goalID)
	if err != nil {
		return nil, err
	}
	out := make([]TaskView, len(tasks))
	for i := range tasks {
		out[i] = taskView(tasks[i])
	}
	return out, nil
}

// GetTask returns a single task view.
func (s *Service) GetTask(ctx context.Context, id string) (*TaskView, error) {
	t, err := s.taskFor(ctx, id)
	if err != nil {
		return nil, err
	}
	v := taskView(*t)
	return &v, nil
}

// CreateTask validates and stores a task under goalID.
func (s *Service) CreateTask(ctx context.Context, actor, goalID string, in models.Task) (*TaskView, error) {
	if _, err := s.goalFor(ctx, goalID); err != nil {
		return nil, err
	}
	now := s.stamp()
	t := in
	if t.ID == "" {
		t.ID = s.newID()
	}
	t.GoalID = goalID
	if t.Status == "" {
		t.Status = models.TaskTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	t.Audit = models.Audit{CreatedAt: now, UpdatedAt: now, CreatedBy: actor, UpdatedBy: actor}
	s.prepareWorkItem(&t.WorkItem, nil, actor, now)
	for i := range t.Subtasks {
		s.prepareSubtask(&t.Subtasks[i], nil, t.ID, actor, now)
	}
	t.Normalize()

	if err := validate.Task(&t); err != nil {
		return nil, err
	}
	if err := s.store.CreateTask(ctx, &t); err != nil {
		return nil, err
	}
	s.publish("task", "created", t.ID, t.GoalID)
	v := taskView(t)
	return &v, nil
}

// ReplaceTask applies a full replacement (PUT). ID, goal and creation stamps are kept.
func (s *Service) ReplaceTask(ctx context.Context, actor, id string, in models.Task) (*TaskView, error) {
	return s.updateTask(ctx, actor, id, func(t *models.Task) error {
		*t = in
		return nil
	})
}

// PatchTask merges a partial JSON document (PATCH).
func (s *Service) PatchTask(ctx context.Context, actor, id string, patch []byte) (*TaskView, error) {
	return s.updateTask(ctx, actor, id, func(t *models.Task) error {
		return mergePatch(t, patch)
	})
}

func (s *Service) updateTask(ctx context.Context, actor, id string, apply func(*models.Task) error) (*TaskView, error) {
	existing, err := s.taskFor(ctx, id)
	if err != nil {
		return nil, err
	}
	t := existing.Clone()
	if err := apply(&t); err != nil {
		return nil, err
	}
	now := s.stamp()
	t.ID, t.GoalID = existing.ID, existing.GoalID
	t.Audit = models.Audit{CreatedAt: existing.CreatedAt, CreatedBy: existing.CreatedBy, UpdatedAt: now, UpdatedBy: actor}
	if t.Status == "" {
		t.Status = existing.Status
	}
	s.prepareWorkItem(&t.WorkItem, &existing.WorkItem, actor, now)
	for i := range t.Subtasks {
		var prev *models.Subtask
		if j := existing.Subtask(t.Subtasks[i].ID); j >= 0 {
			prev = &existing.Subtasks[j]
		}
		s.prepareSubtask(&t.Subtasks[i], prev, t.ID, actor, now)
	}
	t.Normalize()

	if err := validate.Task(&t); err != nil {
		return nil, err
	}
	if t.Status != existing.Status {
		if !status.IsValidTaskTransition(existing.Status, t.Status) {
			return nil, invalidTransition("task", existing.Status, t.Status)
		}
		if c := status.TaskConfirmation(existing.Status, t.Status); c.Required {
			return nil, &ConfirmationError{Confirmation: c}
		}
	}
	if err := s.store.UpdateTask(ctx, &t); err != nil {
		return nil, err
	}
	s.publish("task", "updated", t.ID, t.GoalID)
	v := taskView(t)
	return &v, nil
}

// DeleteTask removes a task and its subtasks.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	t, err := s.taskFor(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.publish("task", "deleted", id, t.GoalID)
	return nil
}

// TransitionTask moves a task to a new status. Completing sets progress to 100.
func (s *Service) TransitionTask(ctx context.Context, actor, id string, to models.TaskStatus, confirmed bool) (*TaskTransitionResult, error) {
	t, err := s.taskFor(ctx, id)
	if err != nil {
		return nil, err
	}
	from := t.Status
	if !status.IsValidTaskTransition(from, to) {
		return nil, invalidTransition("task", from, to)
	}
	if c := status.TaskConfirmation(from, to); c.Required && !confirmed {
		return nil, &ConfirmationError{Confirmation: c}
	}

	now := s.stamp()
	t.Status = to
	switch to {
	case models.TaskCompleted:
		full := 100
		t.Progress = &full
	case models.TaskInProgress:
		if t.StartDate == nil {
			t.StartDate = &now
		}
	}
	t.UpdatedAt, t.UpdatedBy = now, actor
	if err := s.store.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	s.publish("task", "transitioned", t.ID, t.GoalID)
	return &TaskTransitionResult{Task: taskView(*t), From: string(from), To: string(to)}, nil
}

// AddSubtask appends a subtask to a task.
func (s *Service) AddSubtask(ctx context.Context, actor, taskID string, in models.Subtask) (*TaskView, error) {
	t, err := s.taskFor(ctx, taskID)
	if err != nil {
		return nil, err
	}
	now := s.stamp()
	sub := in
	sub.ID = ""
	if sub.Status == "" {
		sub.Status = models.TaskTodo
	}
	if sub.Priority == "" {
		sub.Priority = t.Priority
	}
	s.prepareSubtask(&sub, nil, t.ID, actor, now)
	if err := validate.Subtask(&sub); err != nil {
		return nil, err
	}

	t.Subtasks = append(t.Subtasks, sub)
	return s.saveTask(ctx, actor, t, now)
}

// PatchSubtask merges a partial JSON document into one subtask. Status moves
// follow the task transition table without a confirmation step.
func (s *Service) PatchSubtask(ctx context.Context, actor, taskID, subtaskID string, patch []byte) (*TaskView, error) {
	t, err := s.taskFor(ctx, taskID)
	if err != nil {
		return nil, err
	}
	i := t.Subtask(subtaskID)
	if i < 0 {
		return nil, apperr.NotFound("subtask", subtaskID)
	}
	prev := t.Subtasks[i]
	sub := t.Clone().Subtasks[i]
	if err := mergePatch(&sub, patch); err != nil {
		return nil, err
	}
	now := s.stamp()
	sub.ID = prev.ID
	if sub.Status == "" {
		sub.Status = prev.Status
	}
	s.prepareSubtask(&sub, &prev, t.ID, actor, now)
	if err := validate.Subtask(&sub); err != nil {
		return nil, err
	}
	if sub.Status != prev.Status && !status.IsValidTaskTransition(prev.Status, sub.Status) {
		return nil, invalidTransition("subtask", prev.Status, sub.Status)
	}

	t.Subtasks[i] = sub
	return s.saveTask(ctx, actor, t, now)
}

// DeleteSubtask removes one subtask.
func (s *Service) DeleteSubtask(ctx context.Context, actor, taskID, subtaskID string) (*TaskView, error) {
	t, err := s.taskFor(ctx, taskID)
	if err != nil {
		return nil, err
	}
	i := t.Subtask(subtaskID)
	if i < 0 {
		return nil, apperr.NotFound("subtask", subtaskID)
	}
	t.Subtasks = append(t.Subtasks[:i], t.Subtasks[i+1:]...)
	return s.saveTask(ctx, actor, t, s.stamp())
}

// ToggleChecklistItem marks a task checklist item complete or incomplete.
func (s *Service) ToggleChecklistItem(ctx context.Context, actor, taskID, itemID string, completed bool) (*TaskView, error) {
	t, err := s.taskFor(ctx, taskID)
	if err != nil {
		return nil, err
	}
	i := t.ChecklistItem(itemID)
	if i < 0 {
		return nil, apperr.NotFound("checklist item", itemID)
	}
	now := s.stamp()
	it := &t.Checklist[i]
	it.Completed = completed
	if completed {
		it.CompletedAt, it.CompletedBy = &now, actor
	} else {
		it.CompletedAt, it.CompletedBy = nil, ""
	}
	return s.saveTask(ctx, actor, t, now)
}

func (s *Service) saveTask(ctx context.Context, actor string, t *models.Task, now time.Time) (*TaskView, error) {
	t.UpdatedAt, t.UpdatedBy = now, actor
	if err := s.store.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	s.publish("task", "updated", t.ID, t.GoalID)
	v := taskView(*t)
	return &v, nil
}

// prepareWorkItem assigns checklist IDs and completion stamps, carrying over
// stamps for items that were already complete.
func (s *Service) prepareWorkItem(w *models.WorkItem, prev *models.WorkItem, actor string, now time.Time) {
	for i := range w.Checklist {
		it := &w.Checklist[i]
		if it.ID == "" {
			it.ID = s.newID()
		}
		var old *models.ChecklistItem
		if prev != nil {
			if j := prev.ChecklistItem(it.ID); j >= 0 {
				old = &prev.Checklist[j]
			}
		}
		switch {
		case !it.Completed:
			it.CompletedAt, it.CompletedBy = nil, ""
		case old != nil && old.Completed:
			it.CompletedAt, it.CompletedBy = old.CompletedAt, old.CompletedBy
		case it.CompletedAt == nil:
			it.CompletedAt, it.CompletedBy = &now, actor
		}
	}
}

func (s *Service) prepareSubtask(sub *models.Subtask, prev *models.Subtask, parentID, actor string, now time.Time) {
	if sub.ID == "" {
		sub.ID = s.newID()
	}
	sub.ParentID = parentID
	if prev != nil {
		sub.Audit = models.Audit{CreatedAt: prev.CreatedAt, CreatedBy: prev.CreatedBy, UpdatedAt: now, UpdatedBy: actor}
		s.prepareWorkItem(&sub.WorkItem, &prev.WorkItem, actor, now)
	} else {
		sub.Audit = models.Audit{CreatedAt: now, UpdatedAt: now, CreatedBy: actor, UpdatedBy: actor}
		s.prepareWorkItem(&sub.WorkItem, nil, actor, now)
	}
	if sub.Checklist == nil {
		sub.Checklist = []models.ChecklistItem{}
	}
}
