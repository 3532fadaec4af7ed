package goalservice

import (
	"context"
	"errors"
	"time"

	"github.com/starford/goalpost/internal/apperr"
	"github.com/starford/goalpost/internal/metrics"
	"github.com/starford/goalpost/internal/models"
	"github.com/starford/goalpost/internal/progress"
	"github.com/starford/goalpost/internal/readiness"
	"github.com/starford/goalpost/internal/status"
	"github.com/starford/goalpost/internal/store"
	"github.com/starford/goalpost/internal/validate"
)

// GoalPage is one page of a goal listing.
type GoalPage struct {
	Items   []models.Goal `json:"items"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
	HasMore bool          `json:"hasMore"`
}

// ReadinessView scores both criteria lists of a goal.
type ReadinessView struct {
	GoalID          string           `json:"goalId"`
	Ready           readiness.Score  `json:"definitionOfReady"`
	Done            readiness.Score  `json:"definitionOfDone"`
	ReadyValidation readiness.Result `json:"readyValidation"`
	DoneValidation  readiness.Result `json:"doneValidation"`
}

// GoalDetail is a goal with its children and derived views.
type GoalDetail struct {
	models.Goal
	ETag         string              `json:"etag"`
	Tasks        []TaskView          `json:"tasks"`
	Checkpoints  []models.Checkpoint `json:"checkpoints"`
	TaskProgress int                 `json:"taskProgress"`
	Readiness    ReadinessView       `json:"readiness"`
	Analytics    metrics.Snapshot    `json:"analytics"`
	Warnings     []string            `json:"warnings"`
}

// TransitionResult is returned by a successful goal transition.
type TransitionResult struct {
	Goal     *GoalDetail `json:"goal"`
	From     string      `json:"from"`
	To       string      `json:"to"`
	Warnings []string    `json:"warnings"`
}

func readinessView(g *models.Goal) ReadinessView {
	return ReadinessView{
		GoalID:          g.ID,
		Ready:           readiness.Evaluate(g.DefinitionOfReady),
		Done:            readiness.Evaluate(g.DefinitionOfDone),
		ReadyValidation: readiness.Validate(g.DefinitionOfReady),
		DoneValidation:  readiness.Validate(g.DefinitionOfDone),
	}
}

// ListGoals returns a filtered, sorted page of goals.
func (s *Service) ListGoals(ctx context.Context, q store.GoalQuery) (*GoalPage, error) {
	q = q.WithDefaults()
	goals, total, err := s.store.ListGoals(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range goals {
		goals[i].Normalize()
	}
	return &GoalPage{
		Items:   goals,
		Total:   total,
		Page:    q.Page,
		Limit:   q.Limit,
		HasMore: q.Offset()+len(goals) < total,
	}, nil
}

// GetGoal returns a live goal with tasks, checkpoints and derived views.
func (s *Service) GetGoal(ctx context.Context, id string) (*GoalDetail, error) {
	g, err := s.goalFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, g)
}

func (s *Service) detail(ctx context.Context, g *models.Goal) (*GoalDetail, error) {
	tasks, err := s.store.ListTasks(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	cps, err := s.store.ListCheckpoints(ctx, g.ID)
	if err != nil {
		return nil, err
	}

	views := make([]TaskView, len(tasks))
	for i := range tasks {
		views[i] = taskView(tasks[i])
	}
	warnings := validate.GoalWarnings(*g)
	if warnings == nil {
		warnings = []string{}
	}
	return &GoalDetail{
		Goal:         *g,
		ETag:         ETag(g),
		Tasks:        views,
		Checkpoints:  cps,
		TaskProgress: progress.GoalTaskProgress(tasks),
		Readiness:    readinessView(g),
		Analytics:    s.analyzer.Snapshot(g.Measurable, g.Timebound, cps),
		Warnings:     warnings,
	}, nil
}

// CreateGoal validates and stores a new goal. Unset status, priority and
// direction default to draft, medium and increase.
func (s *Service) CreateGoal(ctx context.Context, actor string, in models.Goal) (*GoalDetail, error) {
	now := s.stamp()
	g := in
	if g.ID == "" {
		g.ID = s.newID()
	}
	if g.Status == "" {
		g.Status = models.GoalDraft
	}
	if g.Priority == "" {
		g.Priority = models.PriorityMedium
	}
	if g.OwnerID == "" {
		g.OwnerID = actor
	}
	if g.Measurable.Direction == "" {
		g.Measurable.Direction = models.DirectionIncrease
	}
	g.Deleted, g.DeletedAt, g.DeletedBy = false, nil, ""
	g.Audit = models.Audit{CreatedAt: now, UpdatedAt: now, CreatedBy: actor, UpdatedBy: actor}
	s.prepareGoalChildren(&g, nil, actor, now)
	g.Normalize()

	if err := validate.Goal(&g); err != nil {
		return nil, err
	}
	if err := s.store.CreateGoal(ctx, &g); err != nil {
		return nil, err
	}
	s.publish("goal", "created", g.ID, g.ID)
	return s.detail(ctx, &g)
}

// ReplaceGoal applies a full replacement (PUT). Immutable fields are preserved.
func (s *Service) ReplaceGoal(ctx context.Context, actor, id string, in models.Goal, ifMatch string) (*GoalDetail, error) {
	return s.updateGoal(ctx, actor, id, ifMatch, func(g *models.Goal) error {
		*g = in
		return nil
	})
}

// PatchGoal merges a partial JSON document (PATCH). Immutable fields are preserved.
func (s *Service) PatchGoal(ctx context.Context, actor, id string, patch []byte, ifMatch string) (*GoalDetail, error) {
	return s.updateGoal(ctx, actor, id, ifMatch, func(g *models.Goal) error {
		return mergePatch(g, patch)
	})
}

func (s *Service) updateGoal(ctx context.Context, actor, id, ifMatch string, apply func(*models.Goal) error) (*GoalDetail, error) {
	existing, err := s.goalFor(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkETag(existing, ifMatch); err != nil {
		return nil, err
	}

	g := existing.Clone()
	if err := apply(&g); err != nil {
		return nil, err
	}
	now := s.stamp()
	g.ID = existing.ID
	g.Audit = models.Audit{CreatedAt: existing.CreatedAt, CreatedBy: existing.CreatedBy, UpdatedAt: now, UpdatedBy: actor}
	g.Deleted, g.DeletedAt, g.DeletedBy = existing.Deleted, existing.DeletedAt, existing.DeletedBy
	inheritBlank(&g, existing)
	s.prepareGoalChildren(&g, existing, actor, now)
	g.Normalize()

	if err := validate.Goal(&g); err != nil {
		return nil, err
	}
	if g.Status != existing.Status {
		if !status.IsValidGoalTransition(existing.Status, g.Status) {
			return nil, invalidTransition("goal", existing.Status, g.Status)
		}
		if c := status.GoalConfirmation(existing.Status, g.Status); c.Required {
			return nil, &ConfirmationError{Confirmation: c}
		}
	}
	if err := s.store.UpdateGoal(ctx, &g); err != nil {
		return nil, err
	}
	s.publish("goal", "updated", g.ID, g.ID)
	return s.detail(ctx, &g)
}

// ImportGoal creates in, or replaces the goal with the same ID and clears any
// soft deletion. Imported documents are authoritative, so status moves skip
// the transition table.
func (s *Service) ImportGoal(ctx context.Context, actor string, in models.Goal) (created bool, err error) {
	existing, err := s.store.GetGoal(ctx, in.ID)
	if errors.Is(err, apperr.ErrNotFound) {
		_, err = s.CreateGoal(ctx, actor, in)
		return err == nil, err
	}
	if err != nil {
		return false, err
	}

	now := s.stamp()
	g := in
	g.Audit = models.Audit{CreatedAt: existing.CreatedAt, CreatedBy: existing.CreatedBy, UpdatedAt: now, UpdatedBy: actor}
	g.Deleted, g.DeletedAt, g.DeletedBy = false, nil, ""
	inheritBlank(&g, existing)
	s.prepareGoalChildren(&g, existing, actor, now)
	g.Normalize()
	if err := validate.Goal(&g); err != nil {
		return false, err
	}
	if err := s.store.UpdateGoal(ctx, &g); err != nil {
		return false, err
	}
	s.publish("goal", "updated", g.ID, g.ID)
	return false, nil
}

// inheritBlank fills enum and owner fields a replacement left blank from the stored goal.
func inheritBlank(g, existing *models.Goal) {
	if g.Status == "" {
		g.Status = existing.Status
	}
	if g.Priority == "" {
		g.Priority = existing.Priority
	}
	if g.OwnerID == "" {
		g.OwnerID = existing.OwnerID
	}
	if g.Measurable.Direction == "" {
		g.Measurable.Direction = existing.Measurable.Direction
	}
}

// DeleteGoal soft-deletes a goal, or removes it and its children when permanent.
func (s *Service) DeleteGoal(ctx context.Context, actor, id string, permanent bool) error {
	if permanent {
		if err := s.store.DeleteGoal(ctx, id); err != nil {
			return err
		}
		s.publish("goal", "deleted", id, id)
		return nil
	}

	g, err := s.goalFor(ctx, id)
	if err != nil {
		return err
	}
	now := s.stamp()
	g.Deleted = true
	g.DeletedAt = &now
	g.DeletedBy = actor
	g.UpdatedAt = now
	g.UpdatedBy = actor
	if err := s.store.UpdateGoal(ctx, g); err != nil {
		return err
	}
	s.publish("goal", "deleted", id, id)
	return nil
}

// TransitionGoal moves a goal to a new status. Moves into completed or
// cancelled fail with a *ConfirmationError unless confirmed is set.
func (s *Service) TransitionGoal(ctx context.Context, actor, id string, to models.GoalStatus, confirmed bool) (*TransitionResult, error) {
	g, err := s.goalFor(ctx, id)
	if err != nil {
		return nil, err
	}
	from := g.Status
	if !status.IsValidGoalTransition(from, to) {
		return nil, invalidTransition("goal", from, to)
	}
	if c := status.GoalConfirmation(from, to); c.Required && !confirmed {
		return nil, &ConfirmationError{Confirmation: c}
	}

	warnings := []string{}
	switch to {
	case models.GoalActive:
		if !readiness.IsReadyToStart(g.DefinitionOfReady) {
			warnings = append(warnings, "required Definition of Ready criteria are incomplete")
		}
	case models.GoalCompleted:
		if !readiness.IsReadyToComplete(g.DefinitionOfDone) {
			warnings = append(warnings, "Definition of Done criteria are incomplete")
		}
	}

	g.Status = to
	g.UpdatedAt = s.stamp()
	g.UpdatedBy = actor
	if err := s.store.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}
	s.publish("goal", "transitioned", g.ID, g.ID)

	d, err := s.detail(ctx, g)
	if err != nil {
		return nil, err
	}
	return &TransitionResult{Goal: d, From: string(from), To: string(to), Warnings: warnings}, nil
}

// Readiness scores and validates a goal's DoR and DoD.
func (s *Service) Readiness(ctx context.Context, id string) (*ReadinessView, error) {
	g, err := s.goalFor(ctx, id)
	if err != nil {
		return nil, err
	}
	v := readinessView(g)
	return &v, nil
}

// Analytics computes a metric snapshot over the checkpoints recorded in
// [from, to]. Zero bounds are open.
func (s *Service) Analytics(ctx context.Context, id string, from, to time.Time) (*metrics.Snapshot, error) {
	g, err := s.goalFor(ctx, id)
	if err != nil {
		return nil, err
	}
	cps, err := s.store.ListCheckpoints(ctx, id)
	if err != nil {
		return nil, err
	}
	snap := s.analyzer.Snapshot(g.Measurable, g.Timebound, metrics.Window(cps, from, to))
	return &snap, nil
}

// prepareGoalChildren assigns IDs and creation stamps to new milestones and
// criteria, keeping stamps of entries that already existed.
func (s *Service) prepareGoalChildren(g *models.Goal, existing *models.Goal, actor string, now time.Time) {
	for i := range g.Milestones {
		if g.Milestones[i].ID == "" {
			g.Milestones[i].ID = s.newID()
		}
		if g.Milestones[i].Completed && g.Milestones[i].CompletedAt == nil {
			g.Milestones[i].CompletedAt = &now
		}
		if !g.Milestones[i].Completed {
			g.Milestones[i].CompletedAt = nil
		}
	}
	var prevReady, prevDone []models.Criterion
	if existing != nil {
		prevReady, prevDone = existing.DefinitionOfReady, existing.DefinitionOfDone
	}
	s.prepareCriteria(g.DefinitionOfReady, prevReady, actor, now)
	s.prepareCriteria(g.DefinitionOfDone, prevDone, actor, now)
}
