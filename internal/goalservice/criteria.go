package goalservice

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/goalpost/internal/apperr"
	"github.com/starford/goalpost/internal/models"
	"github.com/starford/goalpost/internal/readiness"
	"github.com/starford/goalpost/internal/validate"
)

// CriteriaList names one of a goal's two criteria lists.
type CriteriaList string

const (
	ListReady CriteriaList = "ready"
	ListDone  CriteriaList = "done"
)

// ParseCriteriaList accepts "ready" or "done".
func ParseCriteriaList(s string) (CriteriaList, error) {
	switch CriteriaList(s) {
	case ListReady, ListDone:
		return CriteriaList(s), nil
	}
	return "", apperr.Invalid("list", `must be "ready" or "done"`)
}

func (l CriteriaList) of(g *models.Goal) *[]models.Criterion {
	if l == ListDone {
		return &g.DefinitionOfDone
	}
	return &g.DefinitionOfReady
}

// prepareCriteria stamps new criteria and carries completion metadata over from prev.
func (s *Service) prepareCriteria(list, prev []models.Criterion, actor string, now time.Time) {
	byID := make(map[string]models.Criterion, len(prev))
	for _, c := range prev {
		byID[c.ID] = c
	}
	for i := range list {
		c := &list[i]
		if c.ID == "" {
			c.ID = s.newID()
		}
		old, existed := byID[c.ID]
		if existed {
			c.CreatedAt = old.CreatedAt
		} else if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		switch {
		case !c.Completed:
			c.CompletedAt, c.CompletedBy = nil, ""
		case existed && old.Completed:
			c.CompletedAt, c.CompletedBy = old.CompletedAt, old.CompletedBy
		case c.CompletedAt == nil:
			c.CompletedAt = &now
			c.CompletedBy = actor
		}
	}
}

// ReplaceCriteria swaps the whole DoR or DoD list.
func (s *Service) ReplaceCriteria(ctx context.Context, actor, goalID string, list CriteriaList, criteria []models.Criterion) (*ReadinessView, error) {
	g, err := s.goalFor(ctx, goalID)
	if err != nil {
		return nil, err
	}
	now := s.stamp()
	target := list.of(g)
	next := append([]models.Criterion{}, criteria...)
	s.prepareCriteria(next, *target, actor, now)
	if err := validate.Criteria(next); err != nil {
		return nil, err
	}

	*target = readiness.Sort(next)
	g.UpdatedAt, g.UpdatedBy = now, actor
	if err := s.store.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}
	s.publish("goal", "updated", g.ID, g.ID)
	v := readinessView(g)
	return &v, nil
}

// ToggleCriterion marks a criterion complete or incomplete. Completing a
// criterion whose dependencies are unmet is rejected.
func (s *Service) ToggleCriterion(ctx context.Context, actor, goalID string, list CriteriaList, criterionID string, completed bool) (*ReadinessView, error) {
	g, err := s.goalFor(ctx, goalID)
	if err != nil {
		return nil, err
	}
	target := list.of(g)
	idx := -1
	for i := range *target {
		if (*target)[i].ID == criterionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperr.NotFound("criterion", criterionID)
	}

	now := s.stamp()
	c := &(*target)[idx]
	c.Completed = completed
	if completed {
		c.CompletedAt, c.CompletedBy = &now, actor
	} else {
		c.CompletedAt, c.CompletedBy = nil, ""
	}

	for _, is := range readiness.Validate(*target).Errors {
		if is.CriterionID == criterionID && is.Rule == models.RuleDependency {
			return nil, apperr.Invalid(fmt.Sprintf("criteria.%s", criterionID), is.Message)
		}
	}

	g.UpdatedAt, g.UpdatedBy = now, actor
	if err := s.store.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}
	s.publish("goal", "updated", g.ID, g.ID)
	v := readinessView(g)
	return &v, nil
}
