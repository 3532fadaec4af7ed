// Package validate holds the field and cross-field rule sets applied to user input
// before any mutation, plus the Gherkin acceptance-criteria checker.
package validate

import (
	"errors"
	"math"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/goalpost/internal/apperr"
	"github.com/starford/goalpost/internal/models"
)

// Goal checks a goal before it is created or updated.
func Goal(g *models.Goal) error {
	return collect(validation.ValidateStruct(g,
		validation.Field(&g.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&g.Description, validation.Length(0, 5000)),
		validation.Field(&g.Achievable, validation.Length(0, 2000)),
		validation.Field(&g.Relevance, validation.Length(0, 2000)),
		validation.Field(&g.Status, validation.Required, validation.In(anySlice(models.GoalStatuses())...)),
		validation.Field(&g.Priority, validation.Required, validation.In(anySlice(models.Priorities())...)),
		validation.Field(&g.Category, validation.Required, validation.Length(1, 50)),
		validation.Field(&g.OwnerID, validation.Required),
		validation.Field(&g.Tags, validation.Length(0, 20), validation.Each(validation.Required, validation.Length(1, 30))),
		validation.Field(&g.Measurable, validation.By(measurable)),
		validation.Field(&g.Timebound, validation.By(timebound)),
		validation.Field(&g.Milestones, validation.Each(validation.By(milestone))),
		validation.Field(&g.Outcomes, validation.Each(validation.Required, validation.Length(1, 500))),
		validation.Field(&g.Collaborators, validation.Each(validation.Required)),
		validation.Field(&g.DefinitionOfReady, validation.Each(validation.By(criterion)), validation.By(uniqueCriterionIDs)),
		validation.Field(&g.DefinitionOfDone, validation.Each(validation.By(criterion)), validation.By(uniqueCriterionIDs)),
	))
}

// Criteria checks a replacement DoR/DoD list.
func Criteria(list []models.Criterion) error {
	type wrapper struct {
		Criteria []models.Criterion `json:"criteria"`
	}
	w := wrapper{Criteria: list}
	return collect(validation.ValidateStruct(&w,
		validation.Field(&w.Criteria, validation.Each(validation.By(criterion)), validation.By(uniqueCriterionIDs)),
	))
}

// Task checks a task, its checklist and its subtasks.
func Task(t *models.Task) error {
	return collect(
		validation.ValidateStruct(&t.WorkItem, workItemFields(&t.WorkItem)...),
		validation.ValidateStruct(t,
			validation.Field(&t.GoalID, validation.Required),
			validation.Field(&t.Subtasks, validation.Each(validation.By(subtask))),
		),
	)
}

// Subtask checks a single subtask.
func Subtask(s *models.Subtask) error {
	return collect(
		validation.ValidateStruct(&s.WorkItem, workItemFields(&s.WorkItem)...),
		validation.ValidateStruct(s, validation.Field(&s.ParentID, validation.Required)),
	)
}

// Checkpoint checks a metric observation.
func Checkpoint(cp *models.Checkpoint) error {
	return collect(validation.ValidateStruct(cp,
		validation.Field(&cp.GoalID, validation.Required),
		validation.Field(&cp.Value, validation.By(finite)),
		validation.Field(&cp.RecordedAt, validation.Required),
		validation.Field(&cp.Note, validation.Length(0, 1000)),
		validation.Field(&cp.Confidence, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&cp.Source, validation.Length(0, 50)),
	))
}

// Fields converts per-field errors built from raw input, such as query
// parameters, into a *apperr.ValidationError. Nil entries are dropped.
func Fields(errs validation.Errors) error {
	return collect(errs.Filter())
}

func workItemFields(w *models.WorkItem) []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&w.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&w.Description, validation.Length(0, 5000)),
		validation.Field(&w.Status, validation.Required, validation.In(anySlice(models.TaskStatuses())...)),
		validation.Field(&w.Priority, validation.Required, validation.In(anySlice(models.Priorities())...)),
		validation.Field(&w.EstimatedHours, validation.Min(0.0), validation.Max(1000.0)),
		validation.Field(&w.ActualHours, validation.Min(0.0), validation.Max(10000.0)),
		validation.Field(&w.Progress, validation.Min(0), validation.Max(100)),
		validation.Field(&w.DueDate, validation.By(notBefore(w.StartDate))),
		validation.Field(&w.AcceptanceCriteria, validation.By(gherkin)),
		validation.Field(&w.Checklist, validation.Each(validation.By(checklistItem))),
	}
}

func measurable(value any) error {
	m, ok := value.(models.MeasurableSpec)
	if !ok {
		return nil
	}
	directions := []models.Direction{models.DirectionIncrease, models.DirectionDecrease, models.DirectionMaintain}
	return validation.ValidateStruct(&m,
		validation.Field(&m.Target, validation.By(finite)),
		validation.Field(&m.Current, validation.By(finite)),
		validation.Field(&m.Unit, validation.Length(0, 30)),
		validation.Field(&m.Direction, validation.Required, validation.In(anySlice(directions)...)),
		validation.Field(&m.Max, validation.By(func(any) error {
			if m.Min != nil && m.Max != nil && *m.Max < *m.Min {
				return errors.New("must not be less than min")
			}
			return nil
		})),
	)
}

func timebound(value any) error {
	tb, ok := value.(models.TimeboundSpec)
	if !ok {
		return nil
	}
	return validation.ValidateStruct(&tb,
		validation.Field(&tb.StartDate, validation.Required),
		validation.Field(&tb.TargetDate, validation.Required, validation.By(func(v any) error {
			target, _ := v.(time.Time)
			if tb.StartDate.IsZero() || target.IsZero() {
				return nil
			}
			if !target.After(tb.StartDate) {
				return errors.New("must be after the start date")
			}
			return nil
		})),
	)
}

func milestone(value any) error {
	ms, ok := value.(models.Milestone)
	if !ok {
		return nil
	}
	return validation.ValidateStruct(&ms,
		validation.Field(&ms.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&ms.TargetDate, validation.Required),
	)
}

func criterion(value any) error {
	cr, ok := value.(models.Criterion)
	if !ok {
		return nil
	}
	categories := []models.CriterionCategory{models.CategoryRequired, models.CategoryRecommended, models.CategoryOptional}
	return validation.ValidateStruct(&cr,
		validation.Field(&cr.Description, validation.Required, validation.Length(1, 500)),
		validation.Field(&cr.Category, validation.Required, validation.In(anySlice(categories)...)),
		validation.Field(&cr.HelpText, validation.Length(0, 1000)),
		validation.Field(&cr.Order, validation.Min(-1000), validation.Max(1000)),
		validation.Field(&cr.Validation, validation.By(func(v any) error {
			rule, _ := v.(*models.ValidationRule)
			if rule == nil {
				return nil
			}
			types := []models.RuleType{models.RuleRequired, models.RuleDependency, models.RuleConditional}
			return validation.ValidateStruct(rule,
				validation.Field(&rule.Type, validation.Required, validation.In(anySlice(types)...)),
				validation.Field(&rule.DependsOn,
					validation.When(rule.Type == models.RuleDependency, validation.Required),
					validation.By(func(any) error {
						if cr.ID != "" && slices.Contains(rule.DependsOn, cr.ID) {
							return errors.New("must not depend on itself")
						}
						return nil
					})),
				validation.Field(&rule.Condition, validation.When(rule.Type == models.RuleConditional, validation.Required)),
			)
		})),
	)
}

func uniqueCriterionIDs(value any) error {
	list, _ := value.([]models.Criterion)
	seen := make(map[string]struct{}, len(list))
	for _, cr := range list {
		if cr.ID == "" {
			continue
		}
		if _, dup := seen[cr.ID]; dup {
			return errors.New("criterion IDs must be unique: " + cr.ID)
		}
		seen[cr.ID] = struct{}{}
	}
	return nil
}

func subtask(value any) error {
	s, ok := value.(models.Subtask)
	if !ok {
		return nil
	}
	return validation.ValidateStruct(&s.WorkItem, workItemFields(&s.WorkItem)...)
}

func checklistItem(value any) error {
	it, ok := value.(models.ChecklistItem)
	if !ok {
		return nil
	}
	return validation.ValidateStruct(&it,
		validation.Field(&it.Description, validation.Required, validation.Length(1, 500)),
		validation.Field(&it.Order, validation.Min(0)),
	)
}

func notBefore(start *time.Time) validation.RuleFunc {
	return func(value any) error {
		due, _ := value.(*time.Time)
		if due == nil || start == nil {
			return nil
		}
		if due.Before(*start) {
			return errors.New("must not be before the start date")
		}
		return nil
	}
}

func gherkin(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if msgs := ValidateGherkin(s); len(msgs) > 0 {
		return errors.New(strings.Join(msgs, "; "))
	}
	return nil
}

func finite(value any) error {
	v, _ := value.(float64)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New("must be a finite number")
	}
	return nil
}

func anySlice[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// collect merges ozzo field errors into a single *apperr.ValidationError with
// dotted field paths sorted by name. Internal validation errors pass through.
func collect(errs ...error) error {
	merged := validation.Errors{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var fe validation.Errors
		if !errors.As(err, &fe) {
			return err
		}
		for k, v := range fe {
			merged[k] = v
		}
	}
	if len(merged) == 0 {
		return nil
	}
	var issues []apperr.FieldIssue
	flatten("", merged, &issues)
	slices.SortFunc(issues, func(a, b apperr.FieldIssue) int {
		return strings.Compare(a.Field, b.Field)
	})
	return &apperr.ValidationError{Issues: issues}
}

func flatten(prefix string, errs validation.Errors, out *[]apperr.FieldIssue) {
	for k, err := range errs {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			flatten(name, nested, out)
			continue
		}
		*out = append(*out, apperr.FieldIssue{Field: name, Message: err.Error()})
	}
}
