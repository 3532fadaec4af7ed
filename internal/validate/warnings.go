package validate

import (
	"fmt"

	"github.com/starford/goalpost/internal/models"
	"github.com/starford/goalpost/internal/readiness"
)

// OverrunRatio is how far actual hours may exceed the estimate before a warning.
const OverrunRatio = 1.5

// TaskWarnings returns non-blocking findings for a task and its subtasks.
func TaskWarnings(t models.Task) []string {
	warnings := workItemWarnings("task", t.WorkItem)
	for _, s := range t.Subtasks {
		warnings = append(warnings, workItemWarnings(fmt.Sprintf("subtask %q", s.Title), s.WorkItem)...)
	}
	return warnings
}

func workItemWarnings(label string, w models.WorkItem) []string {
	var out []string
	if w.EstimatedHours != nil && w.ActualHours != nil && *w.EstimatedHours > 0 &&
		*w.ActualHours > *w.EstimatedHours*OverrunRatio {
		out = append(out, fmt.Sprintf("%s has used %.1f hours against an estimate of %.1f", label, *w.ActualHours, *w.EstimatedHours))
	}
	if w.Status == models.TaskCompleted {
		for _, it := range w.Checklist {
			if it.Required && !it.Completed {
				out = append(out, fmt.Sprintf("%s is completed but required checklist item %q is not", label, it.Description))
			}
		}
	}
	return out
}

// GoalWarnings returns non-blocking findings for a goal's criteria lists.
func GoalWarnings(g models.Goal) []string {
	var out []string
	for _, list := range []struct {
		name     string
		criteria []models.Criterion
	}{
		{"definitionOfReady", g.DefinitionOfReady},
		{"definitionOfDone", g.DefinitionOfDone},
	} {
		for _, w := range readiness.Validate(list.criteria).Warnings {
			out = append(out, list.name+": "+w.Message)
		}
	}
	return out
}
