// Package progress derives 0-100 completion percentages for tasks and goals.
package progress

import (
	"math"

	"github.com/starford/goalpost/internal/models"
)

// Weights applied when a task has both subtasks and a checklist.
const (
	SubtaskWeight   = 0.7
	ChecklistWeight = 0.3
)

// InProgressDefault is reported for an in-progress task with nothing else to go on.
const InProgressDefault = 25

// CalculateTaskProgress returns the task's completion percentage.
//
// Completed tasks are 100. Otherwise subtasks and checklist items drive the
// value when present; empty lists count as absent. With neither, the stored
// progress is used, then a status heuristic.
func CalculateTaskProgress(t models.Task) int {
	if t.Status == models.TaskCompleted {
		return 100
	}

	hasSubtasks := len(t.Subtasks) > 0
	hasChecklist := len(t.Checklist) > 0

	switch {
	case hasSubtasks && hasChecklist:
		return round(SubtaskAverage(t.Subtasks)*SubtaskWeight + ChecklistPercent(t.Checklist)*ChecklistWeight)
	case hasSubtasks:
		return round(SubtaskAverage(t.Subtasks))
	case hasChecklist:
		return round(ChecklistPercent(t.Checklist))
	}

	if t.Progress != nil {
		return clamp(*t.Progress)
	}
	if t.Status == models.TaskInProgress {
		return InProgressDefault
	}
	return 0
}

// SubtaskProgress is a subtask's own contribution: 100 when completed, else its stored progress.
func SubtaskProgress(s models.Subtask) float64 {
	if s.Status == models.TaskCompleted {
		return 100
	}
	if s.Progress == nil {
		return 0
	}
	return float64(clamp(*s.Progress))
}

// SubtaskAverage is the mean SubtaskProgress, or 0 for an empty list.
func SubtaskAverage(subtasks []models.Subtask) float64 {
	if len(subtasks) == 0 {
		return 0
	}
	var sum float64
	for _, s := range subtasks {
		sum += SubtaskProgress(s)
	}
	return sum / float64(len(subtasks))
}

// ChecklistPercent is 100 * completed / total, or 0 for an empty list.
func ChecklistPercent(items []models.ChecklistItem) float64 {
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, it := range items {
		if it.Completed {
			done++
		}
	}
	return 100 * float64(done) / float64(len(items))
}

// GoalTaskProgress averages CalculateTaskProgress over a goal's tasks,
// ignoring cancelled ones. A goal without countable tasks reports 0.
func GoalTaskProgress(tasks []models.Task) int {
	var sum, n int
	for _, t := range tasks {
		if t.Status == models.TaskCancelled {
			continue
		}
		sum += CalculateTaskProgress(t)
		n++
	}
	if n == 0 {
		return 0
	}
	return round(float64(sum) / float64(n))
}

func round(v float64) int {
	return clamp(int(math.Round(v)))
}

func clamp(v int) int {
	return max(0, min(100, v))
}
