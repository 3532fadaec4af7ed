package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starford/goalpost/internal/models"
)

func task(status models.TaskStatus) models.Task {
	return models.Task{WorkItem: models.WorkItem{ID: "t1", Status: status}}
}

func checklist(total, done int) []models.ChecklistItem {
	items := make([]models.ChecklistItem, total)
	for i := range items {
		items[i].Completed = i < done
	}
	return items
}

func subtask(status models.TaskStatus, p *int) models.Subtask {
	return models.Subtask{WorkItem: models.WorkItem{Status: status, Progress: p}}
}

func intp(v int) *int { return &v }

func TestCompletedTaskIsAlwaysFull(t *testing.T) {
	tk := task(models.TaskCompleted)
	tk.Checklist = checklist(4, 0)
	assert.Equal(t, 100, CalculateTaskProgress(tk))
}

func TestChecklistOnly(t *testing.T) {
	tk := task(models.TaskInProgress)
	tk.Checklist = checklist(4, 2)
	assert.Equal(t, 50, CalculateTaskProgress(tk))

	tk.Checklist = checklist(3, 1)
	assert.Equal(t, 33, CalculateTaskProgress(tk))
}

func TestSubtasksOnly(t *testing.T) {
	tk := task(models.TaskInProgress)
	tk.Subtasks = []models.Subtask{
		subtask(models.TaskCompleted, intp(10)),
		subtask(models.TaskInProgress, intp(50)),
		subtask(models.TaskTodo, nil),
	}
	assert.Equal(t, 50, CalculateTaskProgress(tk))
}

func TestSubtasksAndChecklistAreWeighted(t *testing.T) {
	tk := task(models.TaskInProgress)
	tk.Subtasks = []models.Subtask{
		subtask(models.TaskCompleted, nil),
		subtask(models.TaskInProgress, intp(50)),
	}
	tk.Checklist = checklist(4, 1)
	// 75*0.7 + 25*0.3 = 60
	assert.Equal(t, 60, CalculateTaskProgress(tk))
}

func TestTodoTaskWithChildrenIsNotForcedToZero(t *testing.T) {
	tk := task(models.TaskTodo)
	tk.Checklist = checklist(2, 1)
	assert.Equal(t, 50, CalculateTaskProgress(tk))
}

func TestFallbacksWithoutChildren(t *testing.T) {
	tk := task(models.TaskInProgress)
	tk.Subtasks = []models.Subtask{}
	tk.Checklist = []models.ChecklistItem{}
	assert.Equal(t, InProgressDefault, CalculateTaskProgress(tk))

	tk.Progress = intp(40)
	assert.Equal(t, 40, CalculateTaskProgress(tk))

	tk.Progress = intp(140)
	assert.Equal(t, 100, CalculateTaskProgress(tk))

	assert.Equal(t, 0, CalculateTaskProgress(task(models.TaskTodo)))
	assert.Equal(t, 0, CalculateTaskProgress(task(models.TaskBlocked)))
}

func TestEmptyHelpersDoNotDivideByZero(t *testing.T) {
	assert.Zero(t, ChecklistPercent(nil))
	assert.Zero(t, SubtaskAverage(nil))
}

func TestGoalTaskProgress(t *testing.T) {
	done := task(models.TaskCompleted)
	half := task(models.TaskInProgress)
	half.Checklist = checklist(2, 1)
	cancelled := task(models.TaskCancelled)

	assert.Equal(t, 75, GoalTaskProgress([]models.Task{done, half, cancelled}))
	assert.Equal(t, 0, GoalTaskProgress(nil))
	assert.Equal(t, 0, GoalTaskProgress([]models.Task{cancelled}))
}
