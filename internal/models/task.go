package models

import "time"

// TaskStatus is the lifecycle state of a task or subtask.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskBlocked    TaskStatus = "blocked"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// TaskStatuses lists every task status.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskTodo, TaskInProgress, TaskBlocked, TaskCompleted, TaskCancelled}
}

// ChecklistItem is one line of a task checklist.
type ChecklistItem struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Required    bool       `json:"required"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CompletedBy string     `json:"completedBy,omitempty"`
	Order       int        `json:"order"`
}

// WorkItem holds the fields tasks and subtasks share.
type WorkItem struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Status             TaskStatus      `json:"status"`
	Priority           Priority        `json:"priority"`
	AssigneeID         string          `json:"assigneeId,omitempty"`
	EstimatedHours     *float64        `json:"estimatedHours,omitempty"`
	ActualHours        *float64        `json:"actualHours,omitempty"`
	StartDate          *time.Time      `json:"startDate,omitempty"`
	DueDate            *time.Time      `json:"dueDate,omitempty"`
	Progress           *int            `json:"progress,omitempty"`
	AcceptanceCriteria string          `json:"acceptanceCriteria,omitempty"`
	Checklist          []ChecklistItem `json:"checklist"`

	Audit
}

// Subtask is a work item scoped to a parent task.
type Subtask struct {
	WorkItem
	ParentID string `json:"parentId"`
}

// Task is a unit of work belonging to a goal.
type Task struct {
	WorkItem
	GoalID   string    `json:"goalId"`
	Subtasks []Subtask `json:"subtasks"`
}

// Normalize replaces nil collections with empty ones.
func (t *Task) Normalize() {
	t.Checklist = nonNil(t.Checklist)
	t.Subtasks = nonNil(t.Subtasks)
	for i := range t.Subtasks {
		t.Subtasks[i].Checklist = nonNil(t.Subtasks[i].Checklist)
	}
}

// Subtask returns the index of the subtask with the given ID, or -1.
func (t *Task) Subtask(id string) int {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return i
		}
	}
	return -1
}

// ChecklistItem returns the index of the checklist item with the given ID, or -1.
func (w *WorkItem) ChecklistItem(id string) int {
	for i := range w.Checklist {
		if w.Checklist[i].ID == id {
			return i
		}
	}
	return -1
}
