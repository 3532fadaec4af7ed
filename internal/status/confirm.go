package status

import "github.com/starford/goalpost/internal/models"

// Confirmation describes whether a transition needs an explicit user acknowledgement.
type Confirmation struct {
	Required bool   `json:"requiresConfirmation"`
	Message  string `json:"message,omitempty"`
	Warning  string `json:"warning,omitempty"`
}

// TaskConfirmation reports whether moving a task into to requires confirmation.
// Only completion and cancellation do; both are terminal.
func TaskConfirmation(from, to models.TaskStatus) Confirmation {
	switch to {
	case models.TaskCompleted:
		c := Confirmation{
			Required: true,
			Message:  "Mark this task as completed? Its progress will be set to 100%.",
			Warning:  "Completed tasks cannot be reopened.",
		}
		if from == models.TaskBlocked {
			c.Warning = "This task is blocked. " + c.Warning
		}
		return c
	case models.TaskCancelled:
		return Confirmation{
			Required: true,
			Message:  "Cancel this task? Remaining work will be abandoned.",
			Warning:  "Cancelled tasks cannot be reopened.",
		}
	}
	return Confirmation{}
}

// GoalConfirmation reports whether moving a goal into to requires confirmation.
func GoalConfirmation(from, to models.GoalStatus) Confirmation {
	switch to {
	case models.GoalCompleted:
		c := Confirmation{
			Required: true,
			Message:  "Mark this goal as completed?",
			Warning:  "Completed goals cannot be reactivated.",
		}
		if from == models.GoalOverdue {
			c.Warning = "This goal is past its target date. " + c.Warning
		}
		return c
	case models.GoalCancelled:
		return Confirmation{
			Required: true,
			Message:  "Cancel this goal? Its tasks will no longer count toward progress.",
			Warning:  "Cancelled goals cannot be reactivated.",
		}
	}
	return Confirmation{}
}
