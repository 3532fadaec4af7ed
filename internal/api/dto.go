package api

import (
	"github.com/starford/goalpost/internal/goalservice"
	"github.com/starford/goalpost/internal/models"
	"github.com/starford/goalpost/internal/status"
	"github.com/starford/goalpost/internal/validate"
)

// TransitionRequest is the request body for goal and task transitions.
type TransitionRequest struct {
	Status    string `json:"status" example:"active" validate:"required"`
	Confirmed bool   `json:"confirmed" example:"true"`
}

// ToggleRequest is the request body for completing a criterion or checklist item.
type ToggleRequest struct {
	Completed bool `json:"completed" example:"true"`
}

// CriteriaRequest replaces a goal's Definition of Ready or Done.
type CriteriaRequest struct {
	Criteria []models.Criterion `json:"criteria" validate:"required"`
}

// GherkinRequest is the request body for acceptance-criteria validation.
type GherkinRequest struct {
	Content string `json:"content" example:"Given a user\nWhen they log in\nThen they see the dashboard"`
}

// GherkinResponse reports parsed steps and any violations.
type GherkinResponse struct {
	Valid  bool                   `json:"valid"`
	Errors []string               `json:"errors"`
	Steps  []validate.GherkinStep `json:"steps"`
}

// TransitionCheckResponse answers GET /transitions.
type TransitionCheckResponse = status.Check

// ListResponse is the paginated list envelope.
type ListResponse[T any] struct {
	Items   []T  `json:"items" validate:"required"`
	Total   int  `json:"total" example:"42"`
	Page    int  `json:"page" example:"1"`
	Limit   int  `json:"limit" example:"20"`
	HasMore bool `json:"hasMore"`
}

// GoalDetail is the full goal response type (aliased from the domain layer).
type GoalDetail = goalservice.GoalDetail

// TaskView is a task response (aliased from the domain layer).
type TaskView = goalservice.TaskView
