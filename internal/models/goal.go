// Package models defines the domain types for goalpost.
package models

import "time"

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalDraft     GoalStatus = "draft"
	GoalActive    GoalStatus = "active"
	GoalOnHold    GoalStatus = "on_hold"
	GoalCompleted GoalStatus = "completed"
	GoalCancelled GoalStatus = "cancelled"
	GoalOverdue   GoalStatus = "overdue"
)

// GoalStatuses lists every goal status in lifecycle order.
func GoalStatuses() []GoalStatus {
	return []GoalStatus{GoalDraft, GoalActive, GoalOnHold, GoalOverdue, GoalCompleted, GoalCancelled}
}

// Priority is shared by goals and tasks.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists every priority from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// Rank orders priorities; unknown values rank below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	}
	return 0
}

// Direction says which way a measurable value should move.
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
	DirectionMaintain Direction = "maintain"
)

// Audit holds the creation and modification stamps every entity carries.
type Audit struct {
	CreatedAt time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"-"`
	CreatedBy string    `json:"createdBy" yaml:"-"`
	UpdatedBy string    `json:"updatedBy" yaml:"-"`
}

// MeasurableSpec is the "M" of a SMART goal.
type MeasurableSpec struct {
	Target    float64   `json:"target" yaml:"target"`
	Current   float64   `json:"current" yaml:"current"`
	Baseline  *float64  `json:"baseline,omitempty" yaml:"baseline,omitempty"`
	Min       *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64  `json:"max,omitempty" yaml:"max,omitempty"`
	Unit      string    `json:"unit" yaml:"unit"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// TimeboundSpec is the "T" of a SMART goal.
type TimeboundSpec struct {
	StartDate  time.Time `json:"startDate" yaml:"start_date"`
	TargetDate time.Time `json:"targetDate" yaml:"target_date"`
}

// Milestone is an intermediate dated marker on the way to a goal.
type Milestone struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	TargetDate  time.Time  `json:"targetDate" yaml:"target_date"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"-"`
}

// Goal is a SMART objective.
type Goal struct {
	ID            string         `json:"id" yaml:"id"`
	Title         string         `json:"title" yaml:"title"`
	Description   string         `json:"description" yaml:"-"`
	Achievable    string         `json:"achievable,omitempty" yaml:"achievable,omitempty"`
	Relevance     string         `json:"relevance,omitempty" yaml:"relevance,omitempty"`
	Status        GoalStatus     `json:"status" yaml:"status"`
	Priority      Priority       `json:"priority" yaml:"priority"`
	Category      string         `json:"category" yaml:"category"`
	OwnerID       string         `json:"ownerId" yaml:"owner_id"`
	Tags          []string       `json:"tags" yaml:"tags,omitempty"`
	Measurable    MeasurableSpec `json:"measurable" yaml:"measurable"`
	Timebound     TimeboundSpec  `json:"timebound" yaml:"timebound"`
	Milestones    []Milestone    `json:"milestones" yaml:"milestones,omitempty"`
	Outcomes      []string       `json:"outcomes" yaml:"outcomes,omitempty"`
	Collaborators []string       `json:"collaborators" yaml:"collaborators,omitempty"`

	DefinitionOfReady []Criterion `json:"definitionOfReady" yaml:"definition_of_ready,omitempty"`
	DefinitionOfDone  []Criterion `json:"definitionOfDone" yaml:"definition_of_done,omitempty"`

	Deleted   bool       `json:"deleted" yaml:"-"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" yaml:"-"`
	DeletedBy string     `json:"deletedBy,omitempty" yaml:"-"`

	Audit `yaml:",inline"`
}

// Normalize replaces nil collections with empty ones so JSON renders [] rather than null.
func (g *Goal) Normalize() {
	g.Tags = nonNil(g.Tags)
	g.Milestones = nonNil(g.Milestones)
	g.Outcomes = nonNil(g.Outcomes)
	g.Collaborators = nonNil(g.Collaborators)
	g.DefinitionOfReady = nonNil(g.DefinitionOfReady)
	g.DefinitionOfDone = nonNil(g.DefinitionOfDone)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
