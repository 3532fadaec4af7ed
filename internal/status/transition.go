// Package status defines the task and goal lifecycle graphs and their transition guards.
package status

import (
	"fmt"
	"slices"

	"github.com/starford/goalpost/internal/models"
)

type table[S ~string] map[S]map[S]struct{}

func (t table[S]) allows(from, to S) bool {
	if from == "" || to == "" {
		return false
	}
	next, ok := t[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

func (t table[S]) next(from S) []S {
	out := make([]S, 0, len(t[from]))
	for s := range t[from] {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// check verifies that every known state has a row and every target is a known state.
func (t table[S]) check(kind string, states []S) error {
	for _, s := range states {
		if _, ok := t[s]; !ok {
			return fmt.Errorf("status: %s table has no row for %q", kind, s)
		}
	}
	for from, next := range t {
		if !slices.Contains(states, from) {
			return fmt.Errorf("status: %s table has unknown state %q", kind, from)
		}
		for to := range next {
			if !slices.Contains(states, to) {
				return fmt.Errorf("status: %s table has unknown target %q from %q", kind, to, from)
			}
			if to == from {
				return fmt.Errorf("status: %s table has self loop on %q", kind, from)
			}
		}
	}
	return nil
}

var taskTransitions = table[models.TaskStatus]{
	models.TaskTodo: {
		models.TaskInProgress: {},
		models.TaskCancelled:  {},
	},
	models.TaskInProgress: {
		models.TaskBlocked:   {},
		models.TaskCompleted: {},
		models.TaskTodo:      {},
		models.TaskCancelled: {},
	},
	models.TaskBlocked: {
		models.TaskInProgress: {},
		models.TaskCancelled:  {},
	},
	models.TaskCompleted: {},
	models.TaskCancelled: {},
}

var goalTransitions = table[models.GoalStatus]{
	models.GoalDraft: {
		models.GoalActive:    {},
		models.GoalCancelled: {},
	},
	models.GoalActive: {
		models.GoalOnHold:    {},
		models.GoalCompleted: {},
		models.GoalCancelled: {},
		models.GoalOverdue:   {},
	},
	models.GoalOnHold: {
		models.GoalActive:    {},
		models.GoalCancelled: {},
	},
	models.GoalOverdue: {
		models.GoalActive:    {},
		models.GoalCompleted: {},
		models.GoalCancelled: {},
	},
	models.GoalCompleted: {},
	models.GoalCancelled: {},
}

func init() {
	if err := CheckTables(); err != nil {
		panic(err)
	}
}

// CheckTables reports an error when either lifecycle table is incomplete.
func CheckTables() error {
	if err := taskTransitions.check("task", models.TaskStatuses()); err != nil {
		return err
	}
	return goalTransitions.check("goal", models.GoalStatuses())
}

// IsValidTaskTransition reports whether a task may move from one status to another.
func IsValidTaskTransition(from, to models.TaskStatus) bool {
	return taskTransitions.allows(from, to)
}

// IsValidGoalTransition reports whether a goal may move from one status to another.
func IsValidGoalTransition(from, to models.GoalStatus) bool {
	return goalTransitions.allows(from, to)
}

// AllowedTaskNext lists the statuses a task may move to, sorted.
func AllowedTaskNext(from models.TaskStatus) []models.TaskStatus {
	return taskTransitions.next(from)
}

// AllowedGoalNext lists the statuses a goal may move to, sorted.
func AllowedGoalNext(from models.GoalStatus) []models.GoalStatus {
	return goalTransitions.next(from)
}

// IsTerminalTask reports whether no transition leaves the status.
func IsTerminalTask(s models.TaskStatus) bool {
	next, ok := taskTransitions[s]
	return ok && len(next) == 0
}

// IsTerminalGoal reports whether no transition leaves the status.
func IsTerminalGoal(s models.GoalStatus) bool {
	next, ok := goalTransitions[s]
	return ok && len(next) == 0
}

// ValidateTaskTransition returns an error when the task lifecycle forbids the change.
func ValidateTaskTransition(from, to models.TaskStatus) error {
	if !IsValidTaskTransition(from, to) {
		return fmt.Errorf("invalid task status transition from %q to %q", from, to)
	}
	return nil
}

// ValidateGoalTransition returns an error when the goal lifecycle forbids the change.
func ValidateGoalTransition(from, to models.GoalStatus) error {
	if !IsValidGoalTransition(from, to) {
		return fmt.Errorf("invalid goal status transition from %q to %q", from, to)
	}
	return nil
}
