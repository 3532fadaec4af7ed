package status

import (
	"fmt"
	"slices"

	"github.com/starford/goalpost/internal/models"
)

// Check is the answer to "what can this entity move to, and may it move to To".
type Check struct {
	Kind    string   `json:"kind" example:"task"`
	From    string   `json:"from" example:"in_progress"`
	To      string   `json:"to,omitempty" example:"completed"`
	Allowed bool     `json:"allowed"`
	Next    []string `json:"next"`

	// Confirmation is set when To is given and the move is allowed.
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

// Evaluate answers a transition question for kind "task" or "goal". to may be
// empty, in which case only Next is filled.
func Evaluate(kind, from, to string) (Check, error) {
	c := Check{Kind: kind, From: from, To: to, Next: []string{}}
	switch kind {
	case "task":
		f, t := models.TaskStatus(from), models.TaskStatus(to)
		if !slices.Contains(models.TaskStatuses(), f) {
			return c, fmt.Errorf("unknown task status %q", from)
		}
		for _, s := range AllowedTaskNext(f) {
			c.Next = append(c.Next, string(s))
		}
		if to != "" {
			c.Allowed = IsValidTaskTransition(f, t)
			if c.Allowed {
				conf := TaskConfirmation(f, t)
				c.Confirmation = &conf
			}
		}
	case "goal":
		f, t := models.GoalStatus(from), models.GoalStatus(to)
		if !slices.Contains(models.GoalStatuses(), f) {
			return c, fmt.Errorf("unknown goal status %q", from)
		}
		for _, s := range AllowedGoalNext(f) {
			c.Next = append(c.Next, string(s))
		}
		if to != "" {
			c.Allowed = IsValidGoalTransition(f, t)
			if c.Allowed {
				conf := GoalConfirmation(f, t)
				c.Confirmation = &conf
			}
		}
	default:
		return c, fmt.Errorf("unknown kind %q", kind)
	}
	return c, nil
}
