package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/goalpost/internal/models"
	"github.com/starford/goalpost/internal/status"
	"github.com/starford/goalpost/internal/validate"
)

// CheckTransition handles GET /api/transitions?kind&from&to.
//
//	@Summary		Check a status transition against the lifecycle tables
//	@Tags			rules
//	@Produce		json
//	@Param			kind	query		string	true	"Entity kind"	Enums(task, goal)
//	@Param			from	query		string	true	"Current status"
//	@Param			to		query		string	false	"Target status"
//	@Success		200		{object}	TransitionCheckResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/transitions [get]
func (h *Handler) CheckTransition(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, from, to := q.Get("kind"), q.Get("from"), q.Get("to")

	states := stringsOf(models.TaskStatuses())
	if kind == "goal" {
		states = stringsOf(models.GoalStatuses())
	}
	err := validate.Fields(validation.Errors{
		"kind": validation.Validate(kind, validation.Required, validation.In("task", "goal")),
		"from": validation.Validate(from, validation.Required, validation.In(states...)),
		"to":   validation.Validate(to, validation.In(states...)),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := status.Evaluate(kind, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ValidateGherkin handles POST /api/validate/gherkin.
func (h *Handler) ValidateGherkin(w http.ResponseWriter, r *http.Request) {
	var req GherkinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	errs := validate.ValidateGherkin(req.Content)
	steps := validate.ParseGherkinContent(req.Content)
	if errs == nil {
		errs = []string{}
	}
	if steps == nil {
		steps = []validate.GherkinStep{}
	}
	writeJSON(w, http.StatusOK, GherkinResponse{Valid: len(errs) == 0, Errors: errs, Steps: steps})
}
