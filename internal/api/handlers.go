package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starford/goalpost/internal/apperr"
	"github.com/starford/goalpost/internal/goalservice"
	"github.com/starford/goalpost/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	svc *goalservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *goalservice.Service) *Handler {
	return &Handler{svc: svc}
}

func writeGoal(w http.ResponseWriter, status int, g *goalservice.GoalDetail) {
	w.Header().Set("ETag", strconv.Quote(g.ETag))
	writeJSON(w, status, g)
}

// ListGoals handles GET /api/goals.
//
//	@Summary		List goals with filtering, sorting and pagination
//	@Tags			goals
//	@Produce		json
//	@Param			status			query		string	false	"Comma-separated statuses"
//	@Param			priority		query		string	false	"Comma-separated priorities"
//	@Param			category		query		string	false	"Category"
//	@Param			ownerId			query		string	false	"Owner"
//	@Param			tags			query		string	false	"Comma-separated tags (any of)"
//	@Param			startDate		query		string	false	"Target date lower bound"
//	@Param			endDate			query		string	false	"Target date upper bound"
//	@Param			search			query		string	false	"Text search"
//	@Param			page			query		int		false	"Page (1-based)"
//	@Param			limit			query		int		false	"Page size, at most 100"
//	@Param			sortField		query		string	false	"Sort field"	Enums(created_at, updated_at, title, priority, status, target_date)
//	@Param			sortDirection	query		string	false	"Sort direction"	Enums(asc, desc)
//	@Success		200				{object}	ListResponse[models.Goal]
//	@Failure		400				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/goals [get]
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	q, err := parseGoalQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.svc.ListGoals(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[models.Goal]{
		Items:   page.Items,
		Total:   page.Total,
		Page:    page.Page,
		Limit:   page.Limit,
		HasMore: page.HasMore,
	})
}

// GetGoal handles GET /api/goals/{id}.
//
//	@Summary		Get a goal with tasks, checkpoints and derived views
//	@Tags			goals
//	@Produce		json
//	@Param			id	path		string	true	"Goal ID"
//	@Success		200	{object}	GoalDetail
//	@Failure		404	{object}	errResponse
//	@Failure		410	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/goals/{id} [get]
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.GetGoal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGoal(w, http.StatusOK, g)
}

// CreateGoal handles POST /api/goals.
//
//	@Summary		Create a goal
//	@Tags			goals
//	@Accept			json
//	@Produce		json
//	@Param			body	body		models.Goal	true	"Goal to create"
//	@Success		201		{object}	GoalDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/goals [post]
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var in models.Goal
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := h.svc.CreateGoal(r.Context(), Actor(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGoal(w, http.StatusCreated, g)
}

// ReplaceGoal handles PUT /api/goals/{id}.
//
//	@Summary		Replace a goal with optimistic concurrency
//	@Tags			goals
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string		true	"Goal ID"
//	@Param			If-Match	header		string		false	"ETag from a previous read"
//	@Param			body		body		models.Goal	true	"Replacement goal"
//	@Success		200			{object}	GoalDetail
//	@Failure		400			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/goals/{id} [put]
func (h *Handler) ReplaceGoal(w http.ResponseWriter, r *http.Request) {
	var in models.Goal
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := h.svc.ReplaceGoal(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), in, r.Header.Get("If-Match"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGoal(w, http.StatusOK, g)
}

// PatchGoal handles PATCH /api/goals/{id} with a JSON merge document.
func (h *Handler) PatchGoal(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	g, err := h.svc.PatchGoal(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), body, r.Header.Get("If-Match"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeGoal(w, http.StatusOK, g)
}

// DeleteGoal handles DELETE /api/goals/{id}.
//
//	@Summary		Soft-delete a goal, or remove it with permanent=true
//	@Tags			goals
//	@Param			id			path	string	true	"Goal ID"
//	@Param			permanent	query	bool	false	"Hard delete with cascade"
//	@Success		204			"Goal deleted"
//	@Failure		404			{object}	errResponse
//	@Failure		410			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/goals/{id} [delete]
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	permanent := false
	if raw := r.URL.Query().Get("permanent"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, apperr.Invalid("permanent", "must be true or false"))
			return
		}
		permanent = v
	}
	if err := h.svc.DeleteGoal(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), permanent); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TransitionGoal handles POST /api/goals/{id}/transition.
//
//	@Summary		Move a goal to a new status
//	@Description	Moves into completed or cancelled need confirmed=true; otherwise the response is 400 with the confirmation prompt in details.
//	@Tags			goals
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Goal ID"
//	@Param			body	body		TransitionRequest	true	"Target status"
//	@Success		200		{object}	goalservice.TransitionResult
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/goals/{id}/transition [post]
func (h *Handler) TransitionGoal(w http.ResponseWriter, r *http.Request) {
	var req TransitionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Status == "" {
		writeError(w, r, apperr.Invalid("status", "cannot be blank"))
		return
	}
	res, err := h.svc.TransitionGoal(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), models.GoalStatus(req.Status), req.Confirmed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("ETag", strconv.Quote(res.Goal.ETag))
	writeJSON(w, http.StatusOK, res)
}

// GoalAnalytics handles GET /api/goals/{id}/analytics?from&to.
func (h *Handler) GoalAnalytics(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	from, fromErr := timeParam(values, "from", false)
	to, toErr := timeParam(values, "to", true)
	if fromErr != nil {
		writeError(w, r, apperr.Invalid("from", fromErr.Error()))
		return
	}
	if toErr != nil {
		writeError(w, r, apperr.Invalid("to", toErr.Error()))
		return
	}
	var fromT, toT time.Time
	if from != nil {
		fromT = *from
	}
	if to != nil {
		toT = *to
	}
	snap, err := h.svc.Analytics(r.Context(), chi.URLParam(r, "id"), fromT, toT)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GoalReadiness handles GET /api/goals/{id}/readiness.
func (h *Handler) GoalReadiness(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Readiness(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ReplaceCriteria handles PUT /api/goals/{id}/criteria/{list}.
func (h *Handler) ReplaceCriteria(w http.ResponseWriter, r *http.Request) {
	list, err := goalservice.ParseCriteriaList(chi.URLParam(r, "list"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req CriteriaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.svc.ReplaceCriteria(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), list, req.Criteria)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ToggleCriterion handles PATCH /api/goals/{id}/criteria/{list}/{criterionId}.
func (h *Handler) ToggleCriterion(w http.ResponseWriter, r *http.Request) {
	list, err := goalservice.ParseCriteriaList(chi.URLParam(r, "list"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req ToggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.svc.ToggleCriterion(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), list, chi.URLParam(r, "criterionId"), req.Completed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
