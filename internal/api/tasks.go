package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/goalpost/internal/apperr"
	"github.com/starford/goalpost/internal/models"
)

// ListTasks handles GET /api/goals/{id}/tasks.
//
//	@Summary		List a goal's tasks with computed progress
//	@Tags			tasks
//	@Produce		json
//	@Param			id	path		string	true	"Goal ID"
//	@Success		200	{object}	ListResponse[TaskView]
//	@Failure		404	{object}	errResponse
//	@Failure		410	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/goals/{id}/tasks [get]
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.ListTasks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[TaskView]{
		Items: tasks,
		Total: len(tasks),
		Page:  1,
		Limit: len(tasks),
	})
}

// CreateTask handles POST /api/goals/{id}/tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var in models.Task
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.svc.CreateTask(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// GetTask handles GET /api/tasks/{id}.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ReplaceTask handles PUT /api/tasks/{id}.
func (h *Handler) ReplaceTask(w http.ResponseWriter, r *http.Request) {
	var in models.Task
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.svc.ReplaceTask(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// PatchTask handles PATCH /api/tasks/{id}.
func (h *Handler) PatchTask(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.svc.PatchTask(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTask handles DELETE /api/tasks/{id}. Tasks are always removed outright.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TransitionTask handles POST /api/tasks/{id}/transition.
//
//	@Summary		Move a task to a new status
//	@Tags			tasks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Task ID"
//	@Param			body	body		TransitionRequest	true	"Target status"
//	@Success		200		{object}	goalservice.TaskTransitionResult
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tasks/{id}/transition [post]
func (h *Handler) TransitionTask(w http.ResponseWriter, r *http.Request) {
	var req TransitionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Status == "" {
		writeError(w, r, apperr.Invalid("status", "cannot be blank"))
		return
	}
	res, err := h.svc.TransitionTask(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), models.TaskStatus(req.Status), req.Confirmed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// AddSubtask handles POST /api/tasks/{id}/subtasks.
func (h *Handler) AddSubtask(w http.ResponseWriter, r *http.Request) {
	var in models.Subtask
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.svc.AddSubtask(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) PatchSubtask(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.svc.PatchSubtask(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), chi.URLParam(r, "subtaskId"), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.DeleteSubtask(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), chi.URLParam(r, "subtaskId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ToggleChecklistItem handles PATCH /api/tasks/{id}/checklist/{itemId}.
func (h *Handler) ToggleChecklistItem(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.svc.ToggleChecklistItem(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), chi.URLParam(r, "itemId"), req.Completed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
