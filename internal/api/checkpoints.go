package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/goalpost/internal/models"
)

// ListCheckpoints handles GET /api/goals/{id}/checkpoints.
func (h *Handler) ListCheckpoints(w http.ResponseWriter, r *http.Request) {
	cps, err := h.svc.ListCheckpoints(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[models.Checkpoint]{
		Items: cps,
		Total: len(cps),
		Page:  1,
		Limit: len(cps),
	})
}

// AddCheckpoint handles POST /api/goals/{id}/checkpoints.
//
//	@Summary		Record a metric checkpoint
//	@Description	The newest checkpoint's value becomes the goal's measurable.current.
//	@Tags			checkpoints
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Goal ID"
//	@Param			body	body		models.Checkpoint	true	"Observation"
//	@Success		201		{object}	models.Checkpoint
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/goals/{id}/checkpoints [post]
func (h *Handler) AddCheckpoint(w http.ResponseWriter, r *http.Request) {
	var in models.Checkpoint
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	cp, err := h.svc.AddCheckpoint(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cp)
}

// UpdateCheckpoint handles PUT /api/checkpoints/{id}.
func (h *Handler) UpdateCheckpoint(w http.ResponseWriter, r *http.Request) {
	var in models.Checkpoint
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	cp, err := h.svc.UpdateCheckpoint(r.Context(), Actor(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cp)
}

// DeleteCheckpoint handles DELETE /api/checkpoints/{id}.
func (h *Handler) DeleteCheckpoint(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCheckpoint(r.Context(), Actor(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
