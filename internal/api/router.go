package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/goalpost/internal/apperr"
	"github.com/starford/goalpost/internal/goalservice"
)

// RouterConfig carries the auth settings for the API router.
type RouterConfig struct {
	AuthEnabled bool
	Token       string
	// DefaultUser is the actor recorded when a request carries no X-User-ID header.
	DefaultUser string
}

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *goalservice.Service, cfg RouterConfig, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(cfg.AuthEnabled, cfg.Token))
	r.Use(ActorMiddleware(cfg.DefaultUser))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, apperr.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, apperr.ErrMethodNotAllowed)
	})

	// Goals.
	r.Get("/goals", h.ListGoals)
	r.Post("/goals", h.CreateGoal)
	r.Route("/goals/{id}", func(r chi.Router) {
		r.Get("/", h.GetGoal)
		r.Put("/", h.ReplaceGoal)
		r.Patch("/", h.PatchGoal)
		r.Delete("/", h.DeleteGoal)
		r.Post("/transition", h.TransitionGoal)
		r.Get("/analytics", h.GoalAnalytics)
		r.Get("/readiness", h.GoalReadiness)
		r.Put("/criteria/{list}", h.ReplaceCriteria)
		r.Patch("/criteria/{list}/{criterionId}", h.ToggleCriterion)
		r.Get("/tasks", h.ListTasks)
		r.Post("/tasks", h.CreateTask)
		r.Get("/checkpoints", h.ListCheckpoints)
		r.Post("/checkpoints", h.AddCheckpoint)
	})

	// Tasks.
	r.Route("/tasks/{id}", func(r chi.Router) {
		r.Get("/", h.GetTask)
		r.Put("/", h.ReplaceTask)
		r.Patch("/", h.PatchTask)
		r.Delete("/", h.DeleteTask)
		r.Post("/transition", h.TransitionTask)
		r.Post("/subtasks", h.AddSubtask)
		r.Patch("/subtasks/{subtaskId}", h.PatchSubtask)
		r.Delete("/subtasks/{subtaskId}", h.DeleteSubtask)
		r.Patch("/checklist/{itemId}", h.ToggleChecklistItem)
	})

	// Checkpoints.
	r.Put("/checkpoints/{id}", h.UpdateCheckpoint)
	r.Delete("/checkpoints/{id}", h.DeleteCheckpoint)

	// Rule evaluators.
	r.Get("/transitions", h.CheckTransition)
	r.Post("/validate/gherkin", h.ValidateGherkin)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
