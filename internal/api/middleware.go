// Package api implements the goalpost REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"
)

// AuthMiddleware returns middleware that validates a Bearer token.
// If enabled is false, all requests pass through (disabled mode).
// If enabled is true, requests must carry a valid "Authorization: Bearer <token>" header.
func AuthMiddleware(enabled bool, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
				writeJSON(w, http.StatusUnauthorized, errResponse{
					Error:   http.StatusText(http.StatusUnauthorized),
					Message: "unauthorized",
					Code:    "unauthorized",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type actorKey struct{}

// ActorMiddleware records the acting user from the X-User-ID header, falling
// back to defaultUser.
func ActorMiddleware(defaultUser string) func(http.Handler) http.Handler {
	if defaultUser == "" {
		defaultUser = "current-user"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := strings.TrimSpace(r.Header.Get("X-User-ID"))
			if actor == "" {
				actor = defaultUser
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
		})
	}
}

// Actor returns the user recorded by ActorMiddleware.
func Actor(ctx context.Context) string {
	a, _ := ctx.Value(actorKey{}).(string)
	return a
}
