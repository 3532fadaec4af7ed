package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/starford/goalpost/internal/apperr"
	"github.com/starford/goalpost/internal/goalservice"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error   string `json:"error" validate:"required"`
	Message string `json:"message" validate:"required"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// writeError maps err onto the error taxonomy. Unclassified errors are logged
// and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.StatusOf(err)
	body := errResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Code:    apperr.CodeOf(err),
	}

	var ve *apperr.ValidationError
	var ce *goalservice.ConfirmationError
	switch {
	case errors.As(err, &ve):
		body.Message = "validation failed"
		body.Details = ve.Messages()
	case errors.As(err, &ce):
		body.Details = ce.Confirmation
	case status >= http.StatusInternalServerError:
		slog.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()),
		)
		body.Message = apperr.ErrInternal.Message
	}
	writeJSON(w, status, body)
}

// readBody reads a size-limited request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", apperr.ErrBadRequest)
	}
	return body, nil
}

// decodeJSON reads and unmarshals a size-limited request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", apperr.ErrBadRequest)
	}
	return nil
}
