// Package apperr defines the error taxonomy shared by the service and HTTP layers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a sentinel error carrying an HTTP status and a machine-readable code.
// Wrap it with fmt.Errorf("...: %w", ErrX) and match with errors.Is.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrNotFound             = &Error{Status: http.StatusNotFound, Code: "not_found", Message: "not found"}
	ErrGone                 = &Error{Status: http.StatusGone, Code: "gone", Message: "deleted"}
	ErrMethodNotAllowed     = &Error{Status: http.StatusMethodNotAllowed, Code: "method_not_allowed", Message: "method not allowed"}
	ErrConflict             = &Error{Status: http.StatusConflict, Code: "conflict", Message: "conflict"}
	ErrAlreadyExists        = &Error{Status: http.StatusConflict, Code: "already_exists", Message: "already exists"}
	ErrBadRequest           = &Error{Status: http.StatusBadRequest, Code: "bad_request", Message: "bad request"}
	ErrInvalidTransition    = &Error{Status: http.StatusBadRequest, Code: "invalid_transition", Message: "invalid status transition"}
	ErrConfirmationRequired = &Error{Status: http.StatusBadRequest, Code: "confirmation_required", Message: "confirmation required"}
	ErrInternal             = &Error{Status: http.StatusInternalServerError, Code: "internal_error", Message: "internal error"}
)

// NotFound reports a missing entity.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q %w", kind, id, ErrNotFound)
}

// Gone reports a soft-deleted entity.
func Gone(kind, id string) error {
	return fmt.Errorf("%s %q has been %w", kind, id, ErrGone)
}

// FieldIssue is one failed field or cross-field rule.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports user input that violates one or more rules.
type ValidationError struct {
	Issues []FieldIssue
}

// Invalid builds a ValidationError with a single issue.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Issues: []FieldIssue{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages renders each issue as "field: message".
func (e *ValidationError) Messages() []string {
	out := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		if is.Field == "" {
			out[i] = is.Message
			continue
		}
		out[i] = is.Field + ": " + is.Message
	}
	return out
}

// StatusOf resolves the HTTP status for any error chain. Unknown errors are 500.
func StatusOf(err error) int {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// CodeOf resolves the machine code for any error chain.
func CodeOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return "validation_failed"
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ErrInternal.Code
}
