package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/tasktrack/internal/api/shared"
	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/service"
	"github.com/phrazzld/tasktrack/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrTaskNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, store.ErrConcurrencyConflict),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	// Domain validation messages name the field and the rule only.
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}

	switch {
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, service.ErrConflict),
		errors.Is(err, store.ErrConcurrencyConflict):
		return "Task was modified by another request; reload and try again"

	case errors.Is(err, domain.ErrInvalidTransition):
		return "Task status cannot be changed from its current state"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid task data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the mapped status and safe message for err. A
// non-empty message overrides the safe message for 5xx responses only.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	safe := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && message != "" {
		safe = message
	}
	shared.RespondWithErrorAndLog(w, r, status, safe, err)
}

// SanitizeValidationError turns request validation failures into a message
// naming the first offending field.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "datetime":
		return "must be a YYYY-MM-DD date"
	case "gte", "gt":
		return "must not be negative"
	default:
		return "validation failed"
	}
}

// decodeErrorMessage describes a body that could not be decoded.
func decodeErrorMessage(err error) string {
	if strings.Contains(err.Error(), "unknown field") {
		return "Invalid request format: unknown field"
	}
	return "Invalid request format"
}
