package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/crucial707/expense-tracker/internal/auth"
	"github.com/crucial707/expense-tracker/internal/service"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	out := map[string]any{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	writeJSON(w, status, out)
}

// Errors maps service failures to HTTP responses.
type Errors struct {
	// ConcealForeign answers 404 for other users' expenses so ids cannot be probed.
	ConcealForeign bool
}

func (e Errors) Write(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &verrs):
		JSONValidationError(w, "validation failed", fieldErrors(verrs), http.StatusBadRequest)
	case errors.As(err, &tooLarge):
		JSONError(w, "request body too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, errBadJSON):
		JSONError(w, "invalid JSON", http.StatusBadRequest)

	case errors.Is(err, service.ErrDuplicateEmail):
		JSONError(w, "email already registered", http.StatusConflict)
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidCredentials):
		// same answer for both so accounts cannot be enumerated
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrExpiredToken):
		JSONError(w, "token expired", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrInvalidToken):
		JSONError(w, "invalid token", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrPasswordTooLong):
		JSONValidationError(w, "validation failed", map[string]string{"password": "must be at most 72 bytes"}, http.StatusBadRequest)

	case errors.Is(err, service.ErrNotFound):
		JSONError(w, "expense not found", http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		if e.ConcealForeign {
			JSONError(w, "expense not found", http.StatusNotFound)
			return
		}
		JSONError(w, "you do not own this expense", http.StatusForbidden)
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, errBadParam):
		JSONError(w, err.Error(), http.StatusBadRequest)

	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}

func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
		case "email":
			fields[fe.Field()] = "must be a valid email"
		case "min":
			fields[fe.Field()] = "must be at least " + fe.Param() + " characters"
		case "max":
			fields[fe.Field()] = "must be at most " + fe.Param() + " characters"
		default:
			fields[fe.Field()] = "is invalid"
		}
	}
	return fields
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
