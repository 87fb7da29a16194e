// Package respond writes JSON responses and maps domain errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/chris/donation-ledger/pkg/api"
	"github.com/chris/donation-ledger/pkg/middleware"
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/receipts"
	"github.com/chris/donation-ledger/pkg/storage"
)

// maxBodyBytes bounds every decoded request body.
const maxBodyBytes = 1 << 20

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Message writes an api.Error with only a message.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, api.Error{Message: msg})
}

// Decode reads a JSON request body into v. An empty body is allowed when
// optional is set, leaving v untouched.
func Decode(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		Message(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	return true
}

// Error maps err to a status and writes it. Unexpected errors are logged and
// reported without detail.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var fields models.FieldErrors
	if errors.As(err, &fields) {
		out := make([]api.FieldError, len(fields))
		for i, f := range fields {
			out[i] = api.FieldError{Field: f.Field, Message: f.Message}
		}
		JSON(w, http.StatusUnprocessableEntity, api.Error{Message: "validation failed", Fields: &out})
		return
	}

	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		Message(w, status, "internal server error")
		return
	}
	Message(w, status, err.Error())
}

// StatusFor returns the HTTP status that represents err.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidGoal),
		errors.Is(err, models.ErrInvalidEndDate),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidDonor),
		errors.Is(err, models.ErrInvalidSubmission):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrMalformedEvent):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrCampaignNotFound),
		errors.Is(err, models.ErrDonationNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidStateTransition),
		errors.Is(err, models.ErrCampaignNotLive),
		errors.Is(err, receipts.ErrNotSettled):
		return http.StatusConflict
	case errors.Is(err, models.ErrPaymentFailed),
		errors.Is(err, models.ErrRefundFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RequireUser writes 401 and returns false when the caller is not identified.
func RequireUser(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id := middleware.IdentityFromContext(r.Context())
	if id.UserID == "" {
		Message(w, http.StatusUnauthorized, "caller identity required")
		return id, false
	}
	return id, true
}

// RequireAdmin writes 403 and returns false unless the caller is an admin.
func RequireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !middleware.IdentityFromContext(r.Context()).IsAdmin() {
		Message(w, http.StatusForbidden, "admin role required")
		return false
	}
	return true
}
