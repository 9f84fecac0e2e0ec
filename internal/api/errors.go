package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/jbweber/homelab/northwind/internal/auth"
	"github.com/jbweber/homelab/northwind/internal/envelope"
	"github.com/jbweber/homelab/northwind/internal/logging"
	"github.com/jbweber/homelab/northwind/internal/repository"
)

const internalErrorMessage = "An internal error occurred"

// statusForError maps domain errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, repository.ErrConstraint),
		errors.Is(err, repository.ErrInvalidEntity),
		errors.Is(err, repository.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// safeMessage returns a client-facing message for err. Internal detail is
// never exposed.
func safeMessage(err error) string {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, repository.ErrDuplicate):
		return "Resource already exists"
	case errors.Is(err, repository.ErrConstraint):
		return "Request conflicts with related records"
	case errors.Is(err, repository.ErrInvalidEntity), errors.Is(err, repository.ErrInvalidFilter):
		return "Invalid request"
	case errors.Is(err, auth.ErrUnauthenticated):
		return "Authentication required"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid user name or password"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"
	case errors.Is(err, auth.ErrForbidden):
		return "Insufficient permissions"
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"
	}
	return internalErrorMessage
}

// failure builds the failure envelope for err, logging server-side errors
// with their detail.
func (a *API) failure(r *http.Request, err error) *envelope.Response {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed", "error", err)
	}
	return envelope.New().Fail(status, safeMessage(err))
}
