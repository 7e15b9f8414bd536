package http

import (
	"errors"
	"net/http"

	"github.com/secmon-lab/cisboard/pkg/usecase"
	"github.com/secmon-lab/cisboard/pkg/utils/errutil"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrInvalidCredentials), errors.Is(err, usecase.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrSlugTaken), errors.Is(err, usecase.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrEmailNotConfigured):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrChatDisabled):
		return http.StatusServiceUnavailable
	case usecase.IsInvalidInput(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the text shown for err. Server errors never expose details.
func userMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrSlugTaken):
		return "The slug is already in use."
	case errors.Is(err, usecase.ErrEmailTaken):
		return "The email address is already registered."
	case errors.Is(err, usecase.ErrEmailNotConfigured):
		return "No email provider is configured for this organization."
	case errors.Is(err, usecase.ErrWeakPassword):
		return "The password is too short."
	case errors.Is(err, usecase.ErrChatDisabled):
		return "The assistant is not configured."
	case usecase.IsInvalidInput(err):
		return "Some fields are missing or invalid. Please check the form."
	}
	return errutil.UserMessage(statusOf(err))
}

// logRejected logs client errors at info level and reports server errors
func logRejected(r *http.Request, err error, status int) {
	if status >= http.StatusInternalServerError {
		_ = errutil.Handle(r.Context(), err, "request failed")
		return
	}
	logging.From(r.Context()).Info("request rejected", "status", status, "error", err.Error())
}

// errorPage writes a plain error response for page routes
func errorPage(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		errutil.HandleHTTP(r.Context(), w, err, status)
		return
	}
	logRejected(r, err, status)
	http.Error(w, userMessage(err), status)
}

// apiError writes a JSON error for API routes
func apiError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	logRejected(r, err, status)
	writeJSON(r.Context(), w, status, errorResponse{Error: userMessage(err)})
}
