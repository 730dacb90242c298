// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/taste-champion/errs"
	"github.com/danielhkuo/taste-champion/models"
)

// Error codes returned in the "error" field.
const (
	CodeValidation      = "validation_error"
	CodeDuplicateVote   = "duplicate_vote"
	CodeDuplicateRating = "duplicate_rating"
	CodeConflict        = "conflict"
	CodeVotingClosed    = "voting_closed"
	CodeNotFound        = "not_found"
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeInternal        = "internal_error"
)

// StatusFor maps an error to its HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, errs.ErrDuplicateVote):
		return http.StatusConflict, CodeDuplicateVote
	case errors.Is(err, errs.ErrDuplicateRating):
		return http.StatusConflict, CodeDuplicateRating
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, errs.ErrVotingClosed):
		return http.StatusConflict, CodeVotingClosed
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, CodeForbidden
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// WriteError writes err as a JSON error. Internal errors are logged and
// their text is not sent to the client.
func WriteError(w http.ResponseWriter, err error) {
	status, code := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		message = "Internal server error"
	}
	JSONResponse(w, status, models.ErrorResponse{
		Error:   code,
		Message: message,
		Details: errs.Violations(err),
	})
}
