// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrDuplicateVote   = errors.New("user has already scored this product")
	ErrDuplicateRating = errors.New("user has already rated this parameter of the product")
	ErrConflict        = errors.New("record with the same unique key already exists")
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrVotingClosed    = errors.New("nomination is not open for voting")
)

// ValidationError collects every violation found for one entity.
// errors.Is(err, ErrValidation) holds for any *ValidationError.
type ValidationError struct {
	Entity     string
	Violations []string
}

func NewValidationError(entity string) *ValidationError {
	return &ValidationError{Entity: entity, Violations: make([]string, 0)}
}

// Invalid builds a ValidationError holding a single violation.
func Invalid(entity, format string, args ...any) *ValidationError {
	v := NewValidationError(entity)
	v.Add(format, args...)
	return v
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("invalid %s: %s", e.Entity, e.Violations[0])
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(e.Violations, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func (e *ValidationError) Add(format string, args ...any) {
	e.Violations = append(e.Violations, fmt.Sprintf(format, args...))
}

func (e *ValidationError) HasViolations() bool { return len(e.Violations) > 0 }

// OrNil returns nil when nothing was recorded.
func (e *ValidationError) OrNil() error {
	if e.HasViolations() {
		return e
	}
	return nil
}

// Violations extracts the violation list from err, if it carries one.
func Violations(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Violations
	}
	return nil
}
