// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/taste-champion/errs"
)

// Validator checks request structs against their `validate` tags.
// It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Check validates s and returns a *errs.ValidationError listing every
// violated rule, or nil.
func (v *Validator) Check(entity string, s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.Invalid(entity, "%v", err)
	}

	ve := errs.NewValidationError(entity)
	for _, fe := range fieldErrs {
		ve.Add("%s", describe(fe))
	}
	return ve
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}

// RatingRange is the inclusive range accepted for score values.
type RatingRange struct {
	Min int16
	Max int16
}

// DefaultRatingRange is used when no range is configured.
var DefaultRatingRange = RatingRange{Min: 1, Max: 10}

// Contains takes an int so values that would overflow the stored column
// are still reported as out of range.
func (r RatingRange) Contains(value int) bool {
	return value >= int(r.Min) && value <= int(r.Max)
}

// CheckValue returns a violation message when value is out of range.
func (r RatingRange) CheckValue(value int) (string, bool) {
	if r.Contains(value) {
		return "", true
	}
	return fmt.Sprintf("value %d must be between %d and %d", value, r.Min, r.Max), false
}
