// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/taste-champion/errs"
	"github.com/danielhkuo/taste-champion/models"
)

func validUser() models.UserRequest {
	return models.UserRequest{
		Role:    models.RoleConsumer,
		Name:    "Anna",
		Surname: "Ivanova",
		Gender:  2,
		Age:     30,
		Phone:   "+10000000001",
		Email:   "anna@example.com",
	}
}

func TestCheckValidUser(t *testing.T) {
	v := New()
	assert.NoError(t, v.Check("user", validUser()))
}

func TestCheckCollectsEveryViolation(t *testing.T) {
	v := New()
	u := validUser()
	u.Name = ""
	u.Age = 131
	u.Role = "GUEST"
	u.Email = "not-an-email"

	err := v.Check("user", u)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))

	violations := errs.Violations(err)
	assert.Contains(t, violations, "name is required")
	assert.Contains(t, violations, "age must be at most 130")
	assert.Contains(t, violations, "role must be one of [CONSUMER EXPERT ADMIN]")
	assert.Contains(t, violations, "email must be a valid email address")
}

func TestCheckStringLength(t *testing.T) {
	v := New()
	u := validUser()
	u.Patronymic = "abcdefghijklmnopqrstuvwxyzabcdefghijk"

	violations := errs.Violations(v.Check("user", u))
	assert.Equal(t, []string{"patronymic must be at most 35 characters"}, violations)
}

func TestRatingRange(t *testing.T) {
	tests := []struct {
		value int
		ok    bool
	}{
		{0, false},
		{1, true},
		{5, true},
		{10, true},
		{11, false},
		{-3, false},
		{70000, false},
		{-40000, false},
	}

	for _, tt := range tests {
		msg, ok := DefaultRatingRange.CheckValue(tt.value)
		assert.Equal(t, tt.ok, ok, "value %d", tt.value)
		if !tt.ok {
			assert.Contains(t, msg, "between 1 and 10")
		}
	}
}
