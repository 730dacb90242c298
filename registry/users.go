// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"errors"
	"strings"

	"github.com/danielhkuo/taste-champion/errs"
	"github.com/danielhkuo/taste-champion/models"
)

func scanUser(s scanner) (models.User, error) {
	var u models.User
	err := s.Scan(&u.ID, &u.Role, &u.Name, &u.Surname, &u.Patronymic, &u.Gender, &u.Age, &u.Phone, &u.Email)
	return u, err
}

const userColumns = `SELECT id, role, name, surname, patronymic, gender, age, phone, email FROM users`

func normalizeUser(req *models.UserRequest) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
}

// CreateUser registers a participant. Email and phone are unique.
func (r *Registry) CreateUser(ctx context.Context, req models.UserRequest) (string, error) {
	normalizeUser(&req)
	if err := r.validator.Check("user", req); err != nil {
		return "", err
	}
	return r.insert(ctx, r.conn, "user", `
		INSERT INTO users (id, role, name, surname, patronymic, gender, age, phone, email)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, req.Role, req.Name, req.Surname, req.Patronymic, req.Gender, req.Age, req.Phone, req.Email)
}

func (r *Registry) GetUser(ctx context.Context, id string) (models.User, error) {
	return getOne(ctx, r, scanUser, userColumns+` WHERE id = ?`, id)
}

// GetUserByEmail backs bearer token resolution.
func (r *Registry) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return getOne(ctx, r, scanUser, userColumns+` WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *Registry) ListUsers(ctx context.Context) ([]models.User, error) {
	return list(ctx, r, scanUser, userColumns+` ORDER BY id`)
}

// UpdateUser replaces the user's profile. Existing scores keep the role
// snapshot they were recorded with.
func (r *Registry) UpdateUser(ctx context.Context, id string, req models.UserRequest) error {
	normalizeUser(&req)
	if err := r.validator.Check("user", req); err != nil {
		return err
	}
	return r.update(ctx, "user", `
		UPDATE users SET role = ?, name = ?, surname = ?, patronymic = ?, gender = ?, age = ?, phone = ?, email = ?
		WHERE id = ?
	`, req.Role, req.Name, req.Surname, req.Patronymic, req.Gender, req.Age, req.Phone, req.Email, id)
}

// DeleteUser removes the user with their scores and comments.
func (r *Registry) DeleteUser(ctx context.Context, id string) error {
	return r.remove(ctx, "users", id)
}

// EnsureAdmin creates an ADMIN account for email unless one exists.
func (r *Registry) EnsureAdmin(ctx context.Context, email string) error {
	_, err := r.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return err
	}

	_, err = r.CreateUser(ctx, models.UserRequest{
		Role:    models.RoleAdmin,
		Name:    "Admin",
		Surname: "Admin",
		Age:     30,
		Phone:   "bootstrap-admin",
		Email:   email,
	})
	if errors.Is(err, errs.ErrConflict) {
		r.log.Warn("bootstrap admin not created: placeholder phone already taken", "email", email)
		return nil
	}
	if err == nil {
		r.log.Info("bootstrap admin created", "email", email)
	}
	return err
}
