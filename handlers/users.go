// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/taste-champion/cliparse"
	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/metrics"
	"github.com/danielhkuo/taste-champion/models"
)

// UserHandler manages participant accounts.
type UserHandler struct {
	services
}

func NewUserHandler(conn *sql.DB, dialect db.Dialect, cfg cliparse.Config, m *metrics.Collector) *UserHandler {
	return &UserHandler{services: newServices(conn, dialect, cfg, m)}
}

// GetMe handles GET /me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.registry.GetUser(r.Context(), caller(r).UserID)
	respond(w, user, err)
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := h.registry.CreateUser(r.Context(), req)
	created(w, id, err)
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.registry.ListUsers(r.Context())
	respond(w, users, err)
}

// GetUser handles GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.registry.GetUser(r.Context(), r.PathValue("id"))
	respond(w, user, err)
}

// UpdateUser handles PUT /users/{id}
// A role change does not touch the expert flag of scores already recorded.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserRequest
	if !decode(w, r, &req) {
		return
	}
	success(w, h.registry.UpdateUser(r.Context(), r.PathValue("id"), req))
}

// DeleteUser handles DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	success(w, h.registry.DeleteUser(r.Context(), r.PathValue("id")))
}
