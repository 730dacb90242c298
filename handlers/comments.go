// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/taste-champion/cliparse"
	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/metrics"
	"github.com/danielhkuo/taste-champion/middleware"
	"github.com/danielhkuo/taste-champion/models"
)

type CommentHandler struct {
	services
}

func NewCommentHandler(conn *sql.DB, dialect db.Dialect, cfg cliparse.Config, m *metrics.Collector) *CommentHandler {
	return &CommentHandler{services: newServices(conn, dialect, cfg, m)}
}

// CreateComment handles POST /comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req models.CommentRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := h.registry.CreateComment(r.Context(), caller(r).UserID, req)
	created(w, id, err)
}

// CreateComments handles POST /comments/batch
func (h *CommentHandler) CreateComments(w http.ResponseWriter, r *http.Request) {
	var req models.CommentBatchRequest
	if !decode(w, r, &req) {
		return
	}
	ids, err := h.registry.CreateComments(r.Context(), caller(r).UserID, req.Comments)
	createdBatch(w, ids, err)
}

// ListComments handles GET /comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.registry.ListComments(r.Context())
	respond(w, comments, err)
}

// GetComment handles GET /comments/{id}
func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.registry.GetComment(r.Context(), r.PathValue("id"))
	respond(w, comment, err)
}

// UpdateComment handles PUT /comments/{id}
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req models.CommentRequest
	if !decode(w, r, &req) {
		return
	}
	success(w, h.registry.UpdateComment(r.Context(), r.PathValue("id"), req.Text))
}

// DeleteComment handles DELETE /comments/{id}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	success(w, h.registry.DeleteComment(r.Context(), r.PathValue("id")))
}

// ListProductComments handles GET /products/{id}/comments
func (h *CommentHandler) ListProductComments(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	if _, err := h.registry.GetProduct(r.Context(), productID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	comments, err := h.registry.ListCommentsByProduct(r.Context(), productID)
	respond(w, comments, err)
}

// ListUserComments handles GET /users/{id}/comments
func (h *CommentHandler) ListUserComments(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if _, err := h.registry.GetUser(r.Context(), userID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	comments, err := h.registry.ListCommentsByUser(r.Context(), userID)
	respond(w, comments, err)
}
