// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/errs"
	"github.com/danielhkuo/taste-champion/models"
)

func scanComment(s scanner) (models.Comment, error) {
	var c models.Comment
	err := s.Scan(&c.ID, &c.Text, &c.ProductID, &c.UserID)
	return c, err
}

const commentColumns = `SELECT id, text, product_id, user_id FROM comments`

// CreateComment stores one comment by userID.
func (r *Registry) CreateComment(ctx context.Context, userID string, req models.CommentRequest) (string, error) {
	ids, err := r.CreateComments(ctx, userID, []models.CommentRequest{req})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// CreateComments stores every comment or none. The same text on the same
// product by the same user is ErrConflict.
func (r *Registry) CreateComments(ctx context.Context, userID string, reqs []models.CommentRequest) ([]string, error) {
	if len(reqs) == 0 {
		return nil, errs.Invalid("comment", "at least one comment is required")
	}
	for i, req := range reqs {
		if err := r.validator.Check("comment", req); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}

	var ids []string
	err := db.InTx(ctx, r.conn, func(tx *sql.Tx) error {
		v := errs.NewValidationError("comment")
		if err := r.requireRef(ctx, tx, v, "users", "user", userID); err != nil {
			return err
		}
		for _, req := range reqs {
			if err := r.requireRef(ctx, tx, v, "products", "product", req.ProductID); err != nil {
				return err
			}
		}
		if err := v.OrNil(); err != nil {
			return err
		}

		for i, req := range reqs {
			id, err := r.insert(ctx, tx, "comment",
				`INSERT INTO comments (id, text, product_id, user_id) VALUES (?, ?, ?, ?)`,
				req.Text, req.ProductID, userID)
			if err != nil {
				return fmt.Errorf("item %d: %w", i+1, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Registry) GetComment(ctx context.Context, id string) (models.Comment, error) {
	return getOne(ctx, r, scanComment, commentColumns+` WHERE id = ?`, id)
}

func (r *Registry) ListComments(ctx context.Context) ([]models.Comment, error) {
	return list(ctx, r, scanComment, commentColumns+` ORDER BY id`)
}

func (r *Registry) ListCommentsByProduct(ctx context.Context, productID string) ([]models.Comment, error) {
	return list(ctx, r, scanComment, commentColumns+` WHERE product_id = ? ORDER BY id`, productID)
}

func (r *Registry) ListCommentsByUser(ctx context.Context, userID string) ([]models.Comment, error) {
	return list(ctx, r, scanComment, commentColumns+` WHERE user_id = ? ORDER BY id`, userID)
}

// UpdateComment changes the text only.
func (r *Registry) UpdateComment(ctx context.Context, id string, text string) error {
	stored, err := r.GetComment(ctx, id)
	if err != nil {
		return err
	}
	req := models.CommentRequest{Text: text, ProductID: stored.ProductID}
	if err := r.validator.Check("comment", req); err != nil {
		return err
	}
	return r.update(ctx, "comment", `UPDATE comments SET text = ? WHERE id = ?`, text, id)
}

func (r *Registry) DeleteComment(ctx context.Context, id string) error {
	return r.remove(ctx, "comments", id)
}
