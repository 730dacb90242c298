// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/errs"
	"github.com/danielhkuo/taste-champion/models"
)

// ScoreSubmission is one overall score. IsExpert is the voter's role at
// submission time and is never recomputed.
type ScoreSubmission struct {
	ProductID string
	UserID    string
	Value     int
	IsExpert  bool
}

type scoreKey struct{ productID, userID string }

// SubmitScore records a single score.
func (l *Ledger) SubmitScore(ctx context.Context, sub ScoreSubmission) (string, error) {
	ids, err := l.SubmitScoreBatch(ctx, []ScoreSubmission{sub})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// SubmitScoreBatch records every submission or none of them. All items are
// validated before the first insert; the first violation aborts the batch.
func (l *Ledger) SubmitScoreBatch(ctx context.Context, subs []ScoreSubmission) (ids []string, err error) {
	ctx, span := l.startSpan(ctx, "Ledger.SubmitScoreBatch", attribute.Int("batch.size", len(subs)))
	defer func() { endSpan(span, err) }()

	if len(subs) == 0 {
		return nil, l.reject(kindScore, errs.Invalid("score", "at least one score is required"))
	}

	err = db.InTx(ctx, l.conn, func(tx *sql.Tx) error {
		seen := make(map[scoreKey]bool, len(subs))
		for i, sub := range subs {
			if err := l.checkScore(ctx, tx, sub); err != nil {
				return batchErr(len(subs), i, err)
			}
			key := scoreKey{sub.ProductID, sub.UserID}
			if seen[key] {
				return batchErr(len(subs), i, errs.ErrDuplicateVote)
			}
			seen[key] = true
		}

		ids = make([]string, 0, len(subs))
		now := time.Now().UTC()
		for i, sub := range subs {
			id, err := db.NewID()
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, l.dialect.Rebind(`
				INSERT INTO scores (id, value, product_id, user_id, is_expert, created_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`), id, int16(sub.Value), sub.ProductID, sub.UserID, sub.IsExpert, now)
			if err != nil {
				return batchErr(len(subs), i, translateScoreInsert(err))
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, l.reject(kindScore, err)
	}

	for _, sub := range subs {
		l.metrics.VoteAccepted(kindScore, roleLabel(sub.IsExpert), 1)
	}
	l.log.Info("scores recorded", "count", len(ids), "product_id", subs[0].ProductID, "user_id", subs[0].UserID)
	return ids, nil
}

// checkScore validates one submission against the range and the store.
func (l *Ledger) checkScore(ctx context.Context, q queryer, sub ScoreSubmission) error {
	v := errs.NewValidationError("score")
	if msg, ok := l.rng.CheckValue(sub.Value); !ok {
		v.Add("%s", msg)
	}
	var nominationID sql.NullString
	if sub.ProductID == "" {
		v.Add("product_id is required")
	} else {
		nom, found, err := l.productNomination(ctx, q, sub.ProductID)
		if err != nil {
			return err
		}
		if !found {
			v.Add("product %s does not exist", sub.ProductID)
		}
		nominationID = nom
	}
	if sub.UserID == "" {
		v.Add("user_id is required")
	} else if ok, err := l.exists(ctx, q, "users", sub.UserID); err != nil {
		return err
	} else if !ok {
		v.Add("user %s does not exist", sub.UserID)
	}
	if v.HasViolations() {
		return v
	}
	if err := l.admit(ctx, nominationID); err != nil {
		return err
	}

	held, err := l.scoreIDForKey(ctx, q, sub.ProductID, sub.UserID)
	if err != nil {
		return err
	}
	if held != "" {
		return errs.ErrDuplicateVote
	}
	return nil
}

func (l *Ledger) scoreIDForKey(ctx context.Context, q queryer, productID, userID string) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, l.dialect.Rebind(`
		SELECT id FROM scores WHERE product_id = ? AND user_id = ?
	`), productID, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query score: %w", err)
	}
	return id, nil
}

// translateScoreInsert turns constraint failures raised by a concurrent
// writer into domain errors.
func translateScoreInsert(err error) error {
	switch {
	case db.IsUniqueViolation(err):
		return errs.ErrDuplicateVote
	case db.IsForeignKeyViolation(err):
		return errs.Invalid("score", "product or user no longer exists")
	default:
		return fmt.Errorf("failed to insert score: %w", err)
	}
}

// UpdateScore changes the value of an existing score. The stored product,
// user and role snapshot are kept. If the submission names a (product, user)
// pair held by a different score, ErrConflict is returned.
func (l *Ledger) UpdateScore(ctx context.Context, id string, sub ScoreSubmission) (err error) {
	ctx, span := l.startSpan(ctx, "Ledger.UpdateScore", attribute.String("score.id", id))
	defer func() { endSpan(span, err) }()

	err = db.InTx(ctx, l.conn, func(tx *sql.Tx) error {
		stored, err := l.getScore(ctx, tx, id)
		if err != nil {
			return err
		}
		if msg, ok := l.rng.CheckValue(sub.Value); !ok {
			return errs.Invalid("score", "%s", msg)
		}

		productID, userID := sub.ProductID, sub.UserID
		if productID == "" {
			productID = stored.ProductID
		}
		if userID == "" {
			userID = stored.UserID
		}
		held, err := l.scoreIDForKey(ctx, tx, productID, userID)
		if err != nil {
			return err
		}
		if held != "" && held != id {
			return errs.ErrConflict
		}

		_, err = tx.ExecContext(ctx, l.dialect.Rebind(`UPDATE scores SET value = ? WHERE id = ?`), int16(sub.Value), id)
		if err != nil {
			return fmt.Errorf("failed to update score: %w", err)
		}
		return nil
	})
	if err != nil {
		return l.reject(kindScore, err)
	}

	l.log.Info("score updated", "score_id", id, "value", sub.Value)
	return nil
}

// DeleteScore removes a score.
func (l *Ledger) DeleteScore(ctx context.Context, id string) error {
	res, err := l.conn.ExecContext(ctx, l.dialect.Rebind(`DELETE FROM scores WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete score: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	l.log.Info("score deleted", "score_id", id)
	return nil
}

// GetScore returns one score by id.
func (l *Ledger) GetScore(ctx context.Context, id string) (models.Score, error) {
	return l.getScore(ctx, l.conn, id)
}

func (l *Ledger) getScore(ctx context.Context, q queryer, id string) (models.Score, error) {
	var s models.Score
	err := q.QueryRowContext(ctx, l.dialect.Rebind(`
		SELECT id, value, product_id, user_id, is_expert, created_at FROM scores WHERE id = ?
	`), id).Scan(&s.ID, &s.Value, &s.ProductID, &s.UserID, &s.IsExpert, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Score{}, errs.ErrNotFound
	}
	if err != nil {
		return models.Score{}, fmt.Errorf("failed to query score: %w", err)
	}
	return s, nil
}

// ListScores returns every score in insertion order.
func (l *Ledger) ListScores(ctx context.Context) ([]models.Score, error) {
	return l.listScores(ctx, `SELECT id, value, product_id, user_id, is_expert, created_at FROM scores ORDER BY id`)
}

// ListScoresForProduct returns the product's scores in insertion order.
// An unknown product yields an empty list.
func (l *Ledger) ListScoresForProduct(ctx context.Context, productID string) ([]models.Score, error) {
	return l.listScores(ctx, `
		SELECT id, value, product_id, user_id, is_expert, created_at
		FROM scores WHERE product_id = ? ORDER BY id
	`, productID)
}

// ListScoresForUser returns the user's scores in insertion order.
func (l *Ledger) ListScoresForUser(ctx context.Context, userID string) ([]models.Score, error) {
	return l.listScores(ctx, `
		SELECT id, value, product_id, user_id, is_expert, created_at
		FROM scores WHERE user_id = ? ORDER BY id
	`, userID)
}

func (l *Ledger) listScores(ctx context.Context, query string, args ...any) ([]models.Score, error) {
	rows, err := l.conn.QueryContext(ctx, l.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	scores := make([]models.Score, 0)
	for rows.Next() {
		var s models.Score
		if err := rows.Scan(&s.ID, &s.Value, &s.ProductID, &s.UserID, &s.IsExpert, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scores: %w", err)
	}
	return scores, nil
}

// HasScore reports whether the user has scored the product.
func (l *Ledger) HasScore(ctx context.Context, productID, userID string) (bool, error) {
	id, err := l.scoreIDForKey(ctx, l.conn, productID, userID)
	if err != nil {
		return false, err
	}
	return id != "", nil
}

func roleLabel(isExpert bool) string {
	if isExpert {
		return models.RoleExpert
	}
	return models.RoleConsumer
}
