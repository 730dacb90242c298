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

// ParameterScoreSubmission is one criterion rating.
type ParameterScoreSubmission struct {
	ProductID   string
	ParameterID string
	UserID      string
	Value       int
}

type ratingKey struct{ productID, parameterID, userID string }

// SubmitParameterScore records a single criterion rating.
func (l *Ledger) SubmitParameterScore(ctx context.Context, sub ParameterScoreSubmission) (string, error) {
	ids, err := l.SubmitParameterScoreBatch(ctx, []ParameterScoreSubmission{sub})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// SubmitParameterScoreBatch records a full rating sheet or nothing.
func (l *Ledger) SubmitParameterScoreBatch(ctx context.Context, subs []ParameterScoreSubmission) (ids []string, err error) {
	ctx, span := l.startSpan(ctx, "Ledger.SubmitParameterScoreBatch", attribute.Int("batch.size", len(subs)))
	defer func() { endSpan(span, err) }()

	if len(subs) == 0 {
		return nil, l.reject(kindParameterScore, errs.Invalid("parameter score", "at least one rating is required"))
	}

	err = db.InTx(ctx, l.conn, func(tx *sql.Tx) error {
		seen := make(map[ratingKey]bool, len(subs))
		for i, sub := range subs {
			if err := l.checkParameterScore(ctx, tx, sub); err != nil {
				return batchErr(len(subs), i, err)
			}
			key := ratingKey{sub.ProductID, sub.ParameterID, sub.UserID}
			if seen[key] {
				return batchErr(len(subs), i, errs.ErrDuplicateRating)
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
				INSERT INTO parameter_scores (id, value, product_id, parameter_id, user_id, created_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`), id, int16(sub.Value), sub.ProductID, sub.ParameterID, sub.UserID, now)
			if err != nil {
				return batchErr(len(subs), i, translateRatingInsert(err))
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, l.reject(kindParameterScore, err)
	}

	l.metrics.VoteAccepted(kindParameterScore, models.RoleExpert, len(ids))
	l.log.Info("parameter scores recorded", "count", len(ids), "product_id", subs[0].ProductID, "user_id", subs[0].UserID)
	return ids, nil
}

func (l *Ledger) checkParameterScore(ctx context.Context, q queryer, sub ParameterScoreSubmission) error {
	v := errs.NewValidationError("parameter score")
	if msg, ok := l.rng.CheckValue(sub.Value); !ok {
		v.Add("%s", msg)
	}
	if sub.UserID == "" {
		v.Add("user_id is required")
	} else if ok, err := l.exists(ctx, q, "users", sub.UserID); err != nil {
		return err
	} else if !ok {
		v.Add("user %s does not exist", sub.UserID)
	}

	var productNomination, parameterNomination sql.NullString
	productFound, parameterFound := false, false
	if sub.ProductID == "" {
		v.Add("product_id is required")
	} else {
		var err error
		productNomination, productFound, err = l.productNomination(ctx, q, sub.ProductID)
		if err != nil {
			return err
		}
		if !productFound {
			v.Add("product %s does not exist", sub.ProductID)
		}
	}
	if sub.ParameterID == "" {
		v.Add("parameter_id is required")
	} else {
		err := q.QueryRowContext(ctx, l.dialect.Rebind(`SELECT nomination_id FROM parameters WHERE id = ?`), sub.ParameterID).
			Scan(&parameterNomination)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			v.Add("parameter %s does not exist", sub.ParameterID)
		case err != nil:
			return fmt.Errorf("failed to look up parameter: %w", err)
		default:
			parameterFound = true
		}
	}
	if productFound && parameterFound &&
		(!productNomination.Valid || productNomination.String != parameterNomination.String) {
		v.Add("parameter %s does not belong to the nomination of product %s", sub.ParameterID, sub.ProductID)
	}
	if v.HasViolations() {
		return v
	}
	if err := l.admit(ctx, productNomination); err != nil {
		return err
	}

	held, err := l.ratingIDForKey(ctx, q, sub.ProductID, sub.ParameterID, sub.UserID)
	if err != nil {
		return err
	}
	if held != "" {
		return errs.ErrDuplicateRating
	}
	return nil
}

func (l *Ledger) ratingIDForKey(ctx context.Context, q queryer, productID, parameterID, userID string) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, l.dialect.Rebind(`
		SELECT id FROM parameter_scores WHERE product_id = ? AND parameter_id = ? AND user_id = ?
	`), productID, parameterID, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query parameter score: %w", err)
	}
	return id, nil
}

func translateRatingInsert(err error) error {
	switch {
	case db.IsUniqueViolation(err):
		return errs.ErrDuplicateRating
	case db.IsForeignKeyViolation(err):
		return errs.Invalid("parameter score", "product, parameter or user no longer exists")
	default:
		return fmt.Errorf("failed to insert parameter score: %w", err)
	}
}

// UpdateParameterScore changes the value of an existing rating. Stored
// references are kept; a key held by a different rating is ErrConflict.
func (l *Ledger) UpdateParameterScore(ctx context.Context, id string, sub ParameterScoreSubmission) (err error) {
	ctx, span := l.startSpan(ctx, "Ledger.UpdateParameterScore", attribute.String("parameter_score.id", id))
	defer func() { endSpan(span, err) }()

	err = db.InTx(ctx, l.conn, func(tx *sql.Tx) error {
		stored, err := l.getParameterScore(ctx, tx, id)
		if err != nil {
			return err
		}
		if msg, ok := l.rng.CheckValue(sub.Value); !ok {
			return errs.Invalid("parameter score", "%s", msg)
		}

		key := ratingKey{sub.ProductID, sub.ParameterID, sub.UserID}
		if key.productID == "" {
			key.productID = stored.ProductID
		}
		if key.parameterID == "" {
			key.parameterID = stored.ParameterID
		}
		if key.userID == "" {
			key.userID = stored.UserID
		}
		held, err := l.ratingIDForKey(ctx, tx, key.productID, key.parameterID, key.userID)
		if err != nil {
			return err
		}
		if held != "" && held != id {
			return errs.ErrConflict
		}

		_, err = tx.ExecContext(ctx, l.dialect.Rebind(`UPDATE parameter_scores SET value = ? WHERE id = ?`), int16(sub.Value), id)
		if err != nil {
			return fmt.Errorf("failed to update parameter score: %w", err)
		}
		return nil
	})
	if err != nil {
		return l.reject(kindParameterScore, err)
	}

	l.log.Info("parameter score updated", "parameter_score_id", id, "value", sub.Value)
	return nil
}

func (l *Ledger) DeleteParameterScore(ctx context.Context, id string) error {
	res, err := l.conn.ExecContext(ctx, l.dialect.Rebind(`DELETE FROM parameter_scores WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete parameter score: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	l.log.Info("parameter score deleted", "parameter_score_id", id)
	return nil
}

func (l *Ledger) GetParameterScore(ctx context.Context, id string) (models.ParameterScore, error) {
	return l.getParameterScore(ctx, l.conn, id)
}

func (l *Ledger) getParameterScore(ctx context.Context, q queryer, id string) (models.ParameterScore, error) {
	var s models.ParameterScore
	err := q.QueryRowContext(ctx, l.dialect.Rebind(`
		SELECT id, value, product_id, parameter_id, user_id, created_at FROM parameter_scores WHERE id = ?
	`), id).Scan(&s.ID, &s.Value, &s.ProductID, &s.ParameterID, &s.UserID, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ParameterScore{}, errs.ErrNotFound
	}
	if err != nil {
		return models.ParameterScore{}, fmt.Errorf("failed to query parameter score: %w", err)
	}
	return s, nil
}

func (l *Ledger) ListParameterScores(ctx context.Context) ([]models.ParameterScore, error) {
	return l.listParameterScores(ctx, `
		SELECT id, value, product_id, parameter_id, user_id, created_at FROM parameter_scores ORDER BY id
	`)
}

func (l *Ledger) ListParameterScoresForProduct(ctx context.Context, productID string) ([]models.ParameterScore, error) {
	return l.listParameterScores(ctx, `
		SELECT id, value, product_id, parameter_id, user_id, created_at
		FROM parameter_scores WHERE product_id = ? ORDER BY id
	`, productID)
}

func (l *Ledger) ListParameterScoresForUser(ctx context.Context, userID string) ([]models.ParameterScore, error) {
	return l.listParameterScores(ctx, `
		SELECT id, value, product_id, parameter_id, user_id, created_at
		FROM parameter_scores WHERE user_id = ? ORDER BY id
	`, userID)
}

func (l *Ledger) listParameterScores(ctx context.Context, query string, args ...any) ([]models.ParameterScore, error) {
	rows, err := l.conn.QueryContext(ctx, l.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query parameter scores: %w", err)
	}
	defer rows.Close()

	out := make([]models.ParameterScore, 0)
	for rows.Next() {
		var s models.ParameterScore
		if err := rows.Scan(&s.ID, &s.Value, &s.ProductID, &s.ParameterID, &s.UserID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan parameter score: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read parameter scores: %w", err)
	}
	return out, nil
}
