// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/errs"
	"github.com/danielhkuo/taste-champion/validation"
)

// Registry stores the records scores refer to: users, producers, products,
// nominations and their groups, parameters, disadvantages and comments.
type Registry struct {
	conn      *sql.DB
	dialect   db.Dialect
	validator *validation.Validator
	log       *slog.Logger
}

func New(conn *sql.DB, dialect db.Dialect, v *validation.Validator, logger *slog.Logger) *Registry {
	if v == nil {
		v = validation.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		conn:      conn,
		dialect:   dialect,
		validator: v,
		log:       logger.With("module", "registry"),
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// translate maps constraint failures to domain errors.
func translate(entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", entity, errs.ErrConflict)
	case db.IsForeignKeyViolation(err):
		return errs.Invalid(entity, "referenced record does not exist")
	default:
		return fmt.Errorf("failed to write %s: %w", entity, err)
	}
}

// insert runs query with a fresh id prepended to args and returns the id.
func (r *Registry) insert(ctx context.Context, q execer, entity, query string, args ...any) (string, error) {
	id, err := db.NewID()
	if err != nil {
		return "", err
	}
	_, err = q.ExecContext(ctx, r.dialect.Rebind(query), append([]any{id}, args...)...)
	if err != nil {
		return "", translate(entity, err)
	}
	r.log.Info(entity+" created", "id", id)
	return id, nil
}

// update runs query and returns ErrNotFound when no row matched.
func (r *Registry) update(ctx context.Context, entity, query string, args ...any) error {
	res, err := r.conn.ExecContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return translate(entity, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// remove deletes one row; children go with it through ON DELETE rules.
func (r *Registry) remove(ctx context.Context, table, id string) error {
	res, err := r.conn.ExecContext(ctx, r.dialect.Rebind("DELETE FROM "+table+" WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	r.log.Info("record deleted", "table", table, "id", id)
	return nil
}

// requireRef records a violation when a referenced row is missing.
func (r *Registry) requireRef(ctx context.Context, q execer, v *errs.ValidationError, table, field, id string) error {
	if id == "" {
		return nil
	}
	var found bool
	err := q.QueryRowContext(ctx,
		r.dialect.Rebind("SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = ?)"), id,
	).Scan(&found)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", table, err)
	}
	if !found {
		v.Add("%s %s does not exist", field, id)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func getOne[T any](ctx context.Context, r *Registry, scan func(scanner) (T, error), query string, args ...any) (T, error) {
	v, err := scan(r.conn.QueryRowContext(ctx, r.dialect.Rebind(query), args...))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, errs.ErrNotFound
	}
	return v, err
}

func list[T any](ctx context.Context, r *Registry, scan func(scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := r.conn.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
