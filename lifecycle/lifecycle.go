// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/errs"
	"github.com/danielhkuo/taste-champion/metrics"
	"github.com/danielhkuo/taste-champion/models"
)

// Kind selects the entity a transition applies to.
type Kind string

const (
	KindNomination Kind = "nomination"
	KindGroup      Kind = "group"
)

func (k Kind) table() string {
	if k == KindGroup {
		return "nomination_groups"
	}
	return "nominations"
}

// Transition is one admin operation on the lifecycle flags.
type Transition string

const (
	Activate   Transition = "activate"
	Deactivate Transition = "deactivate"
	Finish     Transition = "finish"
	Start      Transition = "start"
)

// ParseTransition validates a transition name taken from a URL.
func ParseTransition(s string) (Transition, error) {
	switch t := Transition(s); t {
	case Activate, Deactivate, Finish, Start:
		return t, nil
	default:
		return "", errs.Invalid("transition", "unknown transition %q", s)
	}
}

func (t Transition) assignment() string {
	if t == Activate || t == Deactivate {
		return "active = ?"
	}
	return "finished = ?"
}

func (t Transition) value() bool {
	return t == Activate || t == Finish
}

type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Collector
}

// Machine applies lifecycle transitions. Groups and nominations are
// independent: finishing a group leaves its nominations untouched.
type Machine struct {
	conn    *sql.DB
	dialect db.Dialect
	log     *slog.Logger
	metrics *metrics.Collector
}

func New(conn *sql.DB, dialect db.Dialect, opts Options) *Machine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		conn:    conn,
		dialect: dialect,
		log:     logger.With("module", "lifecycle"),
		metrics: opts.Metrics,
	}
}

// Apply persists the transition and returns the resulting status.
// Repeating a transition succeeds and leaves the state unchanged.
func (m *Machine) Apply(ctx context.Context, kind Kind, id string, t Transition) (status models.LifecycleStatus, err error) {
	ctx, span := otel.Tracer("taste-champion/lifecycle").Start(ctx, "Machine.Apply")
	span.SetAttributes(
		attribute.String("lifecycle.kind", string(kind)),
		attribute.String("lifecycle.id", id),
		attribute.String("lifecycle.transition", string(t)),
	)
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	err = db.InTx(ctx, m.conn, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			m.dialect.Rebind("UPDATE "+kind.table()+" SET "+t.assignment()+" WHERE id = ?"),
			t.value(), id)
		if err != nil {
			return fmt.Errorf("failed to %s %s: %w", t, kind, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to %s %s: %w", t, kind, err)
		}
		if n == 0 {
			return errs.ErrNotFound
		}

		status, err = m.read(ctx, tx, kind, id)
		return err
	})
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			m.log.Error("lifecycle transition failed", "kind", kind, "id", id, "transition", t, "error", err)
		}
		return models.LifecycleStatus{}, err
	}

	m.metrics.Transition(string(kind), string(t))
	m.log.Info("lifecycle transition applied", "kind", kind, "id", id, "transition", t, "state", status.State)
	return status, nil
}

func (m *Machine) Activate(ctx context.Context, kind Kind, id string) (models.LifecycleStatus, error) {
	return m.Apply(ctx, kind, id, Activate)
}

func (m *Machine) Deactivate(ctx context.Context, kind Kind, id string) (models.LifecycleStatus, error) {
	return m.Apply(ctx, kind, id, Deactivate)
}

func (m *Machine) Finish(ctx context.Context, kind Kind, id string) (models.LifecycleStatus, error) {
	return m.Apply(ctx, kind, id, Finish)
}

// Start reopens a finished entity.
func (m *Machine) Start(ctx context.Context, kind Kind, id string) (models.LifecycleStatus, error) {
	return m.Apply(ctx, kind, id, Start)
}

// Status reads the current flags.
func (m *Machine) Status(ctx context.Context, kind Kind, id string) (models.LifecycleStatus, error) {
	return m.read(ctx, m.conn, kind, id)
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (m *Machine) read(ctx context.Context, q rowQueryer, kind Kind, id string) (models.LifecycleStatus, error) {
	s := models.LifecycleStatus{ID: id}
	err := q.QueryRowContext(ctx,
		m.dialect.Rebind("SELECT active, finished FROM "+kind.table()+" WHERE id = ?"), id,
	).Scan(&s.Active, &s.Finished)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LifecycleStatus{}, errs.ErrNotFound
	}
	if err != nil {
		return models.LifecycleStatus{}, fmt.Errorf("failed to read %s state: %w", kind, err)
	}
	s.State = models.StateOf(s.Active, s.Finished)
	return s, nil
}

// VotingOpen reports whether the nomination accepts votes (state ACTIVE).
func (m *Machine) VotingOpen(ctx context.Context, nominationID string) (bool, error) {
	s, err := m.Status(ctx, KindNomination, nominationID)
	if err != nil {
		return false, err
	}
	return s.State == models.StateActive, nil
}

// ActiveNominations lists nominations in state ACTIVE, in insertion order.
func (m *Machine) ActiveNominations(ctx context.Context) ([]models.Nomination, error) {
	rows, err := m.conn.QueryContext(ctx, m.dialect.Rebind(`
		SELECT id, name, photo_url, active, finished, group_id
		FROM nominations WHERE active = ? AND finished = ? ORDER BY id
	`), true, false)
	if err != nil {
		return nil, fmt.Errorf("failed to query nominations: %w", err)
	}
	defer rows.Close()

	out := make([]models.Nomination, 0)
	for rows.Next() {
		var n models.Nomination
		var group sql.NullString
		if err := rows.Scan(&n.ID, &n.Name, &n.PhotoURL, &n.Active, &n.Finished, &group); err != nil {
			return nil, fmt.Errorf("failed to scan nomination: %w", err)
		}
		if group.Valid {
			n.GroupID = &group.String
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
