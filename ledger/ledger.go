// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/errs"
	"github.com/danielhkuo/taste-champion/metrics"
	"github.com/danielhkuo/taste-champion/validation"
)

const (
	kindScore          = "score"
	kindParameterScore = "parameter_score"
)

// VotingWindow reports whether a nomination currently accepts votes.
type VotingWindow interface {
	VotingOpen(ctx context.Context, nominationID string) (bool, error)
}

type Options struct {
	Range   validation.RatingRange
	Logger  *slog.Logger
	Metrics *metrics.Collector
	// Window, when set, closes voting on products whose nomination it
	// reports as not open. Products without a nomination always accept.
	Window VotingWindow
}

// Ledger records scores and parameter scores. It keeps no state between
// calls; every decision is made against the store inside one transaction.
type Ledger struct {
	conn    *sql.DB
	dialect db.Dialect
	rng     validation.RatingRange
	log     *slog.Logger
	metrics *metrics.Collector
	window  VotingWindow
}

func New(conn *sql.DB, dialect db.Dialect, opts Options) *Ledger {
	rng := opts.Range
	if rng == (validation.RatingRange{}) {
		rng = validation.DefaultRatingRange
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		conn:    conn,
		dialect: dialect,
		rng:     rng,
		log:     logger.With("module", "ledger"),
		metrics: opts.Metrics,
		window:  opts.Window,
	}
}

// Range returns the accepted rating range.
func (l *Ledger) Range() validation.RatingRange { return l.rng }

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (l *Ledger) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := otel.Tracer("taste-champion/ledger").Start(ctx, name)
	span.SetAttributes(attrs...)
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (l *Ledger) exists(ctx context.Context, q queryer, table, id string) (bool, error) {
	var found bool
	err := q.QueryRowContext(ctx,
		l.dialect.Rebind("SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = ?)"), id,
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("failed to look up %s: %w", table, err)
	}
	return found, nil
}

// reject records a rejected submission and passes err through.
func (l *Ledger) reject(kind string, err error) error {
	reason := "internal"
	switch {
	case errors.Is(err, errs.ErrValidation):
		reason = "validation"
	case errors.Is(err, errs.ErrDuplicateVote):
		reason = "duplicate_vote"
	case errors.Is(err, errs.ErrDuplicateRating):
		reason = "duplicate_rating"
	case errors.Is(err, errs.ErrConflict):
		reason = "conflict"
	case errors.Is(err, errs.ErrVotingClosed):
		reason = "voting_closed"
	case errors.Is(err, errs.ErrNotFound):
		reason = "not_found"
	}
	l.metrics.VoteRejected(kind, reason)
	if reason == "internal" {
		l.log.Error("ledger write failed", "kind", kind, "error", err)
	} else {
		l.log.Warn("submission rejected", "kind", kind, "reason", reason, "error", err)
	}
	return err
}

// productNomination looks up the nomination of a product. found is false
// for unknown products.
func (l *Ledger) productNomination(ctx context.Context, q queryer, productID string) (nominationID sql.NullString, found bool, err error) {
	err = q.QueryRowContext(ctx, l.dialect.Rebind(`SELECT nomination_id FROM products WHERE id = ?`), productID).
		Scan(&nominationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nominationID, false, nil
	}
	if err != nil {
		return nominationID, false, fmt.Errorf("failed to look up product: %w", err)
	}
	return nominationID, true, nil
}

// admit returns errs.ErrVotingClosed when the window reports the
// nomination closed.
func (l *Ledger) admit(ctx context.Context, nominationID sql.NullString) error {
	if l.window == nil || !nominationID.Valid {
		return nil
	}
	open, err := l.window.VotingOpen(ctx, nominationID.String)
	if err != nil {
		return err
	}
	if !open {
		return errs.ErrVotingClosed
	}
	return nil
}

// batchErr prefixes the item position when more than one item was submitted.
func batchErr(n, i int, err error) error {
	if n == 1 {
		return err
	}
	return fmt.Errorf("item %d: %w", i+1, err)
}
