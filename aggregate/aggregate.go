// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/errs"
	"github.com/danielhkuo/taste-champion/models"
)

// DefaultConcurrency bounds the product rollups computed at once.
const DefaultConcurrency = 4

// Engine derives averages and counts from stored scores. Nothing is cached
// and every empty input yields zero.
type Engine struct {
	conn        *sql.DB
	dialect     db.Dialect
	concurrency int
}

func New(conn *sql.DB, dialect db.Dialect) *Engine {
	return &Engine{conn: conn, dialect: dialect, concurrency: DefaultConcurrency}
}

// AverageScore is the mean of the product's scores, or 0 when it has none.
func (e *Engine) AverageScore(ctx context.Context, productID string) (float64, error) {
	if err := e.requireRow(ctx, "products", productID); err != nil {
		return 0, err
	}
	values, err := e.floats(ctx, `SELECT value FROM scores WHERE product_id = ?`, productID)
	if err != nil {
		return 0, err
	}
	return mean(values), nil
}

// VoterCount approximates the number of voters in a nomination by the score
// count of its first product. All products share one voter population.
func (e *Engine) VoterCount(ctx context.Context, nominationID string) (int, error) {
	if err := e.requireRow(ctx, "nominations", nominationID); err != nil {
		return 0, err
	}

	var first string
	err := e.conn.QueryRowContext(ctx, e.dialect.Rebind(`
		SELECT id FROM products WHERE nomination_id = ? ORDER BY id LIMIT 1
	`), nominationID).Scan(&first)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query first product: %w", err)
	}

	var n int
	err = e.conn.QueryRowContext(ctx, e.dialect.Rebind(`SELECT COUNT(*) FROM scores WHERE product_id = ?`), first).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count scores: %w", err)
	}
	return n, nil
}

// ParameterAverage is the mean rating of one parameter for one product.
func (e *Engine) ParameterAverage(ctx context.Context, productID, parameterID string) (float64, error) {
	values, err := e.floats(ctx, `
		SELECT value FROM parameter_scores WHERE product_id = ? AND parameter_id = ?
	`, productID, parameterID)
	if err != nil {
		return 0, err
	}
	return mean(values), nil
}

// ProductRollup summarizes a product: overall, expert and consumer
// averages, vote count, and the average of every parameter of its
// nomination keyed by parameter name.
func (e *Engine) ProductRollup(ctx context.Context, productID string) (models.ProductRollup, error) {
	ctx, span := otel.Tracer("taste-champion/aggregate").Start(ctx, "Engine.ProductRollup")
	span.SetAttributes(attribute.String("product.id", productID))
	defer span.End()

	r := models.ProductRollup{ProductID: productID, ParameterAverages: map[string]float64{}}
	var nomination sql.NullString
	err := e.conn.QueryRowContext(ctx, e.dialect.Rebind(`
		SELECT name, nomination_id FROM products WHERE id = ?
	`), productID).Scan(&r.ProductName, &nomination)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ProductRollup{}, errs.ErrNotFound
	}
	if err != nil {
		return models.ProductRollup{}, fmt.Errorf("failed to query product: %w", err)
	}

	rows, err := e.conn.QueryContext(ctx, e.dialect.Rebind(`
		SELECT value, is_expert FROM scores WHERE product_id = ? ORDER BY id
	`), productID)
	if err != nil {
		return models.ProductRollup{}, fmt.Errorf("failed to query scores: %w", err)
	}
	var all, experts, consumers []float64
	for rows.Next() {
		var v float64
		var expert bool
		if err := rows.Scan(&v, &expert); err != nil {
			rows.Close()
			return models.ProductRollup{}, fmt.Errorf("failed to scan score: %w", err)
		}
		all = append(all, v)
		if expert {
			experts = append(experts, v)
		} else {
			consumers = append(consumers, v)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.ProductRollup{}, fmt.Errorf("failed to read scores: %w", err)
	}

	r.Average = mean(all)
	r.ExpertAverage = mean(experts)
	r.ConsumerAverage = mean(consumers)
	r.VoteCount = len(all)

	if !nomination.Valid {
		return r, nil
	}
	params, err := e.conn.QueryContext(ctx, e.dialect.Rebind(`
		SELECT p.name, ps.value
		FROM parameters p
		LEFT JOIN parameter_scores ps ON ps.parameter_id = p.id AND ps.product_id = ?
		WHERE p.nomination_id = ?
	`), productID, nomination.String)
	if err != nil {
		return models.ProductRollup{}, fmt.Errorf("failed to query parameter scores: %w", err)
	}
	defer params.Close()

	byName := make(map[string][]float64)
	for params.Next() {
		var name string
		var v sql.NullFloat64
		if err := params.Scan(&name, &v); err != nil {
			return models.ProductRollup{}, fmt.Errorf("failed to scan parameter score: %w", err)
		}
		if _, ok := byName[name]; !ok {
			byName[name] = nil
		}
		if v.Valid {
			byName[name] = append(byName[name], v.Float64)
		}
	}
	if err := params.Err(); err != nil {
		return models.ProductRollup{}, fmt.Errorf("failed to read parameter scores: %w", err)
	}
	for name, values := range byName {
		r.ParameterAverages[name] = mean(values)
	}
	return r, nil
}

// NominationResults rolls up every product of a nomination, in product
// insertion order. Rollups run concurrently.
func (e *Engine) NominationResults(ctx context.Context, nominationID string) ([]models.ProductRollup, error) {
	if err := e.requireRow(ctx, "nominations", nominationID); err != nil {
		return nil, err
	}

	rows, err := e.conn.QueryContext(ctx, e.dialect.Rebind(`
		SELECT id FROM products WHERE nomination_id = ? ORDER BY id
	`), nominationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	results := make([]models.ProductRollup, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			r, err := e.ProductRollup(gctx, id)
			if err != nil {
				return fmt.Errorf("product %s: %w", id, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) requireRow(ctx context.Context, table, id string) error {
	var found bool
	err := e.conn.QueryRowContext(ctx,
		e.dialect.Rebind("SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = ?)"), id,
	).Scan(&found)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", table, err)
	}
	if !found {
		return errs.ErrNotFound
	}
	return nil
}

func (e *Engine) floats(ctx context.Context, query string, args ...any) ([]float64, error) {
	rows, err := e.conn.QueryContext(ctx, e.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// mean returns the arithmetic mean, or 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
