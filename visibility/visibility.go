// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package visibility

import (
	"context"
	"fmt"

	"github.com/danielhkuo/taste-champion/errs"
	"github.com/danielhkuo/taste-champion/models"
)

// ScoreLister returns a product's scores. *ledger.Ledger satisfies it.
type ScoreLister interface {
	ListScoresForProduct(ctx context.Context, productID string) ([]models.Score, error)
}

// Gate hides other voters' scores from a caller until the caller has voted.
type Gate struct {
	scores ScoreLister
}

func New(scores ScoreLister) *Gate {
	return &Gate{scores: scores}
}

// CanView returns OPEN when the product has no scores or callerID has
// scored it, and LOCKED otherwise.
func (g *Gate) CanView(ctx context.Context, productID, callerID string) (string, error) {
	if callerID == "" {
		return "", errs.ErrUnauthorized
	}

	scores, err := g.scores.ListScoresForProduct(ctx, productID)
	if err != nil {
		return "", fmt.Errorf("failed to list scores: %w", err)
	}
	return decide(scores, callerID), nil
}

// CanViewNomination gates a nomination's product listing on its first
// product; every product in a nomination shares one voter population.
func (g *Gate) CanViewNomination(ctx context.Context, products []models.Product, callerID string) (string, error) {
	if callerID == "" {
		return "", errs.ErrUnauthorized
	}
	if len(products) == 0 {
		return models.VisibilityOpen, nil
	}
	return g.CanView(ctx, products[0].ID, callerID)
}

func decide(scores []models.Score, callerID string) string {
	if len(scores) == 0 {
		return models.VisibilityOpen
	}
	for _, s := range scores {
		if s.UserID == callerID {
			return models.VisibilityOpen
		}
	}
	return models.VisibilityLocked
}
