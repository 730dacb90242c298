// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/danielhkuo/taste-champion/auth"
	"github.com/danielhkuo/taste-champion/cliparse"
	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/lifecycle"
	"github.com/danielhkuo/taste-champion/metrics"
	"github.com/danielhkuo/taste-champion/middleware"
	"github.com/danielhkuo/taste-champion/models"
)

// ResultsHandler serves score views. Views available to voters are gated:
// until the caller has scored a product, other voters' scores and averages
// are withheld and the response carries visibility LOCKED. Admins are never
// gated.
type ResultsHandler struct {
	services
}

func NewResultsHandler(conn *sql.DB, dialect db.Dialect, cfg cliparse.Config, m *metrics.Collector) *ResultsHandler {
	return &ResultsHandler{services: newServices(conn, dialect, cfg, m)}
}

// productVisibility resolves the product (404 if unknown) and the caller's
// view of it.
func (h *ResultsHandler) productVisibility(r *http.Request, productID string) (string, error) {
	if _, err := h.registry.GetProduct(r.Context(), productID); err != nil {
		return "", err
	}
	id := caller(r)
	if id.IsAdmin() {
		return models.VisibilityOpen, nil
	}
	return h.gate.CanView(r.Context(), productID, id.UserID)
}

// GetProductVisibility handles GET /products/{id}/visibility
func (h *ResultsHandler) GetProductVisibility(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	vis, err := h.productVisibility(r, productID)
	respond(w, models.VisibilityResponse{ProductID: productID, Visibility: vis}, err)
}

// GetProductScores handles GET /products/{id}/scores
// The vote count is always returned; the itemized scores only when OPEN.
func (h *ResultsHandler) GetProductScores(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	vis, err := h.productVisibility(r, productID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	scores, err := h.ledger.ListScoresForProduct(r.Context(), productID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	resp := models.ProductScoresResponse{
		ProductID:  productID,
		Visibility: vis,
		VoteCount:  len(scores),
	}
	if vis == models.VisibilityOpen {
		resp.Scores = scores
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetProductAverage handles GET /products/{id}/scores/average
func (h *ResultsHandler) GetProductAverage(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	vis, err := h.productVisibility(r, productID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	resp := models.AverageResponse{ProductID: productID, Visibility: vis}
	if vis == models.VisibilityOpen {
		avg, err := h.aggregate.AverageScore(r.Context(), productID)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		resp.Average = &avg
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetProductRollup handles GET /products/{id}/rollup
func (h *ResultsHandler) GetProductRollup(w http.ResponseWriter, r *http.Request) {
	rollup, err := h.aggregate.ProductRollup(r.Context(), r.PathValue("id"))
	respond(w, rollup, err)
}

// GetNominationProducts handles GET /nominations/{id}/products
// Products are always listed; the visibility marker tells the client
// whether it may show score data yet.
func (h *ResultsHandler) GetNominationProducts(w http.ResponseWriter, r *http.Request) {
	nominationID := r.PathValue("id")
	if _, err := h.visibleNomination(r, nominationID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	products, err := h.registry.ListProductsByNomination(r.Context(), nominationID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	vis, err := h.nominationVisibility(r.Context(), caller(r), products)
	respond(w, models.NominationProductsResponse{
		NominationID: nominationID,
		Visibility:   vis,
		Products:     products,
	}, err)
}

func (h *ResultsHandler) nominationVisibility(ctx context.Context, id auth.Identity, products []models.Product) (string, error) {
	if id.IsAdmin() {
		return models.VisibilityOpen, nil
	}
	return h.gate.CanViewNomination(ctx, products, id.UserID)
}

// GetVoterCount handles GET /nominations/{id}/number-of-voters
func (h *ResultsHandler) GetVoterCount(w http.ResponseWriter, r *http.Request) {
	nominationID := r.PathValue("id")
	n, err := h.aggregate.VoterCount(r.Context(), nominationID)
	respond(w, models.VoterCountResponse{NominationID: nominationID, Voters: n}, err)
}

// GetNominationResults handles GET /nominations/{id}/results
func (h *ResultsHandler) GetNominationResults(w http.ResponseWriter, r *http.Request) {
	nominationID := r.PathValue("id")
	status, err := h.lifecycle.Status(r.Context(), lifecycle.KindNomination, nominationID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	rollups, err := h.aggregate.NominationResults(r.Context(), nominationID)
	respond(w, models.NominationResultsResponse{
		NominationID: nominationID,
		State:        status.State,
		Products:     rollups,
	}, err)
}
