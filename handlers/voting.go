// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/taste-champion/cliparse"
	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/ledger"
	"github.com/danielhkuo/taste-champion/metrics"
	"github.com/danielhkuo/taste-champion/middleware"
	"github.com/danielhkuo/taste-champion/models"
)

// VotingHandler records scores and parameter scores for the caller and
// exposes admin maintenance of both ledgers.
type VotingHandler struct {
	services
}

func NewVotingHandler(conn *sql.DB, dialect db.Dialect, cfg cliparse.Config, m *metrics.Collector) *VotingHandler {
	return &VotingHandler{services: newServices(conn, dialect, cfg, m)}
}

func (h *VotingHandler) scoreSubmissions(r *http.Request, reqs []models.ScoreRequest) []ledger.ScoreSubmission {
	id := caller(r)
	subs := make([]ledger.ScoreSubmission, len(reqs))
	for i, req := range reqs {
		subs[i] = ledger.ScoreSubmission{
			ProductID: req.ProductID,
			UserID:    id.UserID,
			Value:     req.Value,
			IsExpert:  id.IsExpert(),
		}
	}
	return subs
}

// SubmitScore handles POST /scores
func (h *VotingHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var req models.ScoreRequest
	if !decode(w, r, &req) {
		return
	}

	id, err := h.ledger.SubmitScore(r.Context(), h.scoreSubmissions(r, []models.ScoreRequest{req})[0])
	created(w, id, err)
}

// SubmitScoreBatch handles POST /scores/batch
func (h *VotingHandler) SubmitScoreBatch(w http.ResponseWriter, r *http.Request) {
	var req models.ScoreBatchRequest
	if !decode(w, r, &req) {
		return
	}

	ids, err := h.ledger.SubmitScoreBatch(r.Context(), h.scoreSubmissions(r, req.Scores))
	createdBatch(w, ids, err)
}

// ListScores handles GET /scores
func (h *VotingHandler) ListScores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.ledger.ListScores(r.Context())
	respond(w, scores, err)
}

// GetScore handles GET /scores/{id}
func (h *VotingHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	score, err := h.ledger.GetScore(r.Context(), r.PathValue("id"))
	respond(w, score, err)
}

// UpdateScore handles PUT /scores/{id}. Only the value changes; the stored
// product, voter and role snapshot are kept.
func (h *VotingHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	var req models.ScoreRequest
	if !decode(w, r, &req) {
		return
	}
	success(w, h.ledger.UpdateScore(r.Context(), r.PathValue("id"), ledger.ScoreSubmission{
		ProductID: req.ProductID,
		Value:     req.Value,
	}))
}

// DeleteScore handles DELETE /scores/{id}
func (h *VotingHandler) DeleteScore(w http.ResponseWriter, r *http.Request) {
	success(w, h.ledger.DeleteScore(r.Context(), r.PathValue("id")))
}

// ListUserScores handles GET /users/{id}/scores
func (h *VotingHandler) ListUserScores(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if _, err := h.registry.GetUser(r.Context(), userID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	scores, err := h.ledger.ListScoresForUser(r.Context(), userID)
	respond(w, scores, err)
}

func (h *VotingHandler) parameterSubmissions(r *http.Request, reqs []models.ParameterScoreRequest) []ledger.ParameterScoreSubmission {
	userID := caller(r).UserID
	subs := make([]ledger.ParameterScoreSubmission, len(reqs))
	for i, req := range reqs {
		subs[i] = ledger.ParameterScoreSubmission{
			ProductID:   req.ProductID,
			ParameterID: req.ParameterID,
			UserID:      userID,
			Value:       req.Value,
		}
	}
	return subs
}

// SubmitParameterScore handles POST /parameter-scores
func (h *VotingHandler) SubmitParameterScore(w http.ResponseWriter, r *http.Request) {
	var req models.ParameterScoreRequest
	if !decode(w, r, &req) {
		return
	}

	id, err := h.ledger.SubmitParameterScore(r.Context(), h.parameterSubmissions(r, []models.ParameterScoreRequest{req})[0])
	created(w, id, err)
}

// SubmitParameterScoreBatch handles POST /parameter-scores/batch
func (h *VotingHandler) SubmitParameterScoreBatch(w http.ResponseWriter, r *http.Request) {
	var req models.ParameterScoreBatchRequest
	if !decode(w, r, &req) {
		return
	}

	ids, err := h.ledger.SubmitParameterScoreBatch(r.Context(), h.parameterSubmissions(r, req.Scores))
	createdBatch(w, ids, err)
}

// ListParameterScores handles GET /parameter-scores
func (h *VotingHandler) ListParameterScores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.ledger.ListParameterScores(r.Context())
	respond(w, scores, err)
}

// GetParameterScore handles GET /parameter-scores/{id}
func (h *VotingHandler) GetParameterScore(w http.ResponseWriter, r *http.Request) {
	score, err := h.ledger.GetParameterScore(r.Context(), r.PathValue("id"))
	respond(w, score, err)
}

// UpdateParameterScore handles PUT /parameter-scores/{id}
func (h *VotingHandler) UpdateParameterScore(w http.ResponseWriter, r *http.Request) {
	var req models.ParameterScoreRequest
	if !decode(w, r, &req) {
		return
	}
	success(w, h.ledger.UpdateParameterScore(r.Context(), r.PathValue("id"), ledger.ParameterScoreSubmission{
		ProductID:   req.ProductID,
		ParameterID: req.ParameterID,
		Value:       req.Value,
	}))
}

// DeleteParameterScore handles DELETE /parameter-scores/{id}
func (h *VotingHandler) DeleteParameterScore(w http.ResponseWriter, r *http.Request) {
	success(w, h.ledger.DeleteParameterScore(r.Context(), r.PathValue("id")))
}

// ListProductParameterScores handles GET /products/{id}/parameter-scores
func (h *VotingHandler) ListProductParameterScores(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	if _, err := h.registry.GetProduct(r.Context(), productID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	scores, err := h.ledger.ListParameterScoresForProduct(r.Context(), productID)
	respond(w, scores, err)
}

// ListUserParameterScores handles GET /users/{id}/parameter-scores
func (h *VotingHandler) ListUserParameterScores(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if _, err := h.registry.GetUser(r.Context(), userID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	scores, err := h.ledger.ListParameterScoresForUser(r.Context(), userID)
	respond(w, scores, err)
}
