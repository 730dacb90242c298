// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/taste-champion/cliparse"
	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/lifecycle"
	"github.com/danielhkuo/taste-champion/metrics"
	"github.com/danielhkuo/taste-champion/middleware"
	"github.com/danielhkuo/taste-champion/models"
)

// NominationHandler manages nomination groups, nominations and their
// criteria, and drives the lifecycle of groups and nominations.
type NominationHandler struct {
	services
}

func NewNominationHandler(conn *sql.DB, dialect db.Dialect, cfg cliparse.Config, m *metrics.Collector) *NominationHandler {
	return &NominationHandler{services: newServices(conn, dialect, cfg, m)}
}

// Groups

// CreateGroup handles POST /groups
func (h *NominationHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.GroupRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := h.registry.CreateGroup(r.Context(), req)
	created(w, id, err)
}

// ListGroups handles GET /groups
func (h *NominationHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.registry.ListGroups(r.Context())
	respond(w, groups, err)
}

// GetGroup handles GET /groups/{id}
func (h *NominationHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.registry.GetGroup(r.Context(), r.PathValue("id"))
	respond(w, group, err)
}

// UpdateGroup handles PUT /groups/{id}
func (h *NominationHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.GroupRequest
	if !decode(w, r, &req) {
		return
	}
	success(w, h.registry.UpdateGroup(r.Context(), r.PathValue("id"), req))
}

// DeleteGroup handles DELETE /groups/{id}
func (h *NominationHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	success(w, h.registry.DeleteGroup(r.Context(), r.PathValue("id")))
}

// ListGroupNominations handles GET /groups/{id}/nominations
// Non-admins only see nominations that are open for voting.
func (h *NominationHandler) ListGroupNominations(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if _, err := h.registry.GetGroup(r.Context(), groupID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	nominations, err := h.registry.ListNominationsByGroup(r.Context(), groupID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if !caller(r).IsAdmin() {
		nominations = activeOnly(nominations)
	}
	middleware.JSONResponse(w, http.StatusOK, nominations)
}

// TransitionGroup handles PUT /groups/{id}/{transition}
func (h *NominationHandler) TransitionGroup(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, lifecycle.KindGroup)
}

// Nominations

// CreateNomination handles POST /nominations
// New nominations start in DRAFT.
func (h *NominationHandler) CreateNomination(w http.ResponseWriter, r *http.Request) {
	var req models.NominationRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := h.registry.CreateNomination(r.Context(), req)
	created(w, id, err)
}

// ListNominations handles GET /nominations
// Admins see every nomination; everyone else sees ACTIVE ones.
func (h *NominationHandler) ListNominations(w http.ResponseWriter, r *http.Request) {
	if caller(r).IsAdmin() {
		nominations, err := h.registry.ListNominations(r.Context())
		respond(w, nominations, err)
		return
	}
	nominations, err := h.lifecycle.ActiveNominations(r.Context())
	respond(w, nominations, err)
}

// GetNomination handles GET /nominations/{id}
func (h *NominationHandler) GetNomination(w http.ResponseWriter, r *http.Request) {
	nomination, err := h.visibleNomination(r, r.PathValue("id"))
	respond(w, nomination, err)
}

// UpdateNomination handles PUT /nominations/{id}
func (h *NominationHandler) UpdateNomination(w http.ResponseWriter, r *http.Request) {
	var req models.NominationRequest
	if !decode(w, r, &req) {
		return
	}
	success(w, h.registry.UpdateNomination(r.Context(), r.PathValue("id"), req))
}

// DeleteNomination handles DELETE /nominations/{id}
func (h *NominationHandler) DeleteNomination(w http.ResponseWriter, r *http.Request) {
	success(w, h.registry.DeleteNomination(r.Context(), r.PathValue("id")))
}

// TransitionNomination handles PUT /nominations/{id}/{transition}
func (h *NominationHandler) TransitionNomination(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, lifecycle.KindNomination)
}

func (h *NominationHandler) transition(w http.ResponseWriter, r *http.Request, kind lifecycle.Kind) {
	t, err := lifecycle.ParseTransition(r.PathValue("transition"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	status, err := h.lifecycle.Apply(r.Context(), kind, r.PathValue("id"), t)
	respond(w, status, err)
}

// ListNominationParameters handles GET /nominations/{id}/parameters
func (h *NominationHandler) ListNominationParameters(w http.ResponseWriter, r *http.Request) {
	nominationID := r.PathValue("id")
	if _, err := h.visibleNomination(r, nominationID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	params, err := h.registry.ListParametersByNomination(r.Context(), nominationID)
	respond(w, params, err)
}

// ListNominationDisadvantages handles GET /nominations/{id}/disadvantages
func (h *NominationHandler) ListNominationDisadvantages(w http.ResponseWriter, r *http.Request) {
	nominationID := r.PathValue("id")
	if _, err := h.visibleNomination(r, nominationID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	items, err := h.registry.ListDisadvantagesByNomination(r.Context(), nominationID)
	respond(w, items, err)
}

// Parameters

// CreateParameter handles POST /parameters
func (h *NominationHandler) CreateParameter(w http.ResponseWriter, r *http.Request) {
	var req models.ParameterRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := h.registry.CreateParameter(r.Context(), req)
	created(w, id, err)
}

// ListParameters handles GET /parameters
func (h *NominationHandler) ListParameters(w http.ResponseWriter, r *http.Request) {
	params, err := h.registry.ListParameters(r.Context())
	respond(w, params, err)
}

// GetParameter handles GET /parameters/{id}
func (h *NominationHandler) GetParameter(w http.ResponseWriter, r *http.Request) {
	param, err := h.registry.GetParameter(r.Context(), r.PathValue("id"))
	respond(w, param, err)
}

// UpdateParameter handles PUT /parameters/{id}
func (h *NominationHandler) UpdateParameter(w http.ResponseWriter, r *http.Request) {
	var req models.ParameterRequest
	if !decode(w, r, &req) {
		return
	}
	success(w, h.registry.UpdateParameter(r.Context(), r.PathValue("id"), req))
}

// DeleteParameter handles DELETE /parameters/{id}
func (h *NominationHandler) DeleteParameter(w http.ResponseWriter, r *http.Request) {
	success(w, h.registry.DeleteParameter(r.Context(), r.PathValue("id")))
}

// Disadvantages

// CreateDisadvantage handles POST /disadvantages
func (h *NominationHandler) CreateDisadvantage(w http.ResponseWriter, r *http.Request) {
	var req models.DisadvantageRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := h.registry.CreateDisadvantage(r.Context(), req)
	created(w, id, err)
}

// ListDisadvantages handles GET /disadvantages
func (h *NominationHandler) ListDisadvantages(w http.ResponseWriter, r *http.Request) {
	items, err := h.registry.ListDisadvantages(r.Context())
	respond(w, items, err)
}

// GetDisadvantage handles GET /disadvantages/{id}
func (h *NominationHandler) GetDisadvantage(w http.ResponseWriter, r *http.Request) {
	item, err := h.registry.GetDisadvantage(r.Context(), r.PathValue("id"))
	respond(w, item, err)
}

// UpdateDisadvantage handles PUT /disadvantages/{id}
func (h *NominationHandler) UpdateDisadvantage(w http.ResponseWriter, r *http.Request) {
	var req models.DisadvantageRequest
	if !decode(w, r, &req) {
		return
	}
	success(w, h.registry.UpdateDisadvantage(r.Context(), r.PathValue("id"), req))
}

// DeleteDisadvantage handles DELETE /disadvantages/{id}
func (h *NominationHandler) DeleteDisadvantage(w http.ResponseWriter, r *http.Request) {
	success(w, h.registry.DeleteDisadvantage(r.Context(), r.PathValue("id")))
}

func activeOnly(nominations []models.Nomination) []models.Nomination {
	out := make([]models.Nomination, 0, len(nominations))
	for _, n := range nominations {
		if models.StateOf(n.Active, n.Finished) == models.StateActive {
			out = append(out, n)
		}
	}
	return out
}
