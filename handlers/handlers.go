// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/taste-champion/aggregate"
	"github.com/danielhkuo/taste-champion/auth"
	"github.com/danielhkuo/taste-champion/cliparse"
	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/errs"
	"github.com/danielhkuo/taste-champion/ledger"
	"github.com/danielhkuo/taste-champion/lifecycle"
	"github.com/danielhkuo/taste-champion/metrics"
	"github.com/danielhkuo/taste-champion/middleware"
	"github.com/danielhkuo/taste-champion/models"
	"github.com/danielhkuo/taste-champion/registry"
	"github.com/danielhkuo/taste-champion/validation"
	"github.com/danielhkuo/taste-champion/visibility"
)

// services bundles the components a handler talks to. Every handler builds
// its own set over the shared connection pool; none of them hold state.
type services struct {
	registry  *registry.Registry
	ledger    *ledger.Ledger
	lifecycle *lifecycle.Machine
	aggregate *aggregate.Engine
	gate      *visibility.Gate
}

func newServices(conn *sql.DB, dialect db.Dialect, cfg cliparse.Config, m *metrics.Collector) services {
	logger := slog.Default()
	lc := lifecycle.New(conn, dialect, lifecycle.Options{Logger: logger, Metrics: m})
	l := ledger.New(conn, dialect, ledger.Options{
		Range:   validation.RatingRange{Min: int16(cfg.RatingMin), Max: int16(cfg.RatingMax)},
		Logger:  logger,
		Metrics: m,
		Window:  lc,
	})
	return services{
		registry:  registry.New(conn, dialect, validation.New(), logger),
		ledger:    l,
		lifecycle: lc,
		aggregate: aggregate.New(conn, dialect),
		gate:      visibility.New(l),
	}
}

// caller returns the authenticated identity. Routes are wrapped in
// middleware.Authenticate, so a missing identity yields a zero value that
// every service rejects.
func caller(r *http.Request) auth.Identity {
	id, _ := auth.IdentityFrom(r.Context())
	return id
}

// visibleNomination returns the nomination if the caller may see it. Only
// ACTIVE nominations exist for voters; anything else is reported as not
// found. Admins see every state.
func (s services) visibleNomination(r *http.Request, id string) (models.Nomination, error) {
	nomination, err := s.registry.GetNomination(r.Context(), id)
	if err != nil {
		return models.Nomination{}, err
	}
	if !caller(r).IsAdmin() && models.StateOf(nomination.Active, nomination.Finished) != models.StateActive {
		return models.Nomination{}, fmt.Errorf("nomination %s: %w", id, errs.ErrNotFound)
	}
	return nomination, nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := middleware.ParseJSONBody(r, v); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

func respond[T any](w http.ResponseWriter, v T, err error) {
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, v)
}

func created(w http.ResponseWriter, id string, err error) {
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

func createdBatch(w http.ResponseWriter, ids []string, err error) {
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, models.BatchCreatedResponse{IDs: ids})
}

func success(w http.ResponseWriter, err error) {
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
