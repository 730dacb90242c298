// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"database/sql"

	"github.com/danielhkuo/taste-champion/errs"
	"github.com/danielhkuo/taste-champion/models"
)

func scanGroup(s scanner) (models.NominationGroup, error) {
	var g models.NominationGroup
	err := s.Scan(&g.ID, &g.Name, &g.PhotoURL, &g.Active, &g.Finished)
	return g, err
}

const groupColumns = `SELECT id, name, photo_url, active, finished FROM nomination_groups`

// CreateGroup creates a group in DRAFT.
func (r *Registry) CreateGroup(ctx context.Context, req models.GroupRequest) (string, error) {
	if err := r.validator.Check("nomination group", req); err != nil {
		return "", err
	}
	return r.insert(ctx, r.conn, "nomination group",
		`INSERT INTO nomination_groups (id, name, photo_url, active, finished) VALUES (?, ?, ?, ?, ?)`,
		req.Name, req.PhotoURL, false, false)
}

func (r *Registry) GetGroup(ctx context.Context, id string) (models.NominationGroup, error) {
	return getOne(ctx, r, scanGroup, groupColumns+` WHERE id = ?`, id)
}

func (r *Registry) ListGroups(ctx context.Context) ([]models.NominationGroup, error) {
	return list(ctx, r, scanGroup, groupColumns+` ORDER BY id`)
}

// UpdateGroup changes name and photo; lifecycle flags move only through transitions.
func (r *Registry) UpdateGroup(ctx context.Context, id string, req models.GroupRequest) error {
	if err := r.validator.Check("nomination group", req); err != nil {
		return err
	}
	return r.update(ctx, "nomination group", `UPDATE nomination_groups SET name = ?, photo_url = ? WHERE id = ?`,
		req.Name, req.PhotoURL, id)
}

// DeleteGroup removes the group. Member nominations lose their group reference.
func (r *Registry) DeleteGroup(ctx context.Context, id string) error {
	return r.remove(ctx, "nomination_groups", id)
}

func scanNomination(s scanner) (models.Nomination, error) {
	var n models.Nomination
	var group sql.NullString
	err := s.Scan(&n.ID, &n.Name, &n.PhotoURL, &n.Active, &n.Finished, &group)
	n.GroupID = fromNull(group)
	return n, err
}

const nominationColumns = `SELECT id, name, photo_url, active, finished, group_id FROM nominations`

// CreateNomination creates a nomination in DRAFT, optionally inside a group.
func (r *Registry) CreateNomination(ctx context.Context, req models.NominationRequest) (string, error) {
	if err := r.validator.Check("nomination", req); err != nil {
		return "", err
	}
	if req.GroupID != nil && *req.GroupID != "" {
		v := errs.NewValidationError("nomination")
		if err := r.requireRef(ctx, r.conn, v, "nomination_groups", "group", *req.GroupID); err != nil {
			return "", err
		}
		if err := v.OrNil(); err != nil {
			return "", err
		}
	}
	return r.insert(ctx, r.conn, "nomination",
		`INSERT INTO nominations (id, name, photo_url, active, finished, group_id) VALUES (?, ?, ?, ?, ?, ?)`,
		req.Name, req.PhotoURL, false, false, nullable(req.GroupID))
}

func (r *Registry) GetNomination(ctx context.Context, id string) (models.Nomination, error) {
	return getOne(ctx, r, scanNomination, nominationColumns+` WHERE id = ?`, id)
}

func (r *Registry) ListNominations(ctx context.Context) ([]models.Nomination, error) {
	return list(ctx, r, scanNomination, nominationColumns+` ORDER BY id`)
}

func (r *Registry) ListNominationsByGroup(ctx context.Context, groupID string) ([]models.Nomination, error) {
	return list(ctx, r, scanNomination, nominationColumns+` WHERE group_id = ? ORDER BY id`, groupID)
}

// UpdateNomination changes name and photo. The group reference and lifecycle
// flags stay as stored.
func (r *Registry) UpdateNomination(ctx context.Context, id string, req models.NominationRequest) error {
	if err := r.validator.Check("nomination", req); err != nil {
		return err
	}
	return r.update(ctx, "nomination", `UPDATE nominations SET name = ?, photo_url = ? WHERE id = ?`,
		req.Name, req.PhotoURL, id)
}

// DeleteNomination removes the nomination with its products, parameters
// and disadvantages.
func (r *Registry) DeleteNomination(ctx context.Context, id string) error {
	return r.remove(ctx, "nominations", id)
}

func scanNamed(s scanner) (id, name, nominationID string, err error) {
	err = s.Scan(&id, &name, &nominationID)
	return
}

func scanParameter(s scanner) (models.Parameter, error) {
	id, name, nom, err := scanNamed(s)
	return models.Parameter{ID: id, Name: name, NominationID: nom}, err
}

func scanDisadvantage(s scanner) (models.Disadvantage, error) {
	id, name, nom, err := scanNamed(s)
	return models.Disadvantage{ID: id, Name: name, NominationID: nom}, err
}

func (r *Registry) createNamed(ctx context.Context, entity, table, name, nominationID string) (string, error) {
	v := errs.NewValidationError(entity)
	if err := r.requireRef(ctx, r.conn, v, "nominations", "nomination", nominationID); err != nil {
		return "", err
	}
	if err := v.OrNil(); err != nil {
		return "", err
	}
	return r.insert(ctx, r.conn, entity,
		`INSERT INTO `+table+` (id, name, nomination_id) VALUES (?, ?, ?)`, name, nominationID)
}

// CreateParameter adds a tasting criterion; names are unique per nomination.
func (r *Registry) CreateParameter(ctx context.Context, req models.ParameterRequest) (string, error) {
	if err := r.validator.Check("parameter", req); err != nil {
		return "", err
	}
	return r.createNamed(ctx, "parameter", "parameters", req.Name, req.NominationID)
}

func (r *Registry) GetParameter(ctx context.Context, id string) (models.Parameter, error) {
	return getOne(ctx, r, scanParameter, `SELECT id, name, nomination_id FROM parameters WHERE id = ?`, id)
}

func (r *Registry) ListParameters(ctx context.Context) ([]models.Parameter, error) {
	return list(ctx, r, scanParameter, `SELECT id, name, nomination_id FROM parameters ORDER BY id`)
}

func (r *Registry) ListParametersByNomination(ctx context.Context, nominationID string) ([]models.Parameter, error) {
	return list(ctx, r, scanParameter,
		`SELECT id, name, nomination_id FROM parameters WHERE nomination_id = ? ORDER BY id`, nominationID)
}

// UpdateParameter renames a parameter; its nomination stays as stored.
func (r *Registry) UpdateParameter(ctx context.Context, id string, req models.ParameterRequest) error {
	stored, err := r.GetParameter(ctx, id)
	if err != nil {
		return err
	}
	req.NominationID = stored.NominationID
	if err := r.validator.Check("parameter", req); err != nil {
		return err
	}
	return r.update(ctx, "parameter", `UPDATE parameters SET name = ? WHERE id = ?`, req.Name, id)
}

func (r *Registry) DeleteParameter(ctx context.Context, id string) error {
	return r.remove(ctx, "parameters", id)
}

func (r *Registry) CreateDisadvantage(ctx context.Context, req models.DisadvantageRequest) (string, error) {
	if err := r.validator.Check("disadvantage", req); err != nil {
		return "", err
	}
	return r.createNamed(ctx, "disadvantage", "disadvantages", req.Name, req.NominationID)
}

func (r *Registry) GetDisadvantage(ctx context.Context, id string) (models.Disadvantage, error) {
	return getOne(ctx, r, scanDisadvantage, `SELECT id, name, nomination_id FROM disadvantages WHERE id = ?`, id)
}

func (r *Registry) ListDisadvantages(ctx context.Context) ([]models.Disadvantage, error) {
	return list(ctx, r, scanDisadvantage, `SELECT id, name, nomination_id FROM disadvantages ORDER BY id`)
}

func (r *Registry) ListDisadvantagesByNomination(ctx context.Context, nominationID string) ([]models.Disadvantage, error) {
	return list(ctx, r, scanDisadvantage,
		`SELECT id, name, nomination_id FROM disadvantages WHERE nomination_id = ? ORDER BY id`, nominationID)
}

func (r *Registry) UpdateDisadvantage(ctx context.Context, id string, req models.DisadvantageRequest) error {
	stored, err := r.GetDisadvantage(ctx, id)
	if err != nil {
		return err
	}
	req.NominationID = stored.NominationID
	if err := r.validator.Check("disadvantage", req); err != nil {
		return err
	}
	return r.update(ctx, "disadvantage", `UPDATE disadvantages SET name = ? WHERE id = ?`, req.Name, id)
}

func (r *Registry) DeleteDisadvantage(ctx context.Context, id string) error {
	return r.remove(ctx, "disadvantages", id)
}
