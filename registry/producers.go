// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"database/sql"

	"github.com/danielhkuo/taste-champion/errs"
	"github.com/danielhkuo/taste-champion/models"
)

func scanProducer(s scanner) (models.Producer, error) {
	var p models.Producer
	err := s.Scan(&p.ID, &p.Name, &p.Director)
	return p, err
}

func (r *Registry) CreateProducer(ctx context.Context, req models.ProducerRequest) (string, error) {
	if err := r.validator.Check("producer", req); err != nil {
		return "", err
	}
	return r.insert(ctx, r.conn, "producer",
		`INSERT INTO producers (id, name, director) VALUES (?, ?, ?)`, req.Name, req.Director)
}

func (r *Registry) GetProducer(ctx context.Context, id string) (models.Producer, error) {
	return getOne(ctx, r, scanProducer, `SELECT id, name, director FROM producers WHERE id = ?`, id)
}

func (r *Registry) ListProducers(ctx context.Context) ([]models.Producer, error) {
	return list(ctx, r, scanProducer, `SELECT id, name, director FROM producers ORDER BY id`)
}

func (r *Registry) UpdateProducer(ctx context.Context, id string, req models.ProducerRequest) error {
	if err := r.validator.Check("producer", req); err != nil {
		return err
	}
	return r.update(ctx, "producer", `UPDATE producers SET name = ?, director = ? WHERE id = ?`,
		req.Name, req.Director, id)
}

// DeleteProducer removes the producer and its products.
func (r *Registry) DeleteProducer(ctx context.Context, id string) error {
	return r.remove(ctx, "producers", id)
}

func scanProduct(s scanner) (models.Product, error) {
	var p models.Product
	var nomination sql.NullString
	err := s.Scan(&p.ID, &p.Name, &p.PhotoURL, &p.ProducerID, &nomination)
	p.NominationID = fromNull(nomination)
	return p, err
}

const productColumns = `SELECT id, name, photo_url, producer_id, nomination_id FROM products`

// CreateProduct requires an existing producer; the nomination is optional.
func (r *Registry) CreateProduct(ctx context.Context, req models.ProductRequest) (string, error) {
	if err := r.validator.Check("product", req); err != nil {
		return "", err
	}
	v := errs.NewValidationError("product")
	if err := r.requireRef(ctx, r.conn, v, "producers", "producer", req.ProducerID); err != nil {
		return "", err
	}
	if req.NominationID != nil && *req.NominationID != "" {
		if err := r.requireRef(ctx, r.conn, v, "nominations", "nomination", *req.NominationID); err != nil {
			return "", err
		}
	}
	if err := v.OrNil(); err != nil {
		return "", err
	}
	return r.insert(ctx, r.conn, "product",
		`INSERT INTO products (id, name, photo_url, producer_id, nomination_id) VALUES (?, ?, ?, ?, ?)`,
		req.Name, req.PhotoURL, req.ProducerID, nullable(req.NominationID))
}

func (r *Registry) GetProduct(ctx context.Context, id string) (models.Product, error) {
	return getOne(ctx, r, scanProduct, productColumns+` WHERE id = ?`, id)
}

func (r *Registry) ListProducts(ctx context.Context) ([]models.Product, error) {
	return list(ctx, r, scanProduct, productColumns+` ORDER BY id`)
}

// ListProductsByNomination returns the nomination's products in insertion order.
func (r *Registry) ListProductsByNomination(ctx context.Context, nominationID string) ([]models.Product, error) {
	return list(ctx, r, scanProduct, productColumns+` WHERE nomination_id = ? ORDER BY id`, nominationID)
}

func (r *Registry) ListProductsByProducer(ctx context.Context, producerID string) ([]models.Product, error) {
	return list(ctx, r, scanProduct, productColumns+` WHERE producer_id = ? ORDER BY id`, producerID)
}

// UpdateProduct changes name and photo. Producer and nomination stay as stored.
func (r *Registry) UpdateProduct(ctx context.Context, id string, req models.ProductRequest) error {
	stored, err := r.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	req.ProducerID = stored.ProducerID
	if err := r.validator.Check("product", req); err != nil {
		return err
	}
	return r.update(ctx, "product", `UPDATE products SET name = ?, photo_url = ? WHERE id = ?`,
		req.Name, req.PhotoURL, id)
}

// DeleteProduct removes the product with its scores and comments.
func (r *Registry) DeleteProduct(ctx context.Context, id string) error {
	return r.remove(ctx, "products", id)
}
