// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/taste-champion/cliparse"
	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/metrics"
	"github.com/danielhkuo/taste-champion/middleware"
	"github.com/danielhkuo/taste-champion/models"
)

// CatalogHandler manages producers and their products.
type CatalogHandler struct {
	services
}

func NewCatalogHandler(conn *sql.DB, dialect db.Dialect, cfg cliparse.Config, m *metrics.Collector) *CatalogHandler {
	return &CatalogHandler{services: newServices(conn, dialect, cfg, m)}
}

// CreateProducer handles POST /producers
func (h *CatalogHandler) CreateProducer(w http.ResponseWriter, r *http.Request) {
	var req models.ProducerRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := h.registry.CreateProducer(r.Context(), req)
	created(w, id, err)
}

// ListProducers handles GET /producers
func (h *CatalogHandler) ListProducers(w http.ResponseWriter, r *http.Request) {
	producers, err := h.registry.ListProducers(r.Context())
	respond(w, producers, err)
}

// GetProducer handles GET /producers/{id}
func (h *CatalogHandler) GetProducer(w http.ResponseWriter, r *http.Request) {
	producer, err := h.registry.GetProducer(r.Context(), r.PathValue("id"))
	respond(w, producer, err)
}

// UpdateProducer handles PUT /producers/{id}
func (h *CatalogHandler) UpdateProducer(w http.ResponseWriter, r *http.Request) {
	var req models.ProducerRequest
	if !decode(w, r, &req) {
		return
	}
	success(w, h.registry.UpdateProducer(r.Context(), r.PathValue("id"), req))
}

// DeleteProducer handles DELETE /producers/{id}
func (h *CatalogHandler) DeleteProducer(w http.ResponseWriter, r *http.Request) {
	success(w, h.registry.DeleteProducer(r.Context(), r.PathValue("id")))
}

// ListProducerProducts handles GET /producers/{id}/products
func (h *CatalogHandler) ListProducerProducts(w http.ResponseWriter, r *http.Request) {
	producerID := r.PathValue("id")
	if _, err := h.registry.GetProducer(r.Context(), producerID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	products, err := h.registry.ListProductsByProducer(r.Context(), producerID)
	respond(w, products, err)
}

// CreateProduct handles POST /products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductRequest
	if !decode(w, r, &req) {
		return
	}
	id, err := h.registry.CreateProduct(r.Context(), req)
	created(w, id, err)
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.registry.ListProducts(r.Context())
	respond(w, products, err)
}

// GetProduct handles GET /products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.registry.GetProduct(r.Context(), r.PathValue("id"))
	respond(w, product, err)
}

// UpdateProduct handles PUT /products/{id}
// Producer and nomination are kept from the stored product.
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductRequest
	if !decode(w, r, &req) {
		return
	}
	success(w, h.registry.UpdateProduct(r.Context(), r.PathValue("id"), req))
}

// DeleteProduct handles DELETE /products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	success(w, h.registry.DeleteProduct(r.Context(), r.PathValue("id")))
}
