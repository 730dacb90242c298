// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Taste Champion API.

# Route Registration

	mux := router.NewRouter(conn, db.SQLite, cfg, collector)

Every route except /health, /metrics and / runs through
middleware.WithLogging, middleware.Authenticate and middleware.RequireRole.

# Endpoints

Public:

	GET /health
	GET /metrics
	GET /

Any role:

	GET /me
	GET /nominations, /nominations/{id}   (non-admins: ACTIVE only)
	GET /nominations/{id}/products        (visibility gated)
	GET /products/{id}/scores             (visibility gated)
	GET /products/{id}/scores/average     (visibility gated)
	GET /products/{id}/visibility
	GET /groups, /groups/{id}, /groups/{id}/nominations

Voters:

	POST /scores, /scores/batch                      consumer, expert
	POST /parameter-scores, /parameter-scores/batch  expert
	POST /comments, /comments/batch                  consumer
	GET  /nominations/{id}/parameters                expert, admin
	GET  /nominations/{id}/disadvantages             consumer, admin

Admin:

	CRUD /users, /producers, /products, /groups, /nominations,
	     /parameters, /disadvantages, /scores, /parameter-scores, /comments
	PUT  /nominations/{id}/{activate|deactivate|finish|start}
	PUT  /groups/{id}/{activate|deactivate|finish|start}
	GET  /nominations/{id}/number-of-voters
	GET  /nominations/{id}/results
	GET  /products/{id}/rollup
*/
package router
