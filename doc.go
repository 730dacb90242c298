// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Taste Champion API server.

Taste Champion runs tasting competitions: producers enter products into
nominations, consumers and experts score them, and admins drive each
nomination from DRAFT through ACTIVE to FINISHED. A voter's view of other
voters' scores stays locked until they have voted themselves.

# Starting the Server

The server reads environment variables, an optional .env file, and CLI
flags (flags win):

	DATABASE_URL=taste.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): HS256 key for bearer tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - RATING_MIN / RATING_MAX (-rating-min / -rating-max): accepted score range (default: 1..10)
  - LOG_LEVEL (-log-level): debug, info, warn, error (default: info)
  - BOOTSTRAP_ADMIN_EMAIL (-bootstrap-admin): create an admin account on startup

# Architecture

  - handlers: HTTP request handlers (voting, results, nominations, catalog, users, comments)
  - router: Route table with role checks, using Go 1.22+ routing
  - middleware: logging, authentication, role checks, error mapping, CORS, JSON helpers
  - ledger: score and parameter score ledger (one vote per voter and product)
  - visibility: anti-bias gate over score views
  - lifecycle: nomination and group state machine
  - aggregate: averages, voter counts, rollups
  - registry: CRUD for the records scores refer to
  - auth: JWT verification and caller identity
  - metrics: Prometheus collectors
  - db: connections, schema, constraint classification
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
