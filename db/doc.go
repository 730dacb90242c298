// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens connections, creates the schema, and classifies driver errors.

# Connections

Open supports PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite):

	conn, err := db.Open(ctx, db.SQLite, "/var/lib/taste/taste.db")

SQLite connections enable foreign keys and take the write lock when a
transaction begins.

Queries are written with ? placeholders and passed through Dialect.Rebind.

# Schema Creation

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: participants, unique email and phone
  - nomination_groups, nominations: lifecycle flags active/finished
  - producers, products
  - parameters, disadvantages: per nomination
  - scores: UNIQUE (product_id, user_id)
  - parameter_scores: UNIQUE (product_id, parameter_id, user_id)
  - comments: UNIQUE (text, product_id, user_id)

# Relationships

	nomination_groups 1──* nominations   (ON DELETE SET NULL)
	producers 1──* products
	nominations 1──* products, parameters, disadvantages
	products 1──* scores, parameter_scores, comments
	parameters 1──* parameter_scores
	users 1──* scores, parameter_scores, comments

All other foreign keys use ON DELETE CASCADE.

# Errors

IsUniqueViolation and IsForeignKeyViolation recognize both drivers' error
codes so callers can turn a lost race into a domain error.
*/
package db
