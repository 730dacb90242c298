// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The statements below are valid for both PostgreSQL and SQLite.
const schema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    role TEXT NOT NULL CHECK (role IN ('CONSUMER', 'EXPERT', 'ADMIN')),
    name TEXT NOT NULL,
    surname TEXT NOT NULL,
    patronymic TEXT NOT NULL DEFAULT '',
    gender SMALLINT NOT NULL DEFAULT 0 CHECK (gender BETWEEN 0 AND 2),
    age SMALLINT NOT NULL CHECK (age BETWEEN 1 AND 130),
    phone TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE
);

-- Nomination Groups
CREATE TABLE IF NOT EXISTS nomination_groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    photo_url TEXT NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT FALSE,
    finished BOOLEAN NOT NULL DEFAULT FALSE
);

-- Nominations (group membership is weak: deleting a group keeps its nominations)
CREATE TABLE IF NOT EXISTS nominations (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    photo_url TEXT NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT FALSE,
    finished BOOLEAN NOT NULL DEFAULT FALSE,
    group_id TEXT REFERENCES nomination_groups(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_nominations_group_id ON nominations(group_id);

-- Producers
CREATE TABLE IF NOT EXISTS producers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    director TEXT NOT NULL DEFAULT ''
);

-- Products
CREATE TABLE IF NOT EXISTS products (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    photo_url TEXT NOT NULL DEFAULT '',
    producer_id TEXT NOT NULL REFERENCES producers(id) ON DELETE CASCADE,
    nomination_id TEXT REFERENCES nominations(id) ON DELETE CASCADE,
    UNIQUE (producer_id, name)
);

CREATE INDEX IF NOT EXISTS idx_products_nomination_id ON products(nomination_id);

-- Parameters (tasting criteria)
CREATE TABLE IF NOT EXISTS parameters (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    nomination_id TEXT NOT NULL REFERENCES nominations(id) ON DELETE CASCADE,
    UNIQUE (nomination_id, name)
);

-- Disadvantages
CREATE TABLE IF NOT EXISTS disadvantages (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    nomination_id TEXT NOT NULL REFERENCES nominations(id) ON DELETE CASCADE,
    UNIQUE (nomination_id, name)
);

-- Scores (one per user and product)
CREATE TABLE IF NOT EXISTS scores (
    id TEXT PRIMARY KEY,
    value SMALLINT NOT NULL,
    product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    is_expert BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (product_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_scores_user_id ON scores(user_id);

-- Parameter Scores (one per user, parameter and product)
CREATE TABLE IF NOT EXISTS parameter_scores (
    id TEXT PRIMARY KEY,
    value SMALLINT NOT NULL,
    product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    parameter_id TEXT NOT NULL REFERENCES parameters(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (product_id, parameter_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_parameter_scores_parameter_id ON parameter_scores(parameter_id);
CREATE INDEX IF NOT EXISTS idx_parameter_scores_user_id ON parameter_scores(user_id);

-- Comments
CREATE TABLE IF NOT EXISTS comments (
    id TEXT PRIMARY KEY,
    text TEXT NOT NULL,
    product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    UNIQUE (text, product_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_comments_product_id ON comments(product_id);
CREATE INDEX IF NOT EXISTS idx_comments_user_id ON comments(user_id);
`
