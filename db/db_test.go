// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	q := "SELECT id FROM scores WHERE product_id = ? AND user_id = ?"

	assert.Equal(t, q, SQLite.Rebind(q))
	assert.Equal(t, "SELECT id FROM scores WHERE product_id = $1 AND user_id = $2", Postgres.Rebind(q))
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"sqlite", SQLite, false},
		{"", SQLite, false},
		{"postgres", Postgres, false},
		{"PostgreSQL", Postgres, false},
		{"mysql", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDialect(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewIDIsOrdered(t *testing.T) {
	prev := ""
	for i := 0; i < 100; i++ {
		id, err := NewID()
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestConstraintClassificationPostgres(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestConstraintClassificationSQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, SQLite, filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, CreateSchema(ctx, conn))
	// Idempotent
	require.NoError(t, CreateSchema(ctx, conn))

	_, err = conn.ExecContext(ctx, `INSERT INTO producers (id, name) VALUES ('p1', 'Dairy')`)
	require.NoError(t, err)

	_, err = conn.ExecContext(ctx, `INSERT INTO producers (id, name) VALUES ('p2', 'Dairy')`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	_, err = conn.ExecContext(ctx, `INSERT INTO products (id, name, producer_id) VALUES ('x', 'Milk', 'missing')`)
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))
}
