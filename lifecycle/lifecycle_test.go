// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/errs"
	"github.com/danielhkuo/taste-champion/models"
	"github.com/danielhkuo/taste-champion/testutil"
)

func TestActivateIsIdempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	m := New(conn, db.SQLite, Options{})
	ctx := context.Background()
	id := testutil.CreateTestNomination(t, conn, false, false)

	for i := 0; i < 2; i++ {
		s, err := m.Activate(ctx, KindNomination, id)
		require.NoError(t, err)
		assert.Equal(t, models.StateActive, s.State)
		assert.True(t, s.Active)
	}
}

func TestFinishThenStart(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	m := New(conn, db.SQLite, Options{})
	ctx := context.Background()
	id := testutil.CreateTestNomination(t, conn, true, false)

	s, err := m.Finish(ctx, KindNomination, id)
	require.NoError(t, err)
	assert.Equal(t, models.StateFinished, s.State)

	open, err := m.VotingOpen(ctx, id)
	require.NoError(t, err)
	assert.False(t, open)

	s, err = m.Start(ctx, KindNomination, id)
	require.NoError(t, err)
	assert.True(t, s.Active)
	assert.False(t, s.Finished)
	assert.Equal(t, models.StateActive, s.State)

	// Persisted, not just returned.
	s, err = m.Status(ctx, KindNomination, id)
	require.NoError(t, err)
	assert.Equal(t, models.StateActive, s.State)
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name         string
		active       bool
		finished     bool
		transition   Transition
		wantActive   bool
		wantFinished bool
		wantState    string
	}{
		{"activate draft", false, false, Activate, true, false, models.StateActive},
		{"deactivate active", true, false, Deactivate, false, false, models.StateDraft},
		{"deactivate draft", false, false, Deactivate, false, false, models.StateDraft},
		{"finish active", true, false, Finish, true, true, models.StateFinished},
		{"finish draft", false, false, Finish, false, true, models.StateFinished},
		{"start finished", true, true, Start, true, false, models.StateActive},
		{"start active", true, false, Start, true, false, models.StateActive},
		{"activate finished", false, true, Activate, true, true, models.StateFinished},
	}

	conn := testutil.SetupTestDB(t)
	m := New(conn, db.SQLite, Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := testutil.CreateTestNomination(t, conn, tt.active, tt.finished)
			s, err := m.Apply(context.Background(), KindNomination, id, tt.transition)
			require.NoError(t, err)
			assert.Equal(t, tt.wantActive, s.Active)
			assert.Equal(t, tt.wantFinished, s.Finished)
			assert.Equal(t, tt.wantState, s.State)
		})
	}
}

func TestUnknownID(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	m := New(conn, db.SQLite, Options{})

	for _, tr := range []Transition{Activate, Deactivate, Finish, Start} {
		_, err := m.Apply(context.Background(), KindNomination, "missing", tr)
		assert.ErrorIs(t, err, errs.ErrNotFound, string(tr))
	}
	_, err := m.Activate(context.Background(), KindGroup, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGroupFinishDoesNotCascade(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	m := New(conn, db.SQLite, Options{})
	ctx := context.Background()

	group := testutil.CreateTestGroup(t, conn)
	nomination := testutil.CreateTestNomination(t, conn, true, false)
	_, err := conn.Exec(`UPDATE nominations SET group_id = ? WHERE id = ?`, group, nomination)
	require.NoError(t, err)

	s, err := m.Finish(ctx, KindGroup, group)
	require.NoError(t, err)
	assert.Equal(t, models.StateFinished, s.State)

	ns, err := m.Status(ctx, KindNomination, nomination)
	require.NoError(t, err)
	assert.Equal(t, models.StateActive, ns.State)
}

func TestActiveNominations(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	m := New(conn, db.SQLite, Options{})

	active := testutil.CreateTestNomination(t, conn, true, false)
	testutil.CreateTestNomination(t, conn, false, false)
	testutil.CreateTestNomination(t, conn, true, true)

	got, err := m.ActiveNominations(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, active, got[0].ID)
}

func TestParseTransition(t *testing.T) {
	tr, err := ParseTransition("finish")
	require.NoError(t, err)
	assert.Equal(t, Finish, tr)

	_, err = ParseTransition("explode")
	assert.ErrorIs(t, err, errs.ErrValidation)
}
