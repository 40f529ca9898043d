// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThGalvani/projeto-wyd/internal/item"
	"github.com/ThGalvani/projeto-wyd/internal/player"
	"github.com/ThGalvani/projeto-wyd/pkg/errutil"
)

func newStoreFixture(t *testing.T) (pgxmock.PgxPoolIface, *Store, *player.Player) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	players := player.NewMemory()
	p := &player.Player{ID: 7, Account: "acct", Name: "Arn", Coins: 1234}
	p.Carry[0] = item.Stack{Index: 1200}
	players.Add(p)

	return mock, NewStore(mock, players, nil), p
}

func TestSaveAndConfirm_Success(t *testing.T) {
	mock, store, _ := newStoreFixture(t)
	mock.ExpectExec("INSERT INTO players").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.SaveAndConfirm(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAndConfirm_UnknownParticipant(t *testing.T) {
	_, store, _ := newStoreFixture(t)
	err := store.SaveAndConfirm(context.Background(), 99)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "PLAYER_GONE")
}

func TestSaveAndConfirm_TransientErrorRetried(t *testing.T) {
	mock, store, _ := newStoreFixture(t)
	mock.ExpectExec("INSERT INTO players").
		WillReturnError(&pgconn.PgError{Code: "40001"}) // serialization failure
	mock.ExpectExec("INSERT INTO players").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.SaveAndConfirm(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAndConfirm_NonTransientErrorFails(t *testing.T) {
	mock, store, _ := newStoreFixture(t)
	mock.ExpectExec("INSERT INTO players").
		WillReturnError(&pgconn.PgError{Code: "23502"}) // not-null violation

	err := store.SaveAndConfirm(context.Background(), 7)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SAVE_FAILED")
	require.NoError(t, mock.ExpectationsWereMet(), "no retry on a non-transient error")
}

func TestSaveAndConfirm_RetryBudgetExhausted(t *testing.T) {
	mock, store, _ := newStoreFixture(t)
	netErr := errors.New("connection reset")
	for i := 0; i < 3; i++ {
		mock.ExpectExec("INSERT INTO players").WillReturnError(netErr)
	}

	err := store.SaveAndConfirm(context.Background(), 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, netErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	mock, store, _ := newStoreFixture(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS players").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransient(t *testing.T) {
	assert.True(t, transient(&pgconn.PgError{Code: "08006"}), "connection failure")
	assert.True(t, transient(&pgconn.PgError{Code: "40001"}), "serialization failure")
	assert.True(t, transient(&pgconn.PgError{Code: "40P01"}), "deadlock")
	assert.False(t, transient(&pgconn.PgError{Code: "23505"}), "unique violation")
	assert.True(t, transient(errors.New("broken pipe")), "bare network error")
	assert.False(t, transient(context.DeadlineExceeded))
	assert.False(t, transient(context.Canceled))
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.SaveAndConfirm(context.Background(), 1))
}
