// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package txn

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConfirmer scripts per-participant outcomes.
type fakeConfirmer struct {
	fail  map[int]error
	calls []int
	slow  time.Duration
}

func (f *fakeConfirmer) SaveAndConfirm(ctx context.Context, participantID int) error {
	f.calls = append(f.calls, participantID)
	if f.slow > 0 {
		select {
		case <-time.After(f.slow):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err, ok := f.fail[participantID]; ok {
		return err
	}
	return nil
}

func TestTx_CommitDiscardsSnapshots(t *testing.T) {
	value := 10
	tx := New(nil, 0)
	require.NoError(t, tx.Begin(SnapshotFunc(func() { value = 10 })))
	require.NoError(t, tx.Apply(func() error { value = 42; return nil }))
	require.NoError(t, tx.Commit())

	assert.Equal(t, StateCommitted, tx.State())
	assert.Equal(t, 42, value)

	// Rollback after commit is a no-op.
	tx.Rollback()
	assert.Equal(t, StateCommitted, tx.State())
	assert.Equal(t, 42, value)
}

func TestTx_RollbackRestoresEverySnapshot(t *testing.T) {
	a, b := 1, 2
	tx := New(nil, 0)
	require.NoError(t, tx.Begin(
		SnapshotFunc(func() { a = 1 }),
		SnapshotFunc(func() { b = 2 }),
	))
	require.NoError(t, tx.Apply(func() error { a, b = 100, 200; return nil }))

	tx.Rollback()
	assert.Equal(t, StateRolledBack, tx.State())
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)

	// Idempotent.
	tx.Rollback()
	assert.Equal(t, StateRolledBack, tx.State())
}

func TestTx_StateMachineGuards(t *testing.T) {
	tx := New(nil, 0)
	assert.Error(t, tx.Apply(func() error { return nil }), "apply before begin")
	assert.Error(t, tx.Commit(), "commit before begin")

	require.NoError(t, tx.Begin())
	assert.Error(t, tx.Begin(), "double begin")

	require.NoError(t, tx.Commit())
	assert.Error(t, tx.Apply(func() error { return nil }), "apply after commit")
	assert.Error(t, tx.Commit(), "double commit")
}

func TestTx_ApplyErrorKeepsState(t *testing.T) {
	tx := New(nil, 0)
	require.NoError(t, tx.Begin())
	boom := errors.New("boom")
	err := tx.Apply(func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateBackedUp, tx.State(), "failed apply does not advance")
}

func TestTx_ConfirmAndCommit_AllSucceed(t *testing.T) {
	value := 1
	fc := &fakeConfirmer{}
	tx := New(fc, time.Second)
	require.NoError(t, tx.Begin(SnapshotFunc(func() { value = 1 })))
	require.NoError(t, tx.Apply(func() error { value = 2; return nil }))

	require.NoError(t, tx.ConfirmAndCommit(context.Background(), 10, 20))
	assert.Equal(t, StateCommitted, tx.State())
	assert.Equal(t, 2, value)
	assert.Equal(t, []int{10, 20}, fc.calls, "both participants confirmed")
}

func TestTx_ConfirmAndCommit_SecondFails(t *testing.T) {
	value := 1
	boom := errors.New("db down")
	fc := &fakeConfirmer{fail: map[int]error{20: boom}}
	tx := New(fc, time.Second)
	require.NoError(t, tx.Begin(SnapshotFunc(func() { value = 1 })))
	require.NoError(t, tx.Apply(func() error { value = 2; return nil }))

	err := tx.ConfirmAndCommit(context.Background(), 10, 20)
	require.Error(t, err)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 20, perr.Participant)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, StateRolledBack, tx.State())
	assert.Equal(t, 1, value, "mutation rolled back")
}

func TestTx_ConfirmAndCommit_Timeout(t *testing.T) {
	value := 1
	fc := &fakeConfirmer{slow: time.Second}
	tx := New(fc, 10*time.Millisecond)
	require.NoError(t, tx.Begin(SnapshotFunc(func() { value = 1 })))
	require.NoError(t, tx.Apply(func() error { value = 2; return nil }))

	err := tx.ConfirmAndCommit(context.Background(), 10)
	require.Error(t, err)
	assert.Equal(t, StateRolledBack, tx.State())
	assert.Equal(t, 1, value)
}

func TestTx_ConfirmAndCommit_RequiresApplied(t *testing.T) {
	tx := New(&fakeConfirmer{}, time.Second)
	require.NoError(t, tx.Begin())
	assert.Error(t, tx.ConfirmAndCommit(context.Background(), 1), "confirm before apply")
}

func TestTx_ConfirmWithoutConfirmer(t *testing.T) {
	tx := New(nil, time.Second)
	require.NoError(t, tx.Begin())
	require.NoError(t, tx.Apply(func() error { return nil }))
	assert.Error(t, tx.ConfirmAndCommit(context.Background(), 1))
}

func TestErrorTypes(t *testing.T) {
	v := &ValidationError{Field: "slot", Message: "out of range"}
	assert.Contains(t, v.Error(), "slot")

	c := &ConflictError{Resource: "ground item"}
	assert.Contains(t, c.Error(), "ground item")

	cap := &CapacityError{Resource: "carry", Message: "full"}
	assert.Contains(t, cap.Error(), "carry")

	inner := errors.New("io timeout")
	p := &PersistenceError{Participant: 3, Err: inner}
	assert.ErrorIs(t, p, inner)
	assert.Contains(t, p.Error(), "3")
}
