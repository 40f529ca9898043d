// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package txn implements the backup / apply / confirm / rollback state
// machine every mutating operation instantiates. The relevant locks must be
// held for the whole lifetime of a Tx so no other flow can observe a
// partially applied state.
package txn

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// State is the executor's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateBackedUp
	StateApplied
	StateCommitted
	StateRolledBack
)

// String implements fmt.Stringer for log output.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBackedUp:
		return "backed-up"
	case StateApplied:
		return "applied"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// Snapshot restores one touched resource to its pre-Begin value. Snapshots
// are full copies, not diffs, so restore order does not matter.
type Snapshot interface {
	Restore()
}

// SnapshotFunc adapts a closure to the Snapshot interface.
type SnapshotFunc func()

// Restore calls the closure.
func (f SnapshotFunc) Restore() { f() }

// Confirmer is the synchronous commit barrier: it durably records a
// participant's current state and acknowledges, or fails, within the
// deadline on ctx.
type Confirmer interface {
	SaveAndConfirm(ctx context.Context, participantID int) error
}

// Tx is one transaction instance. A Tx is owned by a single operation and
// is not safe for concurrent use; the operation's locks already serialize
// access to everything it touches.
type Tx struct {
	state     State
	snapshots []Snapshot
	confirmer Confirmer
	timeout   time.Duration
}

// New creates an idle transaction. confirmer may be nil for operations that
// commit without a persistence barrier (a drop leaves nothing durable
// behind until the item is picked up again).
func New(confirmer Confirmer, timeout time.Duration) *Tx {
	return &Tx{confirmer: confirmer, timeout: timeout}
}

// State returns the current lifecycle state.
func (t *Tx) State() State { return t.state }

// Begin captures the snapshots of every resource the operation will touch.
func (t *Tx) Begin(snapshots ...Snapshot) error {
	if t.state != StateIdle {
		return oops.With("state", t.state.String()).Errorf("begin on non-idle transaction")
	}
	t.snapshots = snapshots
	t.state = StateBackedUp
	return nil
}

// Apply performs an in-memory state change. It may be called repeatedly
// before the terminal transition.
func (t *Tx) Apply(mutate func() error) error {
	if t.state != StateBackedUp && t.state != StateApplied {
		return oops.With("state", t.state.String()).Errorf("apply outside backed-up/applied state")
	}
	if err := mutate(); err != nil {
		return err
	}
	t.state = StateApplied
	return nil
}

// Commit discards the snapshots without a persistence barrier.
func (t *Tx) Commit() error {
	if t.state != StateBackedUp && t.state != StateApplied {
		return oops.With("state", t.state.String()).Errorf("commit outside backed-up/applied state")
	}
	t.snapshots = nil
	t.state = StateCommitted
	return nil
}

// ConfirmAndCommit runs the commit barrier for every participant whose
// durable record changed. If every confirmation succeeds the snapshots are
// discarded; if any fails the transaction rolls back and the failure is
// returned as a *PersistenceError.
func (t *Tx) ConfirmAndCommit(ctx context.Context, participants ...int) error {
	if t.state != StateApplied {
		return oops.With("state", t.state.String()).Errorf("confirm outside applied state")
	}
	if t.confirmer == nil {
		return oops.Errorf("confirm without a confirmer")
	}
	for _, id := range participants {
		cctx, cancel := context.WithTimeout(ctx, t.timeout)
		err := t.confirmer.SaveAndConfirm(cctx, id)
		cancel()
		if err != nil {
			t.Rollback()
			return &PersistenceError{Participant: id, Err: err}
		}
	}
	t.snapshots = nil
	t.state = StateCommitted
	return nil
}

// Rollback restores every touched resource from its snapshot. Calling it
// in a terminal state is a no-op so error paths can roll back
// unconditionally.
func (t *Tx) Rollback() {
	if t.state == StateCommitted || t.state == StateRolledBack {
		return
	}
	for _, s := range t.snapshots {
		s.Restore()
	}
	t.snapshots = nil
	t.state = StateRolledBack
}
