// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package grid

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThGalvani/projeto-wyd/internal/item"
	"github.com/ThGalvani/projeto-wyd/internal/locking"
)

func gridLock(t *testing.T, a *locking.Authority) *locking.Guard {
	t.Helper()
	return a.Acquire(nil, locking.ScopeGrid)
}

func TestPlace_TargetCellFree(t *testing.T) {
	a := locking.NewAuthority()
	g := New(16, 16)
	lk := gridLock(t, a)
	defer lk.Release()

	gi, err := g.Place(lk, Cell{X: 4, Y: 5}, item.Stack{Index: 1200}, 1)
	require.NoError(t, err)
	assert.Equal(t, Cell{X: 4, Y: 5}, gi.Cell)
	assert.Equal(t, 1, g.LiveCount(lk))

	got, ok := g.Item(lk, gi.ID)
	require.True(t, ok)
	assert.Equal(t, int16(1200), got.Stack.Index)
}

func TestPlace_RingSearchDeterministic(t *testing.T) {
	a := locking.NewAuthority()
	g := New(16, 16)
	lk := gridLock(t, a)
	defer lk.Release()

	first, err := g.Place(lk, Cell{X: 8, Y: 8}, item.Stack{Index: 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, Cell{X: 8, Y: 8}, first.Cell)

	// Second drop on the same cell lands on the first ring, scanning
	// top-left first.
	second, err := g.Place(lk, Cell{X: 8, Y: 8}, item.Stack{Index: 2}, 0)
	require.NoError(t, err)
	assert.Equal(t, Cell{X: 7, Y: 7}, second.Cell)
}

func TestPlace_NoFreeCell(t *testing.T) {
	a := locking.NewAuthority()
	g := New(8, 8)
	lk := gridLock(t, a)
	defer lk.Release()

	// Fill the target and both rings around (3,3).
	for y := 1; y <= 5; y++ {
		for x := 1; x <= 5; x++ {
			_, err := g.Place(lk, Cell{X: x, Y: y}, item.Stack{Index: 1}, 0)
			require.NoError(t, err)
		}
	}
	_, err := g.Place(lk, Cell{X: 3, Y: 3}, item.Stack{Index: 2}, 0)
	assert.ErrorIs(t, err, ErrNoFreeCell)
}

func TestTryClaim_OnlyOnce(t *testing.T) {
	a := locking.NewAuthority()
	g := New(16, 16)
	lk := gridLock(t, a)
	defer lk.Release()

	gi, err := g.Place(lk, Cell{X: 2, Y: 2}, item.Stack{Index: 1200}, 0)
	require.NoError(t, err)

	assert.True(t, g.TryClaim(lk, gi.Cell, gi.ID))
	assert.False(t, g.TryClaim(lk, gi.Cell, gi.ID), "second claim must fail")
	assert.Equal(t, 0, g.LiveCount(lk))

	_, ok := g.Item(lk, gi.ID)
	assert.False(t, ok, "claimed item no longer live")
}

func TestTryClaim_WrongExpectations(t *testing.T) {
	a := locking.NewAuthority()
	g := New(16, 16)
	lk := gridLock(t, a)
	defer lk.Release()

	gi, err := g.Place(lk, Cell{X: 2, Y: 2}, item.Stack{Index: 1200}, 0)
	require.NoError(t, err)

	assert.False(t, g.TryClaim(lk, Cell{X: 3, Y: 2}, gi.ID), "stale coordinates")
	assert.False(t, g.TryClaim(lk, gi.Cell, gi.ID+1), "wrong occupant id")
	assert.False(t, g.TryClaim(lk, Cell{X: -1, Y: 0}, gi.ID), "out of bounds")
	assert.True(t, g.TryClaim(lk, gi.Cell, gi.ID))
}

func TestRestore_ReExposesClaimedItem(t *testing.T) {
	a := locking.NewAuthority()
	g := New(16, 16)
	lk := gridLock(t, a)
	defer lk.Release()

	gi, err := g.Place(lk, Cell{X: 2, Y: 2}, item.Stack{Index: 1200}, 3)
	require.NoError(t, err)
	require.True(t, g.TryClaim(lk, gi.Cell, gi.ID))

	require.NoError(t, g.Restore(lk, gi.ID))
	got, ok := g.Item(lk, gi.ID)
	require.True(t, ok, "restored item live again")
	assert.Equal(t, gi.Cell, got.Cell)
	assert.Equal(t, gi.ID, got.ID)
	assert.Equal(t, uint8(3), got.Rotation)

	// And claimable again, by the same id.
	assert.True(t, g.TryClaim(lk, gi.Cell, gi.ID))
}

func TestRestore_Errors(t *testing.T) {
	a := locking.NewAuthority()
	g := New(16, 16)
	lk := gridLock(t, a)
	defer lk.Release()

	assert.Error(t, g.Restore(lk, 0), "id out of range")

	gi, err := g.Place(lk, Cell{X: 1, Y: 1}, item.Stack{Index: 1}, 0)
	require.NoError(t, err)
	assert.Error(t, g.Restore(lk, gi.ID), "still live")
}

func TestMutationWithoutLockPanics(t *testing.T) {
	a := locking.NewAuthority()
	g := New(8, 8)
	lk := a.Acquire(nil, 0) // no grid scope
	defer lk.Release()

	assert.Panics(t, func() {
		g.Place(lk, Cell{X: 1, Y: 1}, item.Stack{Index: 1}, 0)
	})
	assert.Panics(t, func() {
		g.TryClaim(lk, Cell{X: 1, Y: 1}, 1)
	})
}

// Any number of flows racing for the same ground item: exactly one claim
// wins. Each flow takes the grid lock itself, as the engine does.
func TestTryClaim_ConcurrentSingleWinner(t *testing.T) {
	a := locking.NewAuthority()
	g := New(16, 16)

	setup := a.Acquire(nil, locking.ScopeGrid)
	gi, err := g.Place(setup, Cell{X: 5, Y: 5}, item.Stack{Index: 1200}, 0)
	require.NoError(t, err)
	setup.Release()

	const flows = 32
	var wins atomic.Int32
	var wg sync.WaitGroup
	wg.Add(flows)
	for i := 0; i < flows; i++ {
		go func() {
			defer wg.Done()
			lk := a.Acquire(nil, locking.ScopeGrid)
			defer lk.Release()
			if g.TryClaim(lk, gi.Cell, gi.ID) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestAllocate_IDsNotImmediatelyReused(t *testing.T) {
	a := locking.NewAuthority()
	g := New(16, 16)
	lk := gridLock(t, a)
	defer lk.Release()

	first, err := g.Place(lk, Cell{X: 1, Y: 1}, item.Stack{Index: 1}, 0)
	require.NoError(t, err)
	require.True(t, g.TryClaim(lk, first.Cell, first.ID))

	second, err := g.Place(lk, Cell{X: 2, Y: 2}, item.Stack{Index: 2}, 0)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID, "freed id must not be handed out next")
}
