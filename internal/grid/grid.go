// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package grid owns the shared world item grid: at most one ground item per
// cell, claimed and placed only under the grid lock held through the
// locking authority.
package grid

import (
	"errors"
	"fmt"

	"github.com/ThGalvani/projeto-wyd/internal/item"
	"github.com/ThGalvani/projeto-wyd/internal/locking"
)

// MaxGroundItems bounds the number of simultaneously live ground items.
const MaxGroundItems = 4096

// freeCellRadius is how far Place searches for an alternate free cell
// around an occupied target.
const freeCellRadius = 2

// ErrNoFreeCell is returned by Place when neither the target cell nor any
// nearby cell can take the item.
var ErrNoFreeCell = errors.New("no free cell near drop target")

// ErrFull is returned by Place when the ground item table has no free id.
var ErrFull = errors.New("ground item table full")

// Cell addresses one grid coordinate.
type Cell struct {
	X int
	Y int
}

// GroundItem is an item instance placed in the world.
type GroundItem struct {
	ID       int
	Cell     Cell
	Stack    item.Stack
	Rotation uint8
}

type slot struct {
	GroundItem
	live bool
}

// Grid holds the cell table and the ground item table. It carries no lock
// of its own: every mutating or reading method takes the guard returned by
// the locking authority and verifies the grid lock is held.
type Grid struct {
	width  int
	height int
	cells  []int // occupant ground-item id per cell, 0 = empty
	items  []slot
	nextID int
	live   int
}

// New creates an empty grid of the given dimensions.
func New(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]int, width*height),
		items:  make([]slot, MaxGroundItems),
		nextID: 1,
	}
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether the cell lies inside the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// LiveCount returns the number of live ground items, for the metrics gauge.
func (g *Grid) LiveCount(lk *locking.Guard) int {
	g.check(lk)
	return g.live
}

func (g *Grid) cellIndex(c Cell) int {
	return c.Y*g.width + c.X
}

// check panics when the caller does not hold the grid lock. Reaching it is
// an internal invariant violation, never a recoverable request error.
func (g *Grid) check(lk *locking.Guard) {
	if !lk.HoldsGrid() {
		panic("grid: mutation without the grid lock held")
	}
}

// Item returns a copy of the live ground item with the given id.
func (g *Grid) Item(lk *locking.Guard, id int) (GroundItem, bool) {
	g.check(lk)
	if id <= 0 || id >= len(g.items) {
		return GroundItem{}, false
	}
	s := g.items[id]
	if !s.live {
		return GroundItem{}, false
	}
	return s.GroundItem, true
}

// TryClaim atomically tests that cell's occupant is expectedID and, if so,
// clears the cell and marks the item dead. Exactly one of any number of
// concurrent claims for the same id can succeed; every later claim sees an
// empty cell and fails.
func (g *Grid) TryClaim(lk *locking.Guard, c Cell, expectedID int) bool {
	g.check(lk)
	if !g.InBounds(c) || expectedID <= 0 || expectedID >= len(g.items) {
		return false
	}
	if g.cells[g.cellIndex(c)] != expectedID {
		return false
	}
	s := &g.items[expectedID]
	if !s.live || s.Cell != c {
		return false
	}
	g.cells[g.cellIndex(c)] = 0
	s.live = false
	g.live--
	return true
}

// Restore re-exposes a previously claimed item at its original cell with
// its original id. It is the rollback counterpart of TryClaim and fails
// only on an internal inconsistency (the cell was re-occupied while the
// grid lock was supposedly held).
func (g *Grid) Restore(lk *locking.Guard, id int) error {
	g.check(lk)
	if id <= 0 || id >= len(g.items) {
		return fmt.Errorf("restore: ground item id %d out of range", id)
	}
	s := &g.items[id]
	if s.live {
		return fmt.Errorf("restore: ground item %d still live", id)
	}
	idx := g.cellIndex(s.Cell)
	if g.cells[idx] != 0 {
		return fmt.Errorf("restore: cell (%d,%d) re-occupied by %d", s.Cell.X, s.Cell.Y, g.cells[idx])
	}
	g.cells[idx] = id
	s.live = true
	g.live++
	return nil
}

// Place allocates a fresh ground item id and binds the stack to the target
// cell, or to the nearest free cell found by the deterministic ring search.
func (g *Grid) Place(lk *locking.Guard, c Cell, stack item.Stack, rotation uint8) (GroundItem, error) {
	g.check(lk)
	target, ok := g.findFreeCell(c)
	if !ok {
		return GroundItem{}, ErrNoFreeCell
	}
	id, ok := g.allocate()
	if !ok {
		return GroundItem{}, ErrFull
	}
	s := &g.items[id]
	s.GroundItem = GroundItem{ID: id, Cell: target, Stack: stack, Rotation: rotation}
	s.live = true
	g.cells[g.cellIndex(target)] = id
	g.live++
	return s.GroundItem, nil
}

// findFreeCell returns the target cell when free, otherwise the first free
// cell scanning outward ring by ring. The scan order is fixed so repeated
// drops land deterministically.
func (g *Grid) findFreeCell(c Cell) (Cell, bool) {
	if g.InBounds(c) && g.cells[g.cellIndex(c)] == 0 {
		return c, true
	}
	for r := 1; r <= freeCellRadius; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dy)) != r {
					continue
				}
				cand := Cell{X: c.X + dx, Y: c.Y + dy}
				if g.InBounds(cand) && g.cells[g.cellIndex(cand)] == 0 {
					return cand, true
				}
			}
		}
	}
	return Cell{}, false
}

// FindFreeCellNear exposes the ring search for collaborators that need a
// placement candidate without placing.
func (g *Grid) FindFreeCellNear(lk *locking.Guard, c Cell) (Cell, bool) {
	g.check(lk)
	return g.findFreeCell(c)
}

// allocate scans for a dead slot starting after the last allocation so ids
// are not reused immediately.
func (g *Grid) allocate() (int, bool) {
	n := len(g.items)
	for off := 0; off < n-1; off++ {
		id := (g.nextID-1+off)%(n-1) + 1
		if !g.items[id].live {
			g.nextID = id%(n-1) + 1
			return id, true
		}
	}
	return 0, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
