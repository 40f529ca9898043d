// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package locking provides the deadlock-free acquisition order for every
// mutating operation: participant locks in ascending connection-id order,
// then the world grid lock, then the trade-subsystem lock.
package locking

import (
	"sort"
	"sync"
)

// Scope selects the subsystem locks an operation needs beyond its
// participant locks.
type Scope int

const (
	// ScopeGrid adds the world item grid lock.
	ScopeGrid Scope = 1 << iota
	// ScopeTrade adds the trade-subsystem lock.
	ScopeTrade
)

// Authority owns every lock in the system. All operations must go through
// Acquire so the global order cannot be violated at a call site.
type Authority struct {
	registry sync.Mutex
	players  map[int]*sync.Mutex

	grid  sync.Mutex
	trade sync.Mutex
}

// NewAuthority creates an authority with no participant locks allocated yet.
func NewAuthority() *Authority {
	return &Authority{players: make(map[int]*sync.Mutex)}
}

// playerLock returns the mutex for a participant, allocating it on first use.
func (a *Authority) playerLock(id int) *sync.Mutex {
	a.registry.Lock()
	defer a.registry.Unlock()
	mu, ok := a.players[id]
	if !ok {
		mu = &sync.Mutex{}
		a.players[id] = mu
	}
	return mu
}

// Acquire locks the given participants in ascending id order, then the
// subsystem locks selected by scope. Duplicate participant ids are locked
// once. The returned guard must be released on every exit path; defer
// Release immediately after Acquire.
func (a *Authority) Acquire(participants []int, scope Scope) *Guard {
	ids := append([]int(nil), participants...)
	sort.Ints(ids)

	g := &Guard{authority: a, scope: scope}
	prev := 0
	for i, id := range ids {
		if i > 0 && id == prev {
			continue
		}
		prev = id
		mu := a.playerLock(id)
		mu.Lock()
		g.held = append(g.held, mu)
	}
	if scope&ScopeGrid != 0 {
		a.grid.Lock()
		g.held = append(g.held, &a.grid)
	}
	if scope&ScopeTrade != 0 {
		a.trade.Lock()
		g.held = append(g.held, &a.trade)
	}
	return g
}

// Guard is the scoped handle for a set of held locks.
type Guard struct {
	authority *Authority
	scope     Scope
	held      []*sync.Mutex
	released  bool
}

// Release unlocks everything in reverse acquisition order. Safe to call
// more than once; only the first call unlocks.
func (g *Guard) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	for i := len(g.held) - 1; i >= 0; i-- {
		g.held[i].Unlock()
	}
}

// HoldsGrid reports whether this guard still holds the world grid lock.
// Grid mutations check it so a missing lock is caught structurally instead
// of by convention.
func (g *Guard) HoldsGrid() bool {
	return g != nil && !g.released && g.scope&ScopeGrid != 0
}

// HoldsTrade reports whether this guard still holds the trade lock.
func (g *Guard) HoldsTrade() bool {
	return g != nil && !g.released && g.scope&ScopeTrade != 0
}
