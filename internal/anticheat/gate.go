// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package anticheat implements the request gate handlers consult before
// invoking the mutation core. It tracks movement plausibility per player
// and blocks requests from flagged connections.
package anticheat

import (
	"math"
	"sync"
	"time"
)

// Tunables for the movement validator.
const (
	// MaxSpeed is the permitted movement speed in tiles per second.
	MaxSpeed = 12.0

	// SuspicionThreshold is the violation count at which further requests
	// are refused.
	SuspicionThreshold = 5

	// violationWindow resets the counter after a quiet period.
	violationWindow = time.Minute
)

// RequestKind classifies gated request types.
type RequestKind string

const (
	RequestDrop  RequestKind = "drop"
	RequestGet   RequestKind = "get"
	RequestTrade RequestKind = "trade"
)

type track struct {
	x, y       int
	lastMove   time.Time
	violations int
	lastStrike time.Time
}

// Gate validates movement and answers eligibility queries. The zero value
// is not usable; call NewGate.
type Gate struct {
	mu      sync.Mutex
	players map[int]*track
	now     func() time.Time
}

// NewGate creates an empty gate.
func NewGate() *Gate {
	return &Gate{players: make(map[int]*track), now: time.Now}
}

// ValidateMove checks a reported move against the speed limit and updates
// the tracked position. A violation increments the counter but the move is
// still recorded so the player cannot wedge their own tracking.
func (g *Gate) ValidateMove(playerID, x, y int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	tr, ok := g.players[playerID]
	if !ok {
		g.players[playerID] = &track{x: x, y: y, lastMove: now}
		return true
	}
	elapsed := now.Sub(tr.lastMove).Seconds()
	dist := math.Hypot(float64(x-tr.x), float64(y-tr.y))
	ok = true
	if elapsed > 0 && dist/elapsed > MaxSpeed {
		g.strike(tr, now)
		ok = false
	}
	tr.x, tr.y = x, y
	tr.lastMove = now
	return ok
}

func (g *Gate) strike(tr *track, now time.Time) {
	if now.Sub(tr.lastStrike) > violationWindow {
		tr.violations = 0
	}
	tr.violations++
	tr.lastStrike = now
}

// IsRequestAllowed reports whether the connection may issue the given
// request kind. Flagged connections are refused everything until the
// violation window expires.
func (g *Gate) IsRequestAllowed(playerID int, _ RequestKind) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	tr, ok := g.players[playerID]
	if !ok {
		return true
	}
	if g.now().Sub(tr.lastStrike) > violationWindow {
		tr.violations = 0
		return true
	}
	return tr.violations < SuspicionThreshold
}

// Violations returns the current violation count for a connection.
func (g *Gate) Violations(playerID int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if tr, ok := g.players[playerID]; ok {
		return tr.violations
	}
	return 0
}

// Forget drops tracking state for a disconnected player.
func (g *Gate) Forget(playerID int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.players, playerID)
}
