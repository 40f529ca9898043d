// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package player

import "sync"

// Memory is the in-process repository keyed by connection id.
//
// The registry mutex protects membership only. The fields of a Player are
// guarded by that participant's lock from the locking authority, not by
// this mutex.
type Memory struct {
	mu      sync.RWMutex
	players map[int]*Player
}

// NewMemory creates an empty repository.
func NewMemory() *Memory {
	return &Memory{players: make(map[int]*Player)}
}

// Get returns the live record for a connection id.
func (m *Memory) Get(id int) (*Player, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[id]
	return p, ok
}

// Add registers a record under its connection id, replacing any previous
// record for that id.
func (m *Memory) Add(p *Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.ID] = p
}

// Remove drops the record for a connection id.
func (m *Memory) Remove(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.players, id)
}

// Len returns the number of registered players, used by the online gauge.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}

var _ Repository = (*Memory)(nil)
