// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package engine

import (
	"github.com/ThGalvani/projeto-wyd/internal/grid"
	"github.com/ThGalvani/projeto-wyd/internal/item"
	"github.com/ThGalvani/projeto-wyd/internal/locking"
	"github.com/ThGalvani/projeto-wyd/internal/message/messagetest"
	"github.com/ThGalvani/projeto-wyd/internal/player"
)

// fixture wires a service over an in-memory repository and a small grid.
type fixture struct {
	service  *Service
	players  *player.Memory
	grid     *grid.Grid
	locks    *locking.Authority
	notifier *messagetest.Recorder
}

func newFixture() *fixture {
	f := &fixture{
		players:  player.NewMemory(),
		grid:     grid.New(32, 32),
		locks:    locking.NewAuthority(),
		notifier: messagetest.NewRecorder(),
	}
	f.service = NewService(Config{
		Players:  f.players,
		Grid:     f.grid,
		Locks:    f.locks,
		Notifier: f.notifier,
	})
	return f
}

func (f *fixture) addPlayer(id int) *player.Player {
	p := &player.Player{
		ID:      id,
		Account: "acct",
		Name:    "tester",
		Alive:   true,
		Playing: true,
		TargetX: 10,
		TargetY: 10,
	}
	f.players.Add(p)
	return p
}

// placeGround puts a stack on the grid outside any operation, as world
// spawning would.
func (f *fixture) placeGround(c grid.Cell, s item.Stack) grid.GroundItem {
	lk := f.locks.Acquire(nil, locking.ScopeGrid)
	defer lk.Release()
	gi, err := f.grid.Place(lk, c, s, 0)
	if err != nil {
		panic(err)
	}
	return gi
}
