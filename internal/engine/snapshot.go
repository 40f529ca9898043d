// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package engine

import (
	"github.com/ThGalvani/projeto-wyd/internal/item"
	"github.com/ThGalvani/projeto-wyd/internal/locking"
	"github.com/ThGalvani/projeto-wyd/internal/player"
	"github.com/ThGalvani/projeto-wyd/internal/txn"
)

// snapshotSlot captures a full copy of one inventory slot.
func snapshotSlot(slot *item.Stack) txn.Snapshot {
	saved := *slot
	return txn.SnapshotFunc(func() { *slot = saved })
}

// snapshotCoins captures a player's currency balance.
func snapshotCoins(p *player.Player) txn.Snapshot {
	saved := p.Coins
	return txn.SnapshotFunc(func() { p.Coins = saved })
}

// snapshotClaim re-exposes a claimed ground item on rollback. The guard is
// captured because the grid lock is held for the whole transaction; a
// failing restore means the grid mutated while we held its lock, which is
// memory corruption territory and terminates the connection.
func (s *Service) snapshotClaim(lk *locking.Guard, groundID int) txn.Snapshot {
	return txn.SnapshotFunc(func() {
		if err := s.grid.Restore(lk, groundID); err != nil {
			panic("engine: " + err.Error())
		}
	})
}
