// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package message

import (
	"github.com/ThGalvani/projeto-wyd/internal/grid"
	"github.com/ThGalvani/projeto-wyd/internal/item"
	"github.com/ThGalvani/projeto-wyd/internal/player"
)

// Notifier carries operation outcomes back to clients. Implementations
// translate these calls to wire messages; the mutation core never touches
// the transport. Calls made before commit (the optimistic slot clear in a
// drop) are always followed by either a confirmation or a restoring update.
type Notifier interface {
	// SlotUpdate sends the authoritative contents of one slot to its owner.
	SlotUpdate(playerID int, c player.Container, slot int, stack item.Stack)

	// CarryUpdate resends the owner's whole carry inventory.
	CarryUpdate(playerID int, carry [player.MaxCarry]item.Stack)

	// CoinUpdate sends the owner's authoritative balance.
	CoinUpdate(playerID int, coins int64)

	// DropConfirmed mirrors a successful drop request back to the owner.
	DropConfirmed(playerID int, c player.Container, slot int, cell grid.Cell, rotation uint8)

	// GetConfirmed mirrors a successful pickup back to the requester.
	GetConfirmed(playerID int, destSlot int)

	// GroundItemGone tells one requester that a ground item is no longer
	// there (claimed by someone else or decayed).
	GroundItemGone(playerID int, groundID int)

	// GroundItemRemoved broadcasts the removal of a ground item to every
	// observer of the cell. Sent exactly once per committed pickup, never
	// on rollback.
	GroundItemRemoved(cell grid.Cell, groundID int)

	// Notice sends a catalog text to one player.
	Notice(playerID int, id ID)

	// NoticeAll sends free-form text to every connected player.
	NoticeAll(text string)
}
