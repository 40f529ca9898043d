// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package message

import (
	"log/slog"

	"github.com/ThGalvani/projeto-wyd/internal/grid"
	"github.com/ThGalvani/projeto-wyd/internal/item"
	"github.com/ThGalvani/projeto-wyd/internal/player"
)

// SlogNotifier writes every outbound notification to a structured log.
// It stands in for the wire transport in development runs and server
// tests; a network layer replaces it by implementing Notifier itself.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a notifier over the given logger. A nil logger
// falls back to the default logger.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogNotifier{logger: logger}
}

func (n *SlogNotifier) SlotUpdate(playerID int, c player.Container, slot int, stack item.Stack) {
	n.logger.Debug("slot update", "player_id", playerID, "container", c.String(), "slot", slot, "item", stack.Index)
}

func (n *SlogNotifier) CarryUpdate(playerID int, _ [player.MaxCarry]item.Stack) {
	n.logger.Debug("carry update", "player_id", playerID)
}

func (n *SlogNotifier) CoinUpdate(playerID int, coins int64) {
	n.logger.Debug("coin update", "player_id", playerID, "coins", coins)
}

func (n *SlogNotifier) DropConfirmed(playerID int, c player.Container, slot int, cell grid.Cell, rotation uint8) {
	n.logger.Debug("drop confirmed", "player_id", playerID, "container", c.String(), "slot", slot, "x", cell.X, "y", cell.Y, "rotation", rotation)
}

func (n *SlogNotifier) GetConfirmed(playerID int, destSlot int) {
	n.logger.Debug("get confirmed", "player_id", playerID, "slot", destSlot)
}

func (n *SlogNotifier) GroundItemGone(playerID int, groundID int) {
	n.logger.Debug("ground item gone", "player_id", playerID, "ground_id", groundID)
}

func (n *SlogNotifier) GroundItemRemoved(cell grid.Cell, groundID int) {
	n.logger.Debug("ground item removed", "x", cell.X, "y", cell.Y, "ground_id", groundID)
}

func (n *SlogNotifier) Notice(playerID int, id ID) {
	n.logger.Info("notice", "player_id", playerID, "text", Text(id))
}

func (n *SlogNotifier) NoticeAll(text string) {
	n.logger.Info("notice all", "text", text)
}
