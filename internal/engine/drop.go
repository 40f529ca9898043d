// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package engine

import (
	"github.com/ThGalvani/projeto-wyd/internal/economy"
	"github.com/ThGalvani/projeto-wyd/internal/grid"
	"github.com/ThGalvani/projeto-wyd/internal/item"
	"github.com/ThGalvani/projeto-wyd/internal/locking"
	"github.com/ThGalvani/projeto-wyd/internal/observability"
	"github.com/ThGalvani/projeto-wyd/internal/player"
	"github.com/ThGalvani/projeto-wyd/internal/txn"
)

// DropRequest moves an item from one of the requester's slots onto the
// world grid.
type DropRequest struct {
	Requester int
	Container player.Container
	Slot      int
	X         int
	Y         int
	Rotation  uint8
}

// DropItem removes the item from the source slot, tells the client
// immediately, and then tries to place it on the grid. A failed placement
// restores the slot from the snapshot and resends its contents. The order
// matters: clearing the slot before the item exists on the ground closes
// the disconnect-timing duplication window.
func (s *Service) DropItem(req DropRequest) error {
	p, ok := s.players.Get(req.Requester)
	if !ok {
		return &txn.ValidationError{Field: "requester", Message: "unknown connection"}
	}
	if !player.SlotInRange(req.Container, req.Slot) {
		return &txn.ValidationError{Field: "slot", Message: "source slot out of range"}
	}
	target := grid.Cell{X: req.X, Y: req.Y}
	if !s.grid.InBounds(target) {
		return &txn.ValidationError{Field: "cell", Message: "drop target outside world bounds"}
	}
	if !p.Alive || !p.Playing {
		return &txn.ValidationError{Field: "requester", Message: "not in play"}
	}
	if p.TradeOpponent != 0 {
		return ErrMidTrade
	}

	lk := s.locks.Acquire([]int{p.ID}, locking.ScopeGrid)
	defer lk.Release()

	slot, err := p.Slot(req.Container, req.Slot)
	if err != nil {
		return &txn.ValidationError{Field: "slot", Message: err.Error()}
	}
	if slot.IsEmpty() || !slot.Valid() {
		return &txn.ValidationError{Field: "slot", Message: "source slot empty"}
	}
	if !item.Droppable(slot.Index) {
		return &txn.ValidationError{Field: "item", Message: "item cannot be dropped"}
	}

	backup := *slot
	s.record(p.Account, "drop", backup.Code())

	tx := txn.New(nil, 0)
	if err := tx.Begin(snapshotSlot(slot)); err != nil {
		return err
	}
	// Optimistic removal: the client sees the slot empty before the ground
	// item exists.
	if err := tx.Apply(func() error {
		*slot = item.Stack{}
		s.notifier.SlotUpdate(p.ID, req.Container, req.Slot, *slot)
		return nil
	}); err != nil {
		tx.Rollback()
		return err
	}

	placed, placeErr := s.grid.Place(lk, target, backup, req.Rotation)
	if placeErr != nil {
		tx.Rollback()
		s.notifier.SlotUpdate(p.ID, req.Container, req.Slot, *slot)
		s.record(p.Account, "drop_rollback", backup.Code())
		s.metrics.RecordDrop(observability.ResultFailure)
		return &txn.CapacityError{Resource: "grid", Message: placeErr.Error()}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.notifier.DropConfirmed(p.ID, req.Container, req.Slot, placed.Cell, placed.Rotation)
	s.metrics.RecordDrop(observability.ResultSuccess)
	s.metrics.SetGroundItems(s.grid.LiveCount(lk))
	s.track(economy.Movement{Kind: economy.KindItemDrop, PlayerID: p.ID, Amount: int64(backup.Index)})
	return nil
}
