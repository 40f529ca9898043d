// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package engine

import (
	"fmt"

	"github.com/ThGalvani/projeto-wyd/internal/economy"
	"github.com/ThGalvani/projeto-wyd/internal/grid"
	"github.com/ThGalvani/projeto-wyd/internal/item"
	"github.com/ThGalvani/projeto-wyd/internal/locking"
	"github.com/ThGalvani/projeto-wyd/internal/message"
	"github.com/ThGalvani/projeto-wyd/internal/observability"
	"github.com/ThGalvani/projeto-wyd/internal/player"
	"github.com/ThGalvani/projeto-wyd/internal/txn"
)

// orcPillSkillBonus is the one-time skill point grant of the quest pickup.
const orcPillSkillBonus = 9

// GetRequest moves a ground item into the requester's carry inventory.
type GetRequest struct {
	Requester int
	GroundID  int
	DestSlot  int
}

// GetItem atomically claims the ground item and deposits it. The claim is
// the single synchronization point: of any number of concurrent requests
// for the same ground id, exactly one passes TryClaim; the rest get a
// ConflictError and the handler replies "item gone". Capacity failures
// after the claim re-expose the item at its original cell with its
// original id.
func (s *Service) GetItem(req GetRequest) error {
	p, ok := s.players.Get(req.Requester)
	if !ok {
		return &txn.ValidationError{Field: "requester", Message: "unknown connection"}
	}
	if req.DestSlot < 0 || req.DestSlot >= player.MaxCarry {
		return &txn.ValidationError{Field: "slot", Message: "destination slot out of range"}
	}
	if !p.Alive || !p.Playing {
		return &txn.ValidationError{Field: "requester", Message: "not in play"}
	}
	if p.TradeOpponent != 0 {
		return ErrMidTrade
	}

	// Grid lock nested inside the single player lock, never the reverse.
	lk := s.locks.Acquire([]int{p.ID}, locking.ScopeGrid)
	defer lk.Release()

	gi, ok := s.grid.Item(lk, req.GroundID)
	if !ok {
		return &txn.ConflictError{Resource: "ground item"}
	}
	if abs(p.TargetX-gi.Cell.X) > PickupRadius || abs(p.TargetY-gi.Cell.Y) > PickupRadius {
		return &txn.ValidationError{Field: "position", Message: "too far from item"}
	}

	if gi.Stack.Index == item.OrcPillIndex {
		return s.getQuestItem(lk, p, gi.ID)
	}

	if !s.grid.TryClaim(lk, gi.Cell, gi.ID) {
		return &txn.ConflictError{Resource: "ground item"}
	}

	var err error
	if gi.Stack.IsCoin() {
		err = s.depositCoins(lk, p, gi)
	} else {
		err = s.depositItem(lk, p, gi, req.DestSlot)
	}
	if err != nil {
		s.metrics.RecordGet(observability.ResultFailure)
		return err
	}

	// Broadcast exactly once, after commit; a rollback re-exposed the item
	// and observers must keep seeing it.
	s.notifier.GroundItemRemoved(gi.Cell, gi.ID)
	s.notifier.GetConfirmed(p.ID, req.DestSlot)
	s.metrics.RecordGet(observability.ResultSuccess)
	s.metrics.SetGroundItems(s.grid.LiveCount(lk))

	if item.RareNotice(gi.Stack.Index) {
		s.notifier.NoticeAll(fmt.Sprintf("%s picked up a legendary item!", p.Name))
	}
	return nil
}

// depositCoins adds a currency payload to the player's balance, rolling
// back (re-placing the coins on the grid) when the balance would exceed
// the cap.
func (s *Service) depositCoins(lk *locking.Guard, p *player.Player, gi grid.GroundItem) error {
	amount := gi.Stack.CoinAmount()
	tx := txn.New(nil, 0)
	if err := tx.Begin(snapshotCoins(p), s.snapshotClaim(lk, gi.ID)); err != nil {
		return err
	}
	if p.Coins+amount >= item.MaxCoins {
		tx.Rollback()
		return &txn.CapacityError{Resource: "coins", Message: "balance would exceed cap"}
	}
	if err := tx.Apply(func() error {
		p.Coins += amount
		return nil
	}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.notifier.CoinUpdate(p.ID, p.Coins)
	s.record(p.Account, "get_coins", fmt.Sprintf("amount:%d", amount))
	s.track(economy.Movement{Kind: economy.KindCoinPickup, PlayerID: p.ID, Amount: amount})
	return nil
}

// depositItem copies the claimed stack into the destination carry slot,
// rolling back when the slot is already occupied.
func (s *Service) depositItem(lk *locking.Guard, p *player.Player, gi grid.GroundItem, destSlot int) error {
	dest := &p.Carry[destSlot]
	tx := txn.New(nil, 0)
	if err := tx.Begin(snapshotSlot(dest), s.snapshotClaim(lk, gi.ID)); err != nil {
		return err
	}
	if !dest.IsEmpty() {
		tx.Rollback()
		// Resend the occupant so the client's view of the slot stays
		// authoritative.
		s.notifier.SlotUpdate(p.ID, player.ContainerCarry, destSlot, *dest)
		return &txn.CapacityError{Resource: "slot", Message: "destination slot occupied"}
	}
	if err := tx.Apply(func() error {
		*dest = gi.Stack
		return nil
	}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.notifier.SlotUpdate(p.ID, player.ContainerCarry, destSlot, *dest)
	s.record(p.Account, "get_item", dest.Code())
	s.track(economy.Movement{Kind: economy.KindItemPickup, PlayerID: p.ID, Amount: int64(dest.Index)})
	return nil
}

// getQuestItem handles the one-time quest pickup: the item never enters
// the inventory, it grants a skill bonus and is consumed in place. A
// player who already took it is told so and the item stays on the ground.
func (s *Service) getQuestItem(lk *locking.Guard, p *player.Player, groundID int) error {
	if p.OrcPillTaken {
		s.notifier.Notice(p.ID, message.MsgQuestAlreadyDone)
		return nil
	}
	gi, ok := s.grid.Item(lk, groundID)
	if !ok || !s.grid.TryClaim(lk, gi.Cell, gi.ID) {
		return &txn.ConflictError{Resource: "ground item"}
	}
	p.OrcPillTaken = true
	p.SkillBonus += orcPillSkillBonus
	s.notifier.Notice(p.ID, message.MsgSkillPointGained)
	s.notifier.GroundItemRemoved(gi.Cell, gi.ID)
	s.record(p.Account, "get_quest", gi.Stack.Code())
	s.metrics.RecordGet(observability.ResultSuccess)
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
