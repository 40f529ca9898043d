// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package trade implements two-party trade sessions: the offer/ready
// handshake and the two-phase commit that moves items and currency between
// both participants atomically.
package trade

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/ThGalvani/projeto-wyd/internal/item"
	"github.com/ThGalvani/projeto-wyd/internal/player"
)

// MaxTradeItems is the per-side limit on offered items.
const MaxTradeItems = 15

// OfferItem pairs a carry slot with the snapshot of its contents taken
// when the owner offered it. The snapshot is compared against the live
// slot at every submission and again at commit.
type OfferItem struct {
	Slot  int
	Stack item.Stack
}

// Offer is one side's latest submission.
type Offer struct {
	Items []OfferItem
	Coins int64
	Ready bool
}

// Checksum hashes the offer contents: slots, stacks and coins, not the
// ready flag. Each side records the peer's checksum when it marks
// ready; a later submission that no longer matches withdraws the
// accept.
func (o Offer) Checksum() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, it := range o.Items {
		binary.LittleEndian.PutUint64(buf[:], uint64(it.Slot))
		h.Write(buf[:])
		binary.LittleEndian.PutUint16(buf[:2], uint16(it.Stack.Index))
		h.Write(buf[:2])
		for _, ef := range it.Stack.Effects {
			h.Write([]byte{ef.ID, ef.Value})
		}
	}
	binary.LittleEndian.PutUint64(buf[:], uint64(o.Coins))
	h.Write(buf[:])
	return h.Sum64()
}

// clone deep-copies the offer so a stored offer cannot alias the
// caller's slice.
func (o Offer) clone() Offer {
	c := o
	c.Items = append([]OfferItem(nil), o.Items...)
	return c
}

// tradableSlots is the number of carry slots an offer may reference; the
// reserved tail of the carry inventory never trades.
const tradableSlots = player.MaxCarry - player.ReservedCarry
