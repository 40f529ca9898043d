// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package item defines the item stack representation shared by inventories,
// the world grid and trade offers.
package item

import "fmt"

// MaxIndex is the exclusive upper bound for catalog item indexes.
const MaxIndex = 6500

// Effect attribute identifiers. The numeric values follow the legacy item
// effect table so that serialized stacks stay compatible with existing data.
const (
	EffectLevel    = 1
	EffectDamage   = 2
	EffectCoinHigh = 36
	EffectCoinLow  = 37
	EffectVolatile = 38
	EffectAmount   = 61
	EffectNoTrade  = 73
)

// volatileCoin marks a ground-only stack whose payload is currency rather
// than an inventory item.
const volatileCoin = 2

// Effect is a single attribute slot on a stack.
type Effect struct {
	ID    uint8
	Value uint8
}

// Stack is one item instance. A zero Index means the slot holding the stack
// is empty. Stack is a comparable value type on purpose: snapshot, restore
// and tamper checks all rely on whole-value equality.
type Stack struct {
	Index   int16
	Effects [3]Effect
}

// IsEmpty reports whether the stack represents an empty slot.
func (s Stack) IsEmpty() bool {
	return s.Index == 0
}

// Valid reports whether the catalog index is inside the legal range for a
// non-empty stack.
func (s Stack) Valid() bool {
	return s.Index > 0 && int(s.Index) < MaxIndex
}

// Attribute returns the value of the given effect attribute, or zero when
// the stack does not carry it.
func (s Stack) Attribute(id uint8) int {
	for _, ef := range s.Effects {
		if ef.ID == id {
			return int(ef.Value)
		}
	}
	return 0
}

// IsCoin reports whether the stack is a currency payload (a volatile ground
// stack carrying coin words instead of a real item).
func (s Stack) IsCoin() bool {
	return s.Attribute(EffectVolatile) == volatileCoin
}

// CoinAmount decodes the currency amount carried by a coin stack.
func (s Stack) CoinAmount() int64 {
	hi := int64(s.Attribute(EffectCoinHigh))
	lo := int64(s.Attribute(EffectCoinLow))
	return hi<<8 | lo
}

// Bound reports whether the stack is flagged as non-tradable.
func (s Stack) Bound() bool {
	return s.Attribute(EffectNoTrade) != 0
}

// Code renders the stack as the audit-log item code string.
func (s Stack) Code() string {
	return fmt.Sprintf("item[%d] ef1[%d:%d] ef2[%d:%d] ef3[%d:%d]",
		s.Index,
		s.Effects[0].ID, s.Effects[0].Value,
		s.Effects[1].ID, s.Effects[1].Value,
		s.Effects[2].ID, s.Effects[2].Value)
}

// Coins builds a ground currency stack for the given amount. Amounts above
// the two-word encoding range are clamped by the caller's validation; this
// constructor only encodes.
func Coins(amount int64) Stack {
	return Stack{
		Index: GoldIndex,
		Effects: [3]Effect{
			{ID: EffectVolatile, Value: volatileCoin},
			{ID: EffectCoinHigh, Value: uint8(amount >> 8)},
			{ID: EffectCoinLow, Value: uint8(amount & 0xff)},
		},
	}
}
