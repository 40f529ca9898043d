// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package player holds the per-connection player record and the repository
// interface the mutation core consumes.
package player

import (
	"fmt"

	"github.com/ThGalvani/projeto-wyd/internal/item"
)

// Inventory sizes. The last ReservedCarry slots of the carry inventory are
// reserved for system use and can never be offered in a trade.
const (
	MaxCarry      = 64
	MaxCargo      = 128
	ReservedCarry = 4
)

// Container identifies which slot array a request addresses.
type Container int

const (
	ContainerCarry Container = iota
	ContainerCargo
)

// String implements fmt.Stringer for log output.
func (c Container) String() string {
	switch c {
	case ContainerCarry:
		return "carry"
	case ContainerCargo:
		return "cargo"
	default:
		return fmt.Sprintf("container(%d)", int(c))
	}
}

// Player is the mutable per-connection record. Fields other than ID are
// mutated only while the owning participant lock is held.
type Player struct {
	ID      int
	Account string
	Name    string

	Level      int
	Guild      int
	GuildLevel int

	Alive   bool
	Playing bool

	// TargetX/TargetY is the last server-validated movement target, used
	// for the ground pickup interaction radius.
	TargetX int
	TargetY int

	Coins int64
	Carry [MaxCarry]item.Stack
	Cargo [MaxCargo]item.Stack

	// TradeOpponent is the connection id of the active trade peer, zero
	// when no session is open.
	TradeOpponent int

	// OrcPillTaken records the one-time quest pickup.
	OrcPillTaken bool
	SkillBonus   int
}

// Slot returns a pointer to the addressed slot, or an error when the index
// is out of range for the container.
func (p *Player) Slot(c Container, idx int) (*item.Stack, error) {
	switch c {
	case ContainerCarry:
		if idx < 0 || idx >= MaxCarry {
			return nil, fmt.Errorf("carry slot %d out of range", idx)
		}
		return &p.Carry[idx], nil
	case ContainerCargo:
		if idx < 0 || idx >= MaxCargo {
			return nil, fmt.Errorf("cargo slot %d out of range", idx)
		}
		return &p.Cargo[idx], nil
	default:
		return nil, fmt.Errorf("unknown container %d", int(c))
	}
}

// SlotInRange reports whether idx addresses a valid slot of the container.
func SlotInRange(c Container, idx int) bool {
	switch c {
	case ContainerCarry:
		return idx >= 0 && idx < MaxCarry
	case ContainerCargo:
		return idx >= 0 && idx < MaxCargo
	default:
		return false
	}
}

// Repository exposes the player records the mutation core needs. The core
// never enumerates players; it only resolves participants by connection id.
type Repository interface {
	// Get returns the live record for a connection id.
	Get(id int) (*Player, bool)
}
