// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package messagetest records notifier calls for assertions in tests.
package messagetest

import (
	"sync"

	"github.com/ThGalvani/projeto-wyd/internal/grid"
	"github.com/ThGalvani/projeto-wyd/internal/item"
	"github.com/ThGalvani/projeto-wyd/internal/message"
	"github.com/ThGalvani/projeto-wyd/internal/player"
)

// SlotEvent is one recorded SlotUpdate.
type SlotEvent struct {
	PlayerID  int
	Container player.Container
	Slot      int
	Stack     item.Stack
}

// NoticeEvent is one recorded Notice.
type NoticeEvent struct {
	PlayerID int
	ID       message.ID
}

// RemovedEvent is one recorded GroundItemRemoved broadcast.
type RemovedEvent struct {
	Cell     grid.Cell
	GroundID int
}

// Recorder implements message.Notifier and stores every call. Safe for
// concurrent use so race-style tests can share one recorder.
type Recorder struct {
	mu sync.Mutex

	Slots     []SlotEvent
	Carries   []int
	Coins     map[int]int64
	Drops     []int
	Gets      []int
	Gone      []int
	Removed   []RemovedEvent
	Notices   []NoticeEvent
	Broadcast []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{Coins: make(map[int]int64)}
}

func (r *Recorder) SlotUpdate(playerID int, c player.Container, slot int, stack item.Stack) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Slots = append(r.Slots, SlotEvent{PlayerID: playerID, Container: c, Slot: slot, Stack: stack})
}

func (r *Recorder) CarryUpdate(playerID int, _ [player.MaxCarry]item.Stack) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Carries = append(r.Carries, playerID)
}

func (r *Recorder) CoinUpdate(playerID int, coins int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Coins[playerID] = coins
}

func (r *Recorder) DropConfirmed(playerID int, _ player.Container, _ int, _ grid.Cell, _ uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Drops = append(r.Drops, playerID)
}

func (r *Recorder) GetConfirmed(playerID int, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Gets = append(r.Gets, playerID)
}

func (r *Recorder) GroundItemGone(playerID int, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Gone = append(r.Gone, playerID)
}

func (r *Recorder) GroundItemRemoved(cell grid.Cell, groundID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Removed = append(r.Removed, RemovedEvent{Cell: cell, GroundID: groundID})
}

func (r *Recorder) Notice(playerID int, id message.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notices = append(r.Notices, NoticeEvent{PlayerID: playerID, ID: id})
}

func (r *Recorder) NoticeAll(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Broadcast = append(r.Broadcast, text)
}

var _ message.Notifier = (*Recorder)(nil)
