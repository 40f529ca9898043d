// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package item

// Well-known catalog indexes carried over from the legacy item list.
const (
	// GoldIndex is the catalog index used for ground currency stacks.
	GoldIndex = 512

	// OrcPillIndex is the one-time quest pickup that grants a skill bonus.
	OrcPillIndex = 470

	// RareNoticeMin and RareNoticeMax bound the index range whose pickup is
	// announced to the whole server.
	RareNoticeMin = 490
	RareNoticeMax = 499
)

// MaxCoins is the hard cap for a player's currency balance and for any
// currency amount moved by a single operation.
const MaxCoins int64 = 2_000_000_000

// nonDroppable lists catalog indexes that may never leave an inventory via
// a drop. Guild medals and event tokens stay bound to their owner.
var nonDroppable = map[int16]bool{
	446: true, 508: true, 509: true, 522: true,
	526: true, 527: true, 528: true, 529: true, 530: true, 531: true,
	532: true, 533: true, 534: true, 535: true, 536: true, 537: true,
	747: true, 3993: true, 3994: true,
}

// guildMasterOnly lists indexes that only a guild master may trade.
var guildMasterOnly = map[int16]bool{
	747: true, 3993: true, 3994: true,
}

// guildBound lists indexes that may only be traded within the owning guild.
var guildBound = map[int16]bool{
	446: true, 508: true, 522: true,
	526: true, 527: true, 528: true, 529: true, 530: true, 531: true,
	532: true, 533: true, 534: true, 535: true, 536: true, 537: true,
}

// Droppable reports whether the index may be placed on the world grid.
func Droppable(index int16) bool {
	return !nonDroppable[index]
}

// GuildMasterOnly reports whether trading the index requires guild master
// standing.
func GuildMasterOnly(index int16) bool {
	return guildMasterOnly[index]
}

// GuildBound reports whether the index is restricted to its owning guild.
func GuildBound(index int16) bool {
	return guildBound[index]
}

// RareNotice reports whether picking up the index triggers a server-wide
// announcement.
func RareNotice(index int16) bool {
	return index >= RareNoticeMin && index <= RareNoticeMax
}
