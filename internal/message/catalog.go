// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package message holds the fixed outbound message catalog and the
// notifier interface the mutation core uses to reach clients.
package message

// ID keys a plain-text notice in the fixed catalog.
type ID int

const (
	MsgCannotDropHere ID = iota + 1
	MsgGuildItemCannotBeDropped
	MsgCannotWhileTrading
	MsgCoinCapExceeded
	MsgNotEnoughCoins
	MsgOpponentNotEnoughCoins
	MsgNoTradeSpace
	MsgOpponentNoTradeSpace
	MsgBothNoTradeSpace
	MsgOnlyGuildMaster
	MsgItemCannotBeTraded
	MsgAlreadyTrading
	MsgMalformedTrade
	MsgTradeSaveFailed
	MsgSkillPointGained
	MsgQuestAlreadyDone
	MsgCannotCreateGroundItem
)

// catalog maps ids to the client-visible text. Keep entries stable: clients
// and logs key on the wording.
var catalog = map[ID]string{
	MsgCannotDropHere:           "You can't drop that here.",
	MsgGuildItemCannotBeDropped: "Guild items can't be dropped.",
	MsgCannotWhileTrading:       "You can't do that while trading.",
	MsgCoinCapExceeded:          "You can't carry more than 2,000,000,000 coins.",
	MsgNotEnoughCoins:           "You don't have that much money.",
	MsgOpponentNotEnoughCoins:   "Your trade partner doesn't have that much money.",
	MsgNoTradeSpace:             "You don't have enough space to trade.",
	MsgOpponentNoTradeSpace:     "Your trade partner doesn't have enough space.",
	MsgBothNoTradeSpace:         "Neither of you has enough space to trade.",
	MsgOnlyGuildMaster:          "Only a guild master can trade that item.",
	MsgItemCannotBeTraded:       "That item can't be traded.",
	MsgAlreadyTrading:           "You are already trading with someone else.",
	MsgMalformedTrade:           "Invalid trade request.",
	MsgTradeSaveFailed:          "Trade failed: your items and coins were restored.",
	MsgSkillPointGained:         "You feel a surge of power. Skill points gained!",
	MsgQuestAlreadyDone:         "You've done it already.",
	MsgCannotCreateGroundItem:   "Can't create object(item).",
}

// Text returns the catalog text for an id, or the empty string for an
// unknown id.
func Text(id ID) string {
	return catalog[id]
}
