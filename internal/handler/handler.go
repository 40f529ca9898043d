// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package handler is the request boundary of the mutation core: it
// decodes client-addressed identifiers, consults the anticheat gate,
// invokes the engine or the trade manager, and maps the error taxonomy
// back to client notices. It owns no transport; the network layer calls
// into it with already-parsed requests.
package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ThGalvani/projeto-wyd/internal/anticheat"
	"github.com/ThGalvani/projeto-wyd/internal/engine"
	"github.com/ThGalvani/projeto-wyd/internal/message"
	"github.com/ThGalvani/projeto-wyd/internal/player"
	"github.com/ThGalvani/projeto-wyd/internal/trade"
	"github.com/ThGalvani/projeto-wyd/internal/txn"
)

// GroundIDOffset shifts ground item ids on the wire so clients cannot
// confuse them with inventory object ids.
const GroundIDOffset = 10000

// ErrTerminate tells the transport to drop the connection: the flow hit
// an internal invariant violation and its state cannot be trusted.
var ErrTerminate = errors.New("terminate connection")

// Handler routes parsed requests into the mutation core.
type Handler struct {
	engine   *engine.Service
	trades   *trade.Manager
	gate     *anticheat.Gate
	notifier message.Notifier
	logger   *slog.Logger
}

// New creates a Handler. logger may be nil; the default logger is used.
func New(eng *engine.Service, trades *trade.Manager, gate *anticheat.Gate, notifier message.Notifier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{engine: eng, trades: trades, gate: gate, notifier: notifier, logger: logger}
}

// recovered converts a handler panic into a connection-terminating error.
// Core invariant panics (a failed rollback restore, a vanished session
// participant) land here.
func (h *Handler) recovered(playerID int, op string, err *error) {
	if r := recover(); r != nil {
		h.logger.Error("handler panic",
			"op", op,
			"player_id", playerID,
			"panic", r)
		*err = ErrTerminate
	}
}

// Move records a server-validated movement report.
func (h *Handler) Move(playerID, x, y int) {
	h.gate.ValidateMove(playerID, x, y)
}

// Drop handles a drop-item request.
func (h *Handler) Drop(playerID int, container player.Container, slot, x, y int, rotation uint8) (err error) {
	defer h.recovered(playerID, "drop", &err)
	if !h.gate.IsRequestAllowed(playerID, anticheat.RequestDrop) {
		return nil
	}
	err = h.engine.DropItem(engine.DropRequest{
		Requester: playerID,
		Container: container,
		Slot:      slot,
		X:         x,
		Y:         y,
		Rotation:  rotation,
	})
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, engine.ErrMidTrade):
		// An operation incompatible with an open session closes it.
		h.trades.Cancel(playerID)
		h.notifier.Notice(playerID, message.MsgCannotWhileTrading)
	case isValidation(err, "item"):
		h.notifier.Notice(playerID, message.MsgGuildItemCannotBeDropped)
	case isCapacity(err):
		h.notifier.Notice(playerID, message.MsgCannotCreateGroundItem)
	default:
		h.notifier.Notice(playerID, message.MsgCannotDropHere)
	}
	return err
}

// Get handles a ground pickup request. wireGroundID is the
// client-addressed id, offset from the internal one.
func (h *Handler) Get(playerID, wireGroundID, destSlot int) (err error) {
	defer h.recovered(playerID, "get", &err)
	if !h.gate.IsRequestAllowed(playerID, anticheat.RequestGet) {
		return nil
	}
	groundID := wireGroundID - GroundIDOffset
	err = h.engine.GetItem(engine.GetRequest{
		Requester: playerID,
		GroundID:  groundID,
		DestSlot:  destSlot,
	})
	if err == nil {
		return nil
	}
	var conflict *txn.ConflictError
	var capacity *txn.CapacityError
	switch {
	case errors.Is(err, engine.ErrMidTrade):
		h.trades.Cancel(playerID)
		h.notifier.Notice(playerID, message.MsgCannotWhileTrading)
	case errors.As(err, &conflict):
		h.notifier.GroundItemGone(playerID, wireGroundID)
	case errors.As(err, &capacity) && capacity.Resource == "coins":
		h.notifier.Notice(playerID, message.MsgCoinCapExceeded)
	}
	// Slot-occupied capacity failures already resent the slot contents;
	// validation failures get no reply beyond the error for the log.
	return err
}

// TradeOpen handles a trade-request targeting another connection.
func (h *Handler) TradeOpen(playerID, opponentID int) (err error) {
	defer h.recovered(playerID, "trade_open", &err)
	if !h.gate.IsRequestAllowed(playerID, anticheat.RequestTrade) {
		return nil
	}
	return h.trades.Open(playerID, opponentID)
}

// TradeSubmit handles an offer submission. ctx bounds the persistence
// confirmations when the submission completes the handshake.
func (h *Handler) TradeSubmit(ctx context.Context, playerID int, offer trade.Offer) (err error) {
	defer h.recovered(playerID, "trade_submit", &err)
	if !h.gate.IsRequestAllowed(playerID, anticheat.RequestTrade) {
		return nil
	}
	return h.trades.Submit(ctx, playerID, offer)
}

// TradeCancel handles an explicit cancellation.
func (h *Handler) TradeCancel(playerID int) {
	h.trades.Cancel(playerID)
}

// Disconnect tears down everything tied to a connection: its trade
// session (aborted, never committed) and its anticheat tracking.
func (h *Handler) Disconnect(playerID int) {
	h.trades.Cancel(playerID)
	h.gate.Forget(playerID)
}

func isValidation(err error, field string) bool {
	var v *txn.ValidationError
	return errors.As(err, &v) && v.Field == field
}

func isCapacity(err error) bool {
	var c *txn.CapacityError
	return errors.As(err, &c)
}
