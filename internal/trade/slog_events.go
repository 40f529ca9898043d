// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package trade

import "log/slog"

// SlogEvents logs the trade handshake instead of relaying it to clients.
// Development stand-in, like message.SlogNotifier.
type SlogEvents struct {
	logger *slog.Logger
}

// NewSlogEvents creates a logging Events implementation. A nil logger
// falls back to the default logger.
func NewSlogEvents(logger *slog.Logger) *SlogEvents {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogEvents{logger: logger}
}

func (e *SlogEvents) SessionOpened(a, b int) {
	e.logger.Info("trade session opened", "a", a, "b", b)
}

func (e *SlogEvents) OfferRelayed(to, from int, offer Offer) {
	e.logger.Debug("trade offer relayed", "to", to, "from", from, "items", len(offer.Items), "coins", offer.Coins, "ready", offer.Ready)
}

func (e *SlogEvents) ReadyAck(to, from int) {
	e.logger.Debug("trade ready ack", "to", to, "from", from)
}

func (e *SlogEvents) SessionClosed(a, b int, reason CloseReason) {
	e.logger.Info("trade session closed", "a", a, "b", b, "reason", string(reason))
}
