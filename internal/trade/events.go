// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package trade

// CloseReason classifies why a session ended.
type CloseReason string

const (
	// ReasonCommitted: both confirmations succeeded, the exchange applied.
	ReasonCommitted CloseReason = "committed"
	// ReasonAborted: a validation or capacity failure ended the session.
	ReasonAborted CloseReason = "aborted"
	// ReasonCancelled: a participant cancelled, disconnected, or performed
	// an operation incompatible with an open session.
	ReasonCancelled CloseReason = "cancelled"
	// ReasonSaveFailed: a persistence confirmation failed and the trade
	// rolled back.
	ReasonSaveFailed CloseReason = "save_failed"
)

// Events carries the trade handshake to the clients. Implementations
// translate these calls into wire messages; inventory and currency
// updates after a commit or rollback go through the message.Notifier
// instead.
type Events interface {
	// SessionOpened tells both participants the trade window is open.
	SessionOpened(a, b int)

	// OfferRelayed forwards one side's updated offer to the peer.
	OfferRelayed(to, from int, offer Offer)

	// ReadyAck tells the peer that the other side locked their offer in.
	ReadyAck(to, from int)

	// SessionClosed tells both participants the session ended and why.
	SessionClosed(a, b int, reason CloseReason)
}
