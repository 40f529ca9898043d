// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package trade

import "fmt"

// Phase is a session's position in the handshake.
type Phase int

const (
	// PhaseProposed: session open, no offer relayed yet.
	PhaseProposed Phase = iota
	// PhaseUpdated: at least one offer relayed, not both sides ready.
	PhaseUpdated
	// PhaseCommitted and PhaseAborted are terminal; the session is removed
	// from the manager on entering either.
	PhaseCommitted
	PhaseAborted
)

// String implements fmt.Stringer for log output.
func (p Phase) String() string {
	switch p {
	case PhaseProposed:
		return "proposed"
	case PhaseUpdated:
		return "updated"
	case PhaseCommitted:
		return "committed"
	case PhaseAborted:
		return "aborted"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// side is one participant's view of the session.
type side struct {
	id       int
	offer    Offer
	hasOffer bool
	// ack is the checksum of the peer's offer this side agreed to when it
	// marked ready. A peer submission with different contents clears the
	// ready flag, so only acknowledged offers can commit.
	ack uint64
}

// Session pairs exactly two participants. All fields are mutated only
// while both participant locks and the trade lock are held; the manager's
// registry mutex guards membership lookup only.
type Session struct {
	phase Phase
	a     side
	b     side
}

func newSession(a, b int) *Session {
	return &Session{a: side{id: a}, b: side{id: b}}
}

// side returns the participant's own side, or nil when the id is not a
// participant.
func (s *Session) side(id int) *side {
	switch id {
	case s.a.id:
		return &s.a
	case s.b.id:
		return &s.b
	default:
		return nil
	}
}

// peer returns the other participant's side.
func (s *Session) peer(id int) *side {
	switch id {
	case s.a.id:
		return &s.b
	case s.b.id:
		return &s.a
	default:
		return nil
	}
}

// participants returns both connection ids.
func (s *Session) participants() (int, int) {
	return s.a.id, s.b.id
}

// resetReady clears both ready flags and their acknowledgments; any
// offer change restarts the accept handshake.
func (s *Session) resetReady() {
	s.a.offer.Ready = false
	s.a.ack = 0
	s.b.offer.Ready = false
	s.b.ack = 0
}
