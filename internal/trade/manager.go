// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package trade

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThGalvani/projeto-wyd/internal/audit"
	"github.com/ThGalvani/projeto-wyd/internal/economy"
	"github.com/ThGalvani/projeto-wyd/internal/item"
	"github.com/ThGalvani/projeto-wyd/internal/locking"
	"github.com/ThGalvani/projeto-wyd/internal/message"
	"github.com/ThGalvani/projeto-wyd/internal/observability"
	"github.com/ThGalvani/projeto-wyd/internal/player"
	"github.com/ThGalvani/projeto-wyd/internal/txn"
)

// GuildMasterRank is the guild level at which a member may trade
// master-restricted items.
const GuildMasterRank = 9

// DefaultConfirmTimeout bounds each participant's persistence
// confirmation during a trade commit.
const DefaultConfirmTimeout = 5 * time.Second

// Config holds the collaborators of the Manager. Audit, Economy and
// Metrics may be nil.
type Config struct {
	Players   player.Repository
	Locks     *locking.Authority
	Notifier  message.Notifier
	Events    Events
	Confirmer txn.Confirmer
	Timeout   time.Duration
	Audit     *audit.Log
	Economy   *economy.Tracker
	Metrics   *observability.Metrics
}

// Manager owns every open trade session. The registry mutex guards only
// the membership map; session contents are mutated under both participant
// locks plus the trade lock, acquired through the locking authority.
type Manager struct {
	mu       sync.Mutex
	sessions map[int]*Session

	players   player.Repository
	locks     *locking.Authority
	notifier  message.Notifier
	events    Events
	confirmer txn.Confirmer
	timeout   time.Duration
	audit     *audit.Log
	economy   *economy.Tracker
	metrics   *observability.Metrics
}

// NewManager creates a Manager from its collaborators.
func NewManager(cfg Config) *Manager {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfirmTimeout
	}
	return &Manager{
		sessions:  make(map[int]*Session),
		players:   cfg.Players,
		locks:     cfg.Locks,
		notifier:  cfg.Notifier,
		events:    cfg.Events,
		confirmer: cfg.Confirmer,
		timeout:   cfg.Timeout,
		audit:     cfg.Audit,
		economy:   cfg.Economy,
		metrics:   cfg.Metrics,
	}
}

func (m *Manager) record(actor, event, detail string) {
	if m.audit != nil {
		m.audit.Record(actor, event, detail)
	}
}

func (m *Manager) track(mv economy.Movement) {
	if m.economy != nil {
		m.economy.Record(mv)
	}
}

// Opponent returns the peer id of an open session, or zero.
func (m *Manager) Opponent(id int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s.peer(id).id
	}
	return 0
}

// Open creates a session between two participants. Both must be in play
// and neither may already be trading.
func (m *Manager) Open(a, b int) error {
	if a == b {
		return &txn.ValidationError{Field: "opponent", Message: "cannot trade with yourself"}
	}
	pa, ok := m.players.Get(a)
	if !ok {
		return &txn.ValidationError{Field: "requester", Message: "unknown connection"}
	}
	pb, ok := m.players.Get(b)
	if !ok {
		return &txn.ValidationError{Field: "opponent", Message: "unknown connection"}
	}

	lk := m.locks.Acquire([]int{a, b}, locking.ScopeTrade)
	defer lk.Release()

	if !pa.Alive || !pa.Playing || !pb.Alive || !pb.Playing {
		return &txn.ValidationError{Field: "participants", Message: "not in play"}
	}
	if pa.TradeOpponent != 0 || pb.TradeOpponent != 0 {
		m.notifier.Notice(a, message.MsgAlreadyTrading)
		return &txn.ConflictError{Resource: "trade session"}
	}

	s := newSession(a, b)
	m.mu.Lock()
	m.sessions[a] = s
	m.sessions[b] = s
	m.mu.Unlock()
	pa.TradeOpponent = b
	pb.TradeOpponent = a

	m.record(pa.Account, "trade_open", fmt.Sprintf("opponent:%d", b))
	m.events.SessionOpened(a, b)
	return nil
}

// Submit records one side's latest offer. A non-ready submission relays
// the offer to the peer and resets both ready flags. A ready submission
// commits only when the peer's standing accept covers exactly these
// contents; changed contents withdraw that accept and relay instead.
// ctx bounds the persistence confirmations of a triggered commit.
func (m *Manager) Submit(ctx context.Context, requester int, offer Offer) error {
	m.mu.Lock()
	s, ok := m.sessions[requester]
	m.mu.Unlock()
	if !ok {
		return &txn.ValidationError{Field: "session", Message: "no open trade session"}
	}
	a, b := s.participants()

	lk := m.locks.Acquire([]int{a, b}, locking.ScopeTrade)
	defer lk.Release()

	// The session may have closed between the lookup and the acquire.
	m.mu.Lock()
	cur := m.sessions[requester]
	m.mu.Unlock()
	if cur != s {
		return &txn.ValidationError{Field: "session", Message: "no open trade session"}
	}

	p := m.mustPlayer(requester)
	peer := m.mustPlayer(s.peer(requester).id)

	if err := m.validateOffer(p, peer, offer); err != nil {
		// Any invalid submission ends the session for both sides.
		m.closeLocked(s, ReasonAborted)
		return err
	}

	own := s.side(requester)
	own.offer = offer.clone()
	own.hasOffer = true

	// A submission whose contents differ from what the peer accepted
	// withdraws that accept: the peer must re-confirm what it will
	// actually receive.
	other := s.peer(requester)
	if other.offer.Ready && other.ack != own.offer.Checksum() {
		other.offer.Ready = false
		other.ack = 0
	}

	if !offer.Ready {
		s.resetReady()
		s.phase = PhaseUpdated
		m.events.OfferRelayed(peer.ID, p.ID, own.offer)
		return nil
	}

	// Marking ready locks in what the requester saw of the peer's offer.
	own.ack = other.offer.Checksum()

	if !other.hasOffer || !other.offer.Ready {
		s.phase = PhaseUpdated
		m.events.OfferRelayed(peer.ID, p.ID, own.offer)
		m.events.ReadyAck(peer.ID, p.ID)
		return nil
	}
	return m.commit(ctx, s, p, peer)
}

// Cancel closes the requester's open session without applying anything.
// It is a no-op when no session is open, so disconnect handling can call
// it unconditionally.
func (m *Manager) Cancel(requester int) {
	m.mu.Lock()
	s, ok := m.sessions[requester]
	m.mu.Unlock()
	if !ok {
		return
	}
	a, b := s.participants()

	lk := m.locks.Acquire([]int{a, b}, locking.ScopeTrade)
	defer lk.Release()

	m.mu.Lock()
	cur := m.sessions[requester]
	m.mu.Unlock()
	if cur != s {
		return
	}
	m.closeLocked(s, ReasonCancelled)
}

// mustPlayer resolves a session participant. A participant vanishing while
// its session is still registered is an internal inconsistency, not a
// request error.
func (m *Manager) mustPlayer(id int) *player.Player {
	p, ok := m.players.Get(id)
	if !ok {
		panic(fmt.Sprintf("trade: session participant %d not in repository", id))
	}
	return p
}

// validateOffer checks a submission against the owner's live slots and
// the trade-eligibility rules. Caller holds both participant locks.
func (m *Manager) validateOffer(p, peer *player.Player, offer Offer) error {
	if len(offer.Items) > MaxTradeItems {
		m.notifier.Notice(p.ID, message.MsgMalformedTrade)
		return &txn.ValidationError{Field: "items", Message: "too many items offered"}
	}
	if offer.Coins < 0 || offer.Coins > item.MaxCoins {
		m.notifier.Notice(p.ID, message.MsgMalformedTrade)
		return &txn.ValidationError{Field: "coins", Message: "offered amount out of range"}
	}
	seen := make(map[int]bool, len(offer.Items))
	for _, it := range offer.Items {
		if it.Slot < 0 || it.Slot >= tradableSlots {
			m.notifier.Notice(p.ID, message.MsgMalformedTrade)
			return &txn.ValidationError{Field: "slot", Message: "offered slot out of range"}
		}
		if seen[it.Slot] {
			m.notifier.Notice(p.ID, message.MsgMalformedTrade)
			return &txn.ValidationError{Field: "slot", Message: "slot offered twice"}
		}
		seen[it.Slot] = true

		live := p.Carry[it.Slot]
		if live.IsEmpty() || live != it.Stack {
			// The slot changed since the client composed the offer.
			m.notifier.Notice(p.ID, message.MsgMalformedTrade)
			return &txn.ConflictError{Resource: "offered slot"}
		}
		if live.Bound() {
			m.notifier.Notice(p.ID, message.MsgItemCannotBeTraded)
			return &txn.ValidationError{Field: "item", Message: "item is bound"}
		}
		if item.GuildMasterOnly(live.Index) && p.GuildLevel < GuildMasterRank {
			m.notifier.Notice(p.ID, message.MsgOnlyGuildMaster)
			return &txn.ValidationError{Field: "item", Message: "guild master required"}
		}
		if item.GuildBound(live.Index) && (p.Guild == 0 || p.Guild != peer.Guild) {
			m.notifier.Notice(p.ID, message.MsgItemCannotBeTraded)
			return &txn.ValidationError{Field: "item", Message: "item bound to guild"}
		}
	}
	return nil
}

// commit runs the two-phase exchange. Caller holds both participant locks
// and the trade lock; they stay held through both persistence
// confirmations so no other flow can observe the interim state.
func (m *Manager) commit(ctx context.Context, s *Session, pa, pb *player.Player) error {
	sa, sb := s.side(pa.ID), s.side(pb.ID)

	// Submit only commits offers both peers acknowledged; what remains to
	// re-check is that the offered slots still hold those exact stacks.
	for _, pair := range []struct {
		p  *player.Player
		sd *side
	}{{pa, sa}, {pb, sb}} {
		for _, it := range pair.sd.offer.Items {
			if pair.p.Carry[it.Slot] != it.Stack {
				m.abortBoth(s, message.MsgMalformedTrade)
				return &txn.ConflictError{Resource: "offered slot"}
			}
		}
	}

	tx := txn.New(m.confirmer, m.timeout)
	if err := tx.Begin(
		snapshotCarry(pa), snapshotCoins(pa),
		snapshotCarry(pb), snapshotCoins(pb),
	); err != nil {
		return err
	}

	// Currency bounds for both directions before anything is applied.
	if sa.offer.Coins > pa.Coins {
		tx.Rollback()
		m.notifier.Notice(pa.ID, message.MsgNotEnoughCoins)
		m.notifier.Notice(pb.ID, message.MsgOpponentNotEnoughCoins)
		m.closeAborted(s)
		return &txn.ValidationError{Field: "coins", Message: "offered more than balance"}
	}
	if sb.offer.Coins > pb.Coins {
		tx.Rollback()
		m.notifier.Notice(pb.ID, message.MsgNotEnoughCoins)
		m.notifier.Notice(pa.ID, message.MsgOpponentNotEnoughCoins)
		m.closeAborted(s)
		return &txn.ValidationError{Field: "coins", Message: "offered more than balance"}
	}
	coinsA := pa.Coins - sa.offer.Coins + sb.offer.Coins
	coinsB := pb.Coins - sb.offer.Coins + sa.offer.Coins
	if coinsA > item.MaxCoins || coinsB > item.MaxCoins {
		tx.Rollback()
		over := pa.ID
		if coinsB > item.MaxCoins {
			over = pb.ID
		}
		m.notifier.Notice(over, message.MsgCoinCapExceeded)
		m.closeAborted(s)
		return &txn.CapacityError{Resource: "coins", Message: "balance would exceed cap"}
	}

	// Capacity-checked merge of both final inventories.
	carryA, okA := mergeCarry(pa, sa.offer.Items, sb.offer.Items)
	carryB, okB := mergeCarry(pb, sb.offer.Items, sa.offer.Items)
	if !okA || !okB {
		tx.Rollback()
		switch {
		case !okA && !okB:
			m.notifier.Notice(pa.ID, message.MsgBothNoTradeSpace)
			m.notifier.Notice(pb.ID, message.MsgBothNoTradeSpace)
		case !okA:
			m.notifier.Notice(pa.ID, message.MsgNoTradeSpace)
			m.notifier.Notice(pb.ID, message.MsgOpponentNoTradeSpace)
		default:
			m.notifier.Notice(pb.ID, message.MsgNoTradeSpace)
			m.notifier.Notice(pa.ID, message.MsgOpponentNoTradeSpace)
		}
		m.closeAborted(s)
		return &txn.CapacityError{Resource: "carry", Message: "not enough free slots"}
	}

	if err := tx.Apply(func() error {
		pa.Carry = carryA
		pa.Coins = coinsA
		pb.Carry = carryB
		pb.Coins = coinsB
		return nil
	}); err != nil {
		tx.Rollback()
		m.closeAborted(s)
		return err
	}

	if err := tx.ConfirmAndCommit(ctx, pa.ID, pb.ID); err != nil {
		// The executor already restored both snapshots; resend the
		// authoritative (unchanged) state so the clients discard any
		// optimistic view of the exchange.
		m.notifier.CarryUpdate(pa.ID, pa.Carry)
		m.notifier.CoinUpdate(pa.ID, pa.Coins)
		m.notifier.CarryUpdate(pb.ID, pb.Carry)
		m.notifier.CoinUpdate(pb.ID, pb.Coins)
		m.notifier.Notice(pa.ID, message.MsgTradeSaveFailed)
		m.notifier.Notice(pb.ID, message.MsgTradeSaveFailed)
		m.record(pa.Account, "trade_rollback", fmt.Sprintf("opponent:%d", pb.ID))
		m.metrics.RecordTrade(observability.ResultRollback)
		m.closeLocked(s, ReasonSaveFailed)
		return err
	}

	m.notifier.CarryUpdate(pa.ID, pa.Carry)
	m.notifier.CoinUpdate(pa.ID, pa.Coins)
	m.notifier.CarryUpdate(pb.ID, pb.Carry)
	m.notifier.CoinUpdate(pb.ID, pb.Coins)

	m.record(pa.Account, "trade_commit", tradeDetail(sa.offer, pb.ID))
	m.record(pb.Account, "trade_commit", tradeDetail(sb.offer, pa.ID))
	if sa.offer.Coins > 0 {
		m.track(economy.Movement{Kind: economy.KindCoinTrade, PlayerID: pb.ID, PeerID: pa.ID, Amount: sa.offer.Coins})
	}
	if sb.offer.Coins > 0 {
		m.track(economy.Movement{Kind: economy.KindCoinTrade, PlayerID: pa.ID, PeerID: pb.ID, Amount: sb.offer.Coins})
	}
	for _, it := range sa.offer.Items {
		m.track(economy.Movement{Kind: economy.KindItemTrade, PlayerID: pb.ID, PeerID: pa.ID, Amount: int64(it.Stack.Index)})
	}
	for _, it := range sb.offer.Items {
		m.track(economy.Movement{Kind: economy.KindItemTrade, PlayerID: pa.ID, PeerID: pb.ID, Amount: int64(it.Stack.Index)})
	}
	m.metrics.RecordTrade(observability.ResultSuccess)
	m.closeLocked(s, ReasonCommitted)
	return nil
}

// abortBoth notifies both sides and closes the session as aborted.
func (m *Manager) abortBoth(s *Session, id message.ID) {
	a, b := s.participants()
	m.notifier.Notice(a, id)
	m.notifier.Notice(b, id)
	m.closeAborted(s)
}

func (m *Manager) closeAborted(s *Session) {
	m.metrics.RecordTrade(observability.ResultFailure)
	m.closeLocked(s, ReasonAborted)
}

// closeLocked ends the session: clears both trade-opponent fields, drops
// the registry entries and emits the close event. Caller holds both
// participant locks and the trade lock.
func (m *Manager) closeLocked(s *Session, reason CloseReason) {
	a, b := s.participants()
	switch reason {
	case ReasonCommitted:
		s.phase = PhaseCommitted
	default:
		s.phase = PhaseAborted
	}
	if p, ok := m.players.Get(a); ok {
		p.TradeOpponent = 0
	}
	if p, ok := m.players.Get(b); ok {
		p.TradeOpponent = 0
	}
	m.mu.Lock()
	delete(m.sessions, a)
	delete(m.sessions, b)
	m.mu.Unlock()
	m.events.SessionClosed(a, b, reason)
}

// mergeCarry computes the owner's post-trade carry inventory: outgoing
// slots cleared, then each incoming stack placed into the first free
// non-reserved slot. Returns false when the incoming items do not fit.
func mergeCarry(p *player.Player, outgoing, incoming []OfferItem) ([player.MaxCarry]item.Stack, bool) {
	carry := p.Carry
	for _, it := range outgoing {
		carry[it.Slot] = item.Stack{}
	}
	next := 0
	for _, it := range incoming {
		placed := false
		for ; next < tradableSlots; next++ {
			if carry[next].IsEmpty() {
				carry[next] = it.Stack
				next++
				placed = true
				break
			}
		}
		if !placed {
			return carry, false
		}
	}
	return carry, true
}

func tradeDetail(o Offer, opponent int) string {
	return fmt.Sprintf("opponent:%d items:%d coins:%d", opponent, len(o.Items), o.Coins)
}

// snapshotCarry captures a full copy of the player's carry inventory.
func snapshotCarry(p *player.Player) txn.Snapshot {
	saved := p.Carry
	return txn.SnapshotFunc(func() { p.Carry = saved })
}

// snapshotCoins captures the player's currency balance.
func snapshotCoins(p *player.Player) txn.Snapshot {
	saved := p.Coins
	return txn.SnapshotFunc(func() { p.Coins = saved })
}
