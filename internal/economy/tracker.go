// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package economy tracks currency and item flow between players and the
// world. It is an observer of committed operations, never a participant:
// recording cannot fail a transaction.
package economy

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ThGalvani/projeto-wyd/internal/observability"
)

// AnomalyThreshold flags any single currency movement at or above this
// amount for review.
const AnomalyThreshold int64 = 100_000

// Kind classifies a tracked movement.
type Kind string

const (
	KindCoinPickup Kind = "coin_pickup"
	KindCoinTrade  Kind = "coin_trade"
	KindItemDrop   Kind = "item_drop"
	KindItemPickup Kind = "item_pickup"
	KindItemTrade  Kind = "item_trade"
)

// Movement is one committed flow.
type Movement struct {
	Kind      Kind
	PlayerID  int
	PeerID    int
	Amount    int64 // coins moved, or item catalog index for item kinds
	Timestamp time.Time
}

// Anomaly is a movement flagged by the threshold rule.
type Anomaly struct {
	Movement Movement
	Reason   string
}

// Tracker accumulates movements and per-player coin totals.
type Tracker struct {
	mu        sync.Mutex
	logger    *slog.Logger
	metrics   *observability.Metrics
	coinFlow  map[int]int64
	anomalies []Anomaly
	count     int
}

// NewTracker creates an empty tracker. A nil logger falls back to the
// default logger; metrics may be nil.
func NewTracker(logger *slog.Logger, metrics *observability.Metrics) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{logger: logger, metrics: metrics, coinFlow: make(map[int]int64)}
}

// Record registers a committed movement and applies the anomaly rule.
func (t *Tracker) Record(m Movement) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count++
	switch m.Kind {
	case KindCoinPickup, KindCoinTrade:
		t.coinFlow[m.PlayerID] += m.Amount
		if m.Amount >= AnomalyThreshold {
			a := Anomaly{Movement: m, Reason: "single movement at or above threshold"}
			t.anomalies = append(t.anomalies, a)
			t.metrics.RecordAnomaly()
			t.logger.Warn("economy anomaly",
				"kind", string(m.Kind),
				"player_id", m.PlayerID,
				"peer_id", m.PeerID,
				"amount", m.Amount)
		}
	}
}

// CoinFlow returns the accumulated coin inflow recorded for a player.
func (t *Tracker) CoinFlow(playerID int) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.coinFlow[playerID]
}

// Anomalies returns a copy of the flagged movements.
func (t *Tracker) Anomalies() []Anomaly {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Anomaly, len(t.anomalies))
	copy(out, t.anomalies)
	return out
}

// Count returns the total number of recorded movements.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}
