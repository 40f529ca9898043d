// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for operation metrics.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultConflict = "conflict"
	ResultRollback = "rollback"
)

// Metrics contains the game server's Prometheus metrics: item operations,
// trade outcomes, persistence confirmations and world health gauges.
type Metrics struct {
	Drops  *prometheus.CounterVec
	Gets   *prometheus.CounterVec
	Trades *prometheus.CounterVec

	Saves        *prometheus.CounterVec
	SaveDuration prometheus.Histogram

	PlayersOnline    prometheus.Gauge
	GroundItems      prometheus.Gauge
	EconomyAnomalies prometheus.Counter
}

// NewMetrics creates and registers the game metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Drops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wyd_item_drops_total",
				Help: "Total number of drop operations by result",
			},
			[]string{"result"},
		),
		Gets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wyd_item_gets_total",
				Help: "Total number of ground pickup operations by result",
			},
			[]string{"result"},
		),
		Trades: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wyd_trades_total",
				Help: "Total number of trade commits by result",
			},
			[]string{"result"},
		),
		Saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wyd_saves_total",
				Help: "Total number of persistence confirmations by result",
			},
			[]string{"result"},
		),
		SaveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wyd_save_duration_seconds",
				Help:    "Persistence confirmation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		PlayersOnline: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wyd_players_online",
				Help: "Number of connected players",
			},
		),
		GroundItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wyd_ground_items",
				Help: "Number of live ground items on the world grid",
			},
		),
		EconomyAnomalies: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wyd_economy_anomalies_total",
				Help: "Total number of currency movements flagged for review",
			},
		),
	}

	reg.MustRegister(m.Drops)
	reg.MustRegister(m.Gets)
	reg.MustRegister(m.Trades)
	reg.MustRegister(m.Saves)
	reg.MustRegister(m.SaveDuration)
	reg.MustRegister(m.PlayersOnline)
	reg.MustRegister(m.GroundItems)
	reg.MustRegister(m.EconomyAnomalies)

	return m
}

// RecordDrop counts one drop operation outcome. Nil-safe so the core can
// run without metrics in tests.
func (m *Metrics) RecordDrop(result string) {
	if m == nil {
		return
	}
	m.Drops.WithLabelValues(result).Inc()
}

// RecordGet counts one pickup operation outcome.
func (m *Metrics) RecordGet(result string) {
	if m == nil {
		return
	}
	m.Gets.WithLabelValues(result).Inc()
}

// RecordTrade counts one trade commit outcome.
func (m *Metrics) RecordTrade(result string) {
	if m == nil {
		return
	}
	m.Trades.WithLabelValues(result).Inc()
}

// RecordSave counts one persistence confirmation and its duration.
func (m *Metrics) RecordSave(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.Saves.WithLabelValues(result).Inc()
	m.SaveDuration.Observe(d.Seconds())
}

// SetGroundItems updates the live ground item gauge.
func (m *Metrics) SetGroundItems(n int) {
	if m == nil {
		return
	}
	m.GroundItems.Set(float64(n))
}

// RecordAnomaly counts one flagged currency movement.
func (m *Metrics) RecordAnomaly() {
	if m == nil {
		return
	}
	m.EconomyAnomalies.Inc()
}

// SetPlayersOnline updates the connected player gauge.
func (m *Metrics) SetPlayersOnline(n int) {
	if m == nil {
		return
	}
	m.PlayersOnline.Set(float64(n))
}
