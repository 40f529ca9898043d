// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package economy

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThGalvani/projeto-wyd/internal/observability"
)

func TestRecord_CoinFlowAccumulates(t *testing.T) {
	tr := NewTracker(nil, nil)
	tr.Record(Movement{Kind: KindCoinPickup, PlayerID: 1, Amount: 100})
	tr.Record(Movement{Kind: KindCoinTrade, PlayerID: 1, PeerID: 2, Amount: 50})
	tr.Record(Movement{Kind: KindCoinPickup, PlayerID: 2, Amount: 30})

	assert.Equal(t, int64(150), tr.CoinFlow(1))
	assert.Equal(t, int64(30), tr.CoinFlow(2))
	assert.Equal(t, 3, tr.Count())
}

func TestRecord_ItemMovementsCounted(t *testing.T) {
	tr := NewTracker(nil, nil)
	tr.Record(Movement{Kind: KindItemDrop, PlayerID: 1, Amount: 1200})
	tr.Record(Movement{Kind: KindItemPickup, PlayerID: 2, Amount: 1200})

	assert.Equal(t, 2, tr.Count())
	assert.Equal(t, int64(0), tr.CoinFlow(1), "item movements do not touch coin flow")
}

func TestRecord_AnomalyThreshold(t *testing.T) {
	tr := NewTracker(nil, nil)
	tr.Record(Movement{Kind: KindCoinTrade, PlayerID: 1, PeerID: 2, Amount: AnomalyThreshold - 1})
	assert.Empty(t, tr.Anomalies())

	tr.Record(Movement{Kind: KindCoinTrade, PlayerID: 1, PeerID: 2, Amount: AnomalyThreshold})
	anomalies := tr.Anomalies()
	require.Len(t, anomalies, 1)
	assert.Equal(t, AnomalyThreshold, anomalies[0].Movement.Amount)
	assert.NotEmpty(t, anomalies[0].Reason)
}

func TestRecord_AnomalyCounted(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	tr := NewTracker(nil, m)

	tr.Record(Movement{Kind: KindCoinTrade, PlayerID: 1, PeerID: 2, Amount: AnomalyThreshold - 1})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.EconomyAnomalies))

	tr.Record(Movement{Kind: KindCoinTrade, PlayerID: 1, PeerID: 2, Amount: AnomalyThreshold})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EconomyAnomalies))
}

func TestRecord_TimestampDefaulted(t *testing.T) {
	tr := NewTracker(nil, nil)
	tr.Record(Movement{Kind: KindCoinPickup, PlayerID: 1, Amount: AnomalyThreshold})
	assert.False(t, tr.Anomalies()[0].Movement.Timestamp.IsZero())
}
