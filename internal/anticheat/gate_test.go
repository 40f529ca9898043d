// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package anticheat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clockGate returns a gate with a controllable clock.
func clockGate(start time.Time) (*Gate, *time.Time) {
	g := NewGate()
	now := start
	g.now = func() time.Time { return now }
	return g, &now
}

func TestValidateMove_WithinSpeed(t *testing.T) {
	g, now := clockGate(time.Unix(1000, 0))
	assert.True(t, g.ValidateMove(1, 0, 0), "first report always accepted")

	*now = now.Add(time.Second)
	assert.True(t, g.ValidateMove(1, 10, 0), "10 tiles in 1s is legal")
	assert.Equal(t, 0, g.Violations(1))
}

func TestValidateMove_TooFast(t *testing.T) {
	g, now := clockGate(time.Unix(1000, 0))
	g.ValidateMove(1, 0, 0)

	*now = now.Add(time.Second)
	assert.False(t, g.ValidateMove(1, 100, 0), "100 tiles in 1s is a violation")
	assert.Equal(t, 1, g.Violations(1))

	// Position still updated, so the next legal move is measured from the
	// reported spot.
	*now = now.Add(time.Second)
	assert.True(t, g.ValidateMove(1, 105, 0))
}

func TestIsRequestAllowed_Threshold(t *testing.T) {
	g, now := clockGate(time.Unix(1000, 0))
	g.ValidateMove(1, 0, 0)

	for i := 0; i < SuspicionThreshold; i++ {
		*now = now.Add(time.Second)
		g.ValidateMove(1, (i%2)*1000, 0)
	}
	assert.False(t, g.IsRequestAllowed(1, RequestDrop))
	assert.False(t, g.IsRequestAllowed(1, RequestTrade))

	// After a quiet window the slate is clean.
	*now = now.Add(2 * time.Minute)
	assert.True(t, g.IsRequestAllowed(1, RequestDrop))
	assert.Equal(t, 0, g.Violations(1))
}

func TestIsRequestAllowed_UnknownPlayer(t *testing.T) {
	g := NewGate()
	assert.True(t, g.IsRequestAllowed(42, RequestGet))
}

func TestForget(t *testing.T) {
	g, now := clockGate(time.Unix(1000, 0))
	g.ValidateMove(1, 0, 0)
	*now = now.Add(time.Second)
	g.ValidateMove(1, 1000, 0)
	assert.Equal(t, 1, g.Violations(1))

	g.Forget(1)
	assert.Equal(t, 0, g.Violations(1))
}
