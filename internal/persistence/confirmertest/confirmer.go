// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package confirmertest provides an in-memory commit barrier for tests.
package confirmertest

import (
	"context"
	"sync"
	"time"
)

// Confirmer records confirmation calls and can be told to fail or stall
// for specific participants.
type Confirmer struct {
	mu    sync.Mutex
	fail  map[int]error
	delay map[int]time.Duration
	calls []int
}

func New() *Confirmer {
	return &Confirmer{
		fail:  make(map[int]error),
		delay: make(map[int]time.Duration),
	}
}

// FailWith makes confirmations for participantID return err.
func (c *Confirmer) FailWith(participantID int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail[participantID] = err
}

// StallFor makes confirmations for participantID block for d or until
// the context expires, whichever comes first.
func (c *Confirmer) StallFor(participantID int, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delay[participantID] = d
}

func (c *Confirmer) SaveAndConfirm(ctx context.Context, participantID int) error {
	c.mu.Lock()
	c.calls = append(c.calls, participantID)
	err := c.fail[participantID]
	d := c.delay[participantID]
	c.mu.Unlock()

	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// Calls returns the participant ids confirmed so far, in order.
func (c *Confirmer) Calls() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, len(c.calls))
	copy(out, c.calls)
	return out
}
