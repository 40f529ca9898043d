// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package audit provides the fire-and-forget audit trail for item and
// currency movements. Recording never blocks a transaction outcome.
package audit

import (
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Entry is one audit record.
type Entry struct {
	ID     ulid.ULID
	Actor  string
	Event  string
	Detail string
}

// Log buffers entries and drains them on a background goroutine. When the
// buffer is full the entry is dropped and counted rather than blocking the
// caller.
type Log struct {
	logger *slog.Logger
	ch     chan Entry

	mu      sync.Mutex
	dropped int
	closed  bool
	done    chan struct{}
}

// NewLog creates a log draining into the given slog logger. If logger is
// nil the default logger is used.
func NewLog(logger *slog.Logger, buffer int) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	if buffer <= 0 {
		buffer = 1024
	}
	l := &Log{
		logger: logger,
		ch:     make(chan Entry, buffer),
		done:   make(chan struct{}),
	}
	go l.drain()
	return l
}

func (l *Log) drain() {
	defer close(l.done)
	for e := range l.ch {
		l.logger.Info("audit",
			"audit_id", e.ID.String(),
			"actor", e.Actor,
			"event", e.Event,
			"detail", e.Detail)
	}
}

// Record enqueues an entry. It never blocks: with a full buffer the entry
// is dropped and the drop counted.
func (l *Log) Record(actor, event, detail string) {
	e := Entry{ID: ulid.Make(), Actor: actor, Event: event, Detail: detail}

	// The mutex spans the send so Close cannot close the channel between
	// the closed check and the send.
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	select {
	case l.ch <- e:
	default:
		l.dropped++
	}
}

// Dropped returns how many entries were discarded because the buffer was
// full.
func (l *Log) Dropped() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// Close stops the drain goroutine after flushing buffered entries.
func (l *Log) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()
	close(l.ch)
	<-l.done
}
