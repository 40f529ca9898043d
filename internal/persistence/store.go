// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package persistence implements the durable commit barrier: a confirmed
// save writes the participant's full record and acknowledges within the
// caller's deadline, or the transaction that requested it rolls back.
package persistence

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/ThGalvani/projeto-wyd/internal/observability"
	"github.com/ThGalvani/projeto-wyd/internal/player"
)

//go:embed migrations/001_initial.sql
var migrationSQL string

const upsertSQL = `INSERT INTO players (id, account, name, coins, carry, cargo, orc_pill_taken, skill_bonus, saved_at)
 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
 ON CONFLICT (id) DO UPDATE SET
   account = EXCLUDED.account,
   name = EXCLUDED.name,
   coins = EXCLUDED.coins,
   carry = EXCLUDED.carry,
   cargo = EXCLUDED.cargo,
   orc_pill_taken = EXCLUDED.orc_pill_taken,
   skill_bonus = EXCLUDED.skill_bonus,
   saved_at = now()`

// Schema returns the DDL the store applies, for offline inspection.
func Schema() string { return migrationSQL }

// DB is the slice of the pgx pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store is the PostgreSQL-backed confirmer. The caller holds the
// participant's lock for the whole call, so the record read here cannot
// change mid-save.
type Store struct {
	db      DB
	players player.Repository
	metrics *observability.Metrics
}

// NewStore creates a store over an open pool. Metrics may be nil.
func NewStore(db DB, players player.Repository, metrics *observability.Metrics) *Store {
	return &Store{db: db, players: players, metrics: metrics}
}

// EnsureSchema creates the players table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, migrationSQL); err != nil {
		return oops.Code("SCHEMA_FAILED").Wrap(err)
	}
	return nil
}

// SaveAndConfirm writes the participant's full record and returns only
// after the database acknowledged it. Transient failures are retried
// with backoff inside the caller's deadline; a retry budget exhausted or
// a non-transient error fails the confirmation.
func (s *Store) SaveAndConfirm(ctx context.Context, participantID int) error {
	p, ok := s.players.Get(participantID)
	if !ok {
		return oops.Code("PLAYER_GONE").With("participant_id", participantID).Errorf("participant not in repository")
	}

	carry, err := json.Marshal(p.Carry)
	if err != nil {
		return oops.Code("ENCODE_FAILED").With("participant_id", participantID).Wrap(err)
	}
	cargo, err := json.Marshal(p.Cargo)
	if err != nil {
		return oops.Code("ENCODE_FAILED").With("participant_id", participantID).Wrap(err)
	}

	start := time.Now()
	backoff := retry.WithMaxRetries(2, retry.NewExponential(50*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, execErr := s.db.Exec(ctx, upsertSQL,
			p.ID, p.Account, p.Name, p.Coins, carry, cargo, p.OrcPillTaken, p.SkillBonus)
		if execErr == nil {
			return nil
		}
		if transient(execErr) {
			return retry.RetryableError(execErr)
		}
		return execErr
	})
	if err != nil {
		s.metrics.RecordSave(observability.ResultFailure, time.Since(start))
		return oops.Code("SAVE_FAILED").With("participant_id", participantID).Wrap(err)
	}
	s.metrics.RecordSave(observability.ResultSuccess, time.Since(start))
	return nil
}

// transient reports whether the error is worth retrying: connection
// loss, serialization failures and deadlocks. Anything without a
// PostgreSQL error code is treated as a network-level failure and
// retried too; context expiry stops the loop regardless.
func transient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgErr.Code == pgerrcode.SerializationFailure ||
			pgErr.Code == pgerrcode.DeadlockDetected
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Noop is the confirmer for development runs without a database: every
// save acknowledges immediately. Trades commit without durability.
type Noop struct{}

// SaveAndConfirm acknowledges without writing anything.
func (Noop) SaveAndConfirm(context.Context, int) error { return nil }
