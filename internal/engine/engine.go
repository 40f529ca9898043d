// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package engine implements the single-player mutating operations of the
// item core: dropping an inventory item onto the world grid and picking a
// ground item up. Both are instantiations of the txn executor over the
// player repository and the grid, serialized by the locking authority.
package engine

import (
	"github.com/ThGalvani/projeto-wyd/internal/audit"
	"github.com/ThGalvani/projeto-wyd/internal/economy"
	"github.com/ThGalvani/projeto-wyd/internal/grid"
	"github.com/ThGalvani/projeto-wyd/internal/locking"
	"github.com/ThGalvani/projeto-wyd/internal/message"
	"github.com/ThGalvani/projeto-wyd/internal/observability"
	"github.com/ThGalvani/projeto-wyd/internal/player"
)

// PickupRadius is how far (in cells, per axis) a player's validated target
// position may be from a ground item they try to pick up.
const PickupRadius = 3

// Config holds the collaborators of the Service. Audit, Economy and
// Metrics may be nil; the operations then run without them.
type Config struct {
	Players  player.Repository
	Grid     *grid.Grid
	Locks    *locking.Authority
	Notifier message.Notifier
	Audit    *audit.Log
	Economy  *economy.Tracker
	Metrics  *observability.Metrics
}

// Service executes drop and pickup operations.
type Service struct {
	players  player.Repository
	grid     *grid.Grid
	locks    *locking.Authority
	notifier message.Notifier
	audit    *audit.Log
	economy  *economy.Tracker
	metrics  *observability.Metrics
}

// NewService creates a Service from its collaborators.
func NewService(cfg Config) *Service {
	return &Service{
		players:  cfg.Players,
		grid:     cfg.Grid,
		locks:    cfg.Locks,
		notifier: cfg.Notifier,
		audit:    cfg.Audit,
		economy:  cfg.Economy,
		metrics:  cfg.Metrics,
	}
}

func (s *Service) record(actor, event, detail string) {
	if s.audit != nil {
		s.audit.Record(actor, event, detail)
	}
}

func (s *Service) track(m economy.Movement) {
	if s.economy != nil {
		s.economy.Record(m)
	}
}
