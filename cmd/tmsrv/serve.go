// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/ThGalvani/projeto-wyd/internal/anticheat"
	"github.com/ThGalvani/projeto-wyd/internal/audit"
	"github.com/ThGalvani/projeto-wyd/internal/config"
	"github.com/ThGalvani/projeto-wyd/internal/economy"
	"github.com/ThGalvani/projeto-wyd/internal/engine"
	"github.com/ThGalvani/projeto-wyd/internal/grid"
	"github.com/ThGalvani/projeto-wyd/internal/handler"
	"github.com/ThGalvani/projeto-wyd/internal/locking"
	"github.com/ThGalvani/projeto-wyd/internal/logging"
	"github.com/ThGalvani/projeto-wyd/internal/message"
	"github.com/ThGalvani/projeto-wyd/internal/observability"
	"github.com/ThGalvani/projeto-wyd/internal/persistence"
	"github.com/ThGalvani/projeto-wyd/internal/player"
	"github.com/ThGalvani/projeto-wyd/internal/trade"
	"github.com/ThGalvani/projeto-wyd/internal/txn"
	"github.com/ThGalvani/projeto-wyd/pkg/errutil"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	flags := config.Flags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the game state core",
		Long: `Start the state-mutation core: the world grid, the trade subsystem
and the persistence confirmer, with metrics and health probes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().AddFlagSet(flags)
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logging.SetDefault("tmsrv", version, cfg.Logging.Level, cfg.Logging.Format)
	logger := slog.Default()

	var metrics *observability.Metrics
	var obs *observability.Server
	if cfg.Metrics.Enabled {
		obs = observability.NewServer(cfg.Metrics.Addr)
		metrics = obs.Metrics()
		errCh, err := obs.Start()
		if err != nil {
			return err
		}
		go func() {
			for err := range errCh {
				errutil.LogError(logger, "observability server failed", err)
			}
		}()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := obs.Stop(stopCtx); err != nil {
				logger.Error("observability server stop failed", "error", err)
			}
		}()
	}

	players := player.NewMemory()
	locks := locking.NewAuthority()
	world := grid.New(cfg.World.Width, cfg.World.Height)
	auditLog := audit.NewLog(logger, cfg.Audit.Buffer)
	defer auditLog.Close()
	tracker := economy.NewTracker(logger, metrics)
	notifier := message.NewSlogNotifier(logger)

	var confirmer txn.Confirmer
	if cfg.Persistence.DSN != "" {
		pool, err := pgxpool.New(ctx, cfg.Persistence.DSN)
		if err != nil {
			return oops.Code("DB_CONNECT_FAILED").Wrap(err)
		}
		defer pool.Close()
		store := persistence.NewStore(pool, players, metrics)
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		confirmer = store
		logger.Info("persistence enabled")
	} else {
		confirmer = persistence.Noop{}
		logger.Warn("no DSN configured; trades commit without durable saves")
	}

	eng := engine.NewService(engine.Config{
		Players:  players,
		Grid:     world,
		Locks:    locks,
		Notifier: notifier,
		Audit:    auditLog,
		Economy:  tracker,
		Metrics:  metrics,
	})
	trades := trade.NewManager(trade.Config{
		Players:   players,
		Locks:     locks,
		Notifier:  notifier,
		Events:    trade.NewSlogEvents(logger),
		Confirmer: confirmer,
		Timeout:   cfg.Persistence.ConfirmTimeout,
		Audit:     auditLog,
		Economy:   tracker,
		Metrics:   metrics,
	})
	gate := anticheat.NewGate()
	// The network gateway is hosted out of process; requests enter the
	// core through this boundary once a transport is attached.
	_ = handler.New(eng, trades, gate, notifier, logger)

	if obs != nil {
		obs.Readiness().Set(true)
	}
	logger.Info("state core running",
		"world_width", cfg.World.Width,
		"world_height", cfg.World.Height,
		"confirm_timeout", cfg.Persistence.ConfirmTimeout.String())

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	logger.Info("shutting down")
	return nil
}
