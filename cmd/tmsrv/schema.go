// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package main

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/ThGalvani/projeto-wyd/internal/persistence"
	"github.com/ThGalvani/projeto-wyd/internal/player"
)

// NewSchemaCmd creates the schema subcommand: print the player-table DDL
// or apply it to a database.
func NewSchemaCmd() *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print or apply the database schema",
		Long: `Print the player-table DDL to stdout, or apply it to the database
named by --dsn.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dsn == "" {
				cmd.Print(persistence.Schema())
				return nil
			}
			ctx := cmd.Context()
			pool, err := pgxpool.New(ctx, dsn)
			if err != nil {
				return oops.Code("DB_CONNECT_FAILED").Wrap(err)
			}
			defer pool.Close()
			store := persistence.NewStore(pool, player.NewMemory(), nil)
			if err := store.EnsureSchema(ctx); err != nil {
				return err
			}
			cmd.Println("schema applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "PostgreSQL DSN (empty prints the DDL)")
	return cmd
}
