// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the tmsrv CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tmsrv",
		Short: "tmsrv - server-authoritative game state core",
		Long: `tmsrv runs the server-authoritative state-mutation core: inventory,
world item grid and trade sessions, with durable save confirmation.`,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSchemaCmd())

	return cmd
}
