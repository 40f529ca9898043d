// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	subcommands := []string{"serve", "schema"}
	for _, sub := range subcommands {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
}

func TestRootCommand_Use(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "tmsrv", cmd.Use)
}

func TestServeCommand_Flags(t *testing.T) {
	cmd := NewServeCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, flag := range []string{
		"--config",
		"--world.width",
		"--world.height",
		"--metrics.addr",
		"--persistence.dsn",
		"--persistence.confirm_timeout",
		"--logging.level",
	} {
		assert.Contains(t, output, flag, "Help missing %q flag", flag)
	}
}

func TestServeCommand_RejectsInvalidConfig(t *testing.T) {
	cmd := NewServeCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--world.width", "0"})

	err := cmd.Execute()
	require.Error(t, err)
}
