// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package errutil contains small helpers for working with the server's
// coded errors: structured logging and test assertions.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// Code returns the code carried by err, or "" when err is nil or
// uncoded. Server errors carry codes like SAVE_FAILED or
// CONFIG_INVALID; callers branch on those instead of error strings.
func Code(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	return oopsErr.Code()
}

// LogError logs err at error level with whatever structure it carries.
// Coded errors contribute their code and context map as attributes;
// anything else is logged as a plain error string.
func LogError(logger *slog.Logger, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Error(msg, "error", err)
		return
	}
	attrs := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != "" {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	logger.Error(msg, attrs...)
}
