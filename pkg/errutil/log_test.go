// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package errutil_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThGalvani/projeto-wyd/pkg/errutil"
)

func TestCode(t *testing.T) {
	t.Run("coded error", func(t *testing.T) {
		err := oops.Code("SAVE_FAILED").Errorf("write timed out")
		assert.Equal(t, "SAVE_FAILED", errutil.Code(err))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.Empty(t, errutil.Code(errors.New("disk full")))
	})

	t.Run("nil", func(t *testing.T) {
		assert.Empty(t, errutil.Code(nil))
	})
}

func TestLogError_CodedError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := oops.Code("SAVE_FAILED").
		With("participant_id", 7).
		Errorf("save did not confirm")

	errutil.LogError(logger, "persistence barrier failed", err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "persistence barrier failed", entry["msg"])
	assert.Equal(t, "SAVE_FAILED", entry["code"])
	assert.Contains(t, entry, "context")
}

func TestLogError_PlainError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	errutil.LogError(logger, "listener failed", errors.New("address in use"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Contains(t, entry["error"], "address in use")
	assert.NotContains(t, entry, "code")
}
