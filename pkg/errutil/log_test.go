// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

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

	"github.com/tracklab/tracklab/internal/apperr"
	"github.com/tracklab/tracklab/pkg/errutil"
)

func newCaptureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func TestLogError_PlainError(t *testing.T) {
	logger, buf := newCaptureLogger()

	errutil.LogError(logger, "operation failed", errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "operation failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.NotContains(t, entry, "code")
	assert.NotContains(t, entry, "kind")
}

func TestLogError_OopsError(t *testing.T) {
	logger, buf := newCaptureLogger()

	err := oops.Code("USER_CREATE_FAILED").With("email", "a@x.com").Errorf("insert failed")
	errutil.LogError(logger, "register failed", err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "USER_CREATE_FAILED", entry["code"])
	ctx, ok := entry["context"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", ctx["email"])
}

func TestLogError_AppError(t *testing.T) {
	logger, buf := newCaptureLogger()

	errutil.LogError(logger, "lookup failed", apperr.NotFound("artist"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "not_found", entry["kind"])
	assert.Equal(t, "artist not found", entry["error"])
}
