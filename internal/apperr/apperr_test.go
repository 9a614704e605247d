// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package apperr_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklab/tracklab/internal/apperr"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Kind
		ok   bool
	}{
		{"validation", apperr.Validation("email", "email is malformed"), apperr.KindValidation, true},
		{"conflict", apperr.Conflict("user", "email already registered"), apperr.KindConflict, true},
		{"not found", apperr.NotFound("artist"), apperr.KindNotFound, true},
		{"authentication", apperr.Authentication("invalid token"), apperr.KindAuthentication, true},
		{"authorization", apperr.Authorization("admin role required"), apperr.KindAuthorization, true},
		{"asset upload", apperr.AssetUpload("write failed"), apperr.KindAssetUpload, true},
		{"plain error", errors.New("boom"), apperr.Kind(""), false},
		{"nil cause chain", nil, apperr.Kind(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := apperr.KindOf(tt.err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindOf_UnwrapsThroughOops(t *testing.T) {
	inner := apperr.NotFound("album")
	wrapped := oops.Code("ALBUM_GET_FAILED").With("id", "01ABC").Wrap(inner)

	kind, ok := apperr.KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, apperr.KindNotFound, kind)
	assert.True(t, apperr.IsKind(wrapped, apperr.KindNotFound))
}

func TestWithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := apperr.AssetUpload("could not store cover").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "could not store cover", err.Error())
}

func TestNotFound_NamesEntity(t *testing.T) {
	err := apperr.NotFound("track")
	assert.Equal(t, "track not found", err.Error())
	assert.Equal(t, "track", err.Entity)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation is 400", apperr.Validation("password", "too short"), http.StatusBadRequest},
		{"conflict is 400", apperr.Conflict("user", "duplicate email"), http.StatusBadRequest},
		{"asset upload is 400", apperr.AssetUpload("storage failure"), http.StatusBadRequest},
		{"authentication is 401", apperr.Authentication("expired token"), http.StatusUnauthorized},
		{"authorization is 403", apperr.Authorization("forbidden"), http.StatusForbidden},
		{"not found is 404", apperr.NotFound("artist"), http.StatusNotFound},
		{"unclassified is 500", errors.New("pq: connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.HTTPStatus(tt.err))
		})
	}
}
