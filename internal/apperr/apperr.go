// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

// Package apperr defines the error taxonomy shared by all services.
// Every user-facing failure is one of six kinds, each mapped to a fixed
// HTTP status. Infrastructure errors are wrapped underneath and never
// shown to callers verbatim.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindConflict       Kind = "conflict"
	KindNotFound       Kind = "not_found"
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindAssetUpload    Kind = "asset_upload"
)

// Error is a tagged application error. Entity and Field parameterize the
// kind (which entity was missing, which field failed validation) instead
// of spawning a subclass per case.
type Error struct {
	kind    Kind
	Entity  string
	Field   string
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// WithCause attaches an underlying error and returns the receiver.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// Validation reports malformed input for the named field.
func Validation(field, format string, args ...any) *Error {
	return &Error{kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness violation on the named entity.
func Conflict(entity, format string, args ...any) *Error {
	return &Error{kind: KindConflict, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity, parameterized by entity type.
func NotFound(entity string) *Error {
	return &Error{kind: KindNotFound, Entity: entity, Message: entity + " not found"}
}

// Authentication reports bad credentials or a missing/invalid/expired token.
func Authentication(format string, args ...any) *Error {
	return &Error{kind: KindAuthentication, Message: fmt.Sprintf(format, args...)}
}

// Authorization reports a valid identity with an insufficient role.
func Authorization(format string, args ...any) *Error {
	return &Error{kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// AssetUpload reports a storage collaborator failure.
func AssetUpload(format string, args ...any) *Error {
	return &Error{kind: KindAssetUpload, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, unwrapping as needed.
// The second return is false when err carries no *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.kind, true
	}
	return "", false
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}

// HTTPStatus maps err to its fixed HTTP status. Unclassified errors map
// to 500 so internal details never leak through a 4xx body.
func HTTPStatus(err error) int {
	kind, ok := KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case KindValidation, KindConflict, KindAssetUpload:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
