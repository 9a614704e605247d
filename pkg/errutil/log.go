// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

// Package errutil provides structured error logging and test assertions
// for the oops/apperr error stack.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"

	"github.com/tracklab/tracklab/internal/apperr"
)

// LogError logs an error with structured context. Oops errors contribute
// their code and context map; apperr errors contribute their kind. Plain
// errors are logged as-is.
func LogError(logger *slog.Logger, msg string, err error) {
	attrs := []any{"error", err.Error()}

	if kind, ok := apperr.KindOf(err); ok {
		attrs = append(attrs, "kind", string(kind))
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != "" {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
	}

	logger.Error(msg, attrs...)
}
