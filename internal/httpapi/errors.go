// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tracklab/tracklab/internal/apperr"
)

// errorBody is the JSON shape of every failure response.
type errorBody struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// writeError maps err to its HTTP status and writes the failure body.
// Unclassified errors become a generic 500 so internals never leak; the
// real error goes to the log instead.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)

	message := "internal server error"
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Error()
	}
	if status == http.StatusInternalServerError {
		message = "internal server error"
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}

	writeJSON(w, status, errorBody{Message: message, Timestamp: time.Now().UTC()})
}

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response body", "error", err)
	}
}

// decodeJSON reads the request body into v. A malformed body is a
// validation failure, not a server error.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("body", "invalid JSON body").WithCause(err)
	}
	return nil
}
