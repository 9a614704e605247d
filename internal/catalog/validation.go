// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package catalog

import (
	"strings"

	"github.com/tracklab/tracklab/internal/apperr"
)

// Field length bounds for catalog entities.
const (
	MaxNameLength  = 100
	MaxTitleLength = 200
	MaxBioLength   = 4000
)

func validateRequired(field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Validation(field, "%s must not be empty", field)
	}
	if len(value) > maxLen {
		return apperr.Validation(field, "%s must be at most %d characters", field, maxLen)
	}
	return nil
}

// Validate checks artist fields. Nickname is the display identity and
// is required; the legal name fields are optional.
func (a *Artist) Validate() error {
	if err := validateRequired("nickname", a.Nickname, MaxNameLength); err != nil {
		return err
	}
	if len(a.FirstName) > MaxNameLength {
		return apperr.Validation("first name", "first name must be at most %d characters", MaxNameLength)
	}
	if len(a.LastName) > MaxNameLength {
		return apperr.Validation("last name", "last name must be at most %d characters", MaxNameLength)
	}
	if len(a.Bio) > MaxBioLength {
		return apperr.Validation("bio", "bio must be at most %d characters", MaxBioLength)
	}
	return nil
}

// Validate checks album fields.
func (a *Album) Validate() error {
	if err := validateRequired("title", a.Title, MaxTitleLength); err != nil {
		return err
	}
	if len(a.Description) > MaxBioLength {
		return apperr.Validation("description", "description must be at most %d characters", MaxBioLength)
	}
	return nil
}

// Validate checks track fields.
func (t *Track) Validate() error {
	return validateRequired("title", t.Title, MaxTitleLength)
}
