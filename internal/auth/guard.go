// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package auth

import (
	"context"
	"strings"

	"github.com/samber/oops"

	"github.com/tracklab/tracklab/internal/apperr"
)

// Identity is an authenticated caller, recovered from a verified token.
type Identity struct {
	Subject string
	Role    Role
}

// IsAdmin reports whether the identity carries the ADMIN role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Guard evaluates a token against an operation's minimum required role.
// Every mutating operation calls Require before touching persisted state.
type Guard struct {
	tokens *TokenService
}

// NewGuard creates a Guard backed by the given token service.
func NewGuard(tokens *TokenService) (*Guard, error) {
	if tokens == nil {
		return nil, oops.Errorf("token service is required")
	}
	return &Guard{tokens: tokens}, nil
}

// Require verifies the bearer token and checks that its role claim
// satisfies minRole. A missing, invalid, or expired token yields an
// authentication error; a valid identity with an insufficient role
// yields an authorization error.
func (g *Guard) Require(_ context.Context, bearer string, minRole Role) (Identity, error) {
	token := strings.TrimSpace(bearer)
	if after, ok := strings.CutPrefix(token, "Bearer "); ok {
		token = strings.TrimSpace(after)
	}
	if token == "" {
		return Identity{}, apperr.Authentication("missing token")
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return Identity{}, err
	}

	identity := Identity{Subject: claims.Subject, Role: claims.Role}
	if !identity.Role.AtLeast(minRole) {
		return identity, apperr.Authorization("%s role required", minRole)
	}
	return identity, nil
}
