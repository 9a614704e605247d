// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"

	"github.com/tracklab/tracklab/internal/apperr"
)

// DefaultTokenTTL is the token lifetime used when config leaves it unset.
const DefaultTokenTTL = 24 * time.Hour

// Claims are the verified contents of an identity token.
type Claims struct {
	Subject   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies signed, time-bounded identity tokens.
// Tokens are HS256 JWTs signed with a process-wide secret; verification
// is a pure function of the token and wall-clock time.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. The secret is required; a
// non-positive ttl falls back to DefaultTokenTTL.
func NewTokenService(secret []byte, ttl time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, oops.Code("AUTH_NO_SECRET").Errorf("token secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue produces a signed token embedding subject, role, issue time, and
// an expiry derived from the configured TTL.
func (s *TokenService) Issue(subject string, role Role) (string, error) {
	if subject == "" {
		return "", oops.Code("AUTH_EMPTY_SUBJECT").Errorf("token subject is required")
	}
	if !role.Valid() {
		return "", oops.Code("AUTH_BAD_ROLE").With("role", string(role)).Errorf("unknown role")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", oops.Code("AUTH_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Verify checks the token's signature and expiry and returns its claims.
// It never consults storage; the token is self-contained.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, oops.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Authentication("token expired").WithCause(err)
		}
		return nil, apperr.Authentication("invalid token").WithCause(err)
	}
	if !token.Valid {
		return nil, apperr.Authentication("invalid token")
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Authentication("invalid token")
	}

	sub, ok := mc["sub"].(string)
	if !ok || sub == "" {
		return nil, apperr.Authentication("invalid token: missing subject claim")
	}
	roleName, ok := mc["role"].(string)
	if !ok {
		return nil, apperr.Authentication("invalid token: missing role claim")
	}
	role := Role(roleName)
	if !role.Valid() {
		return nil, apperr.Authentication("invalid token: unknown role claim")
	}

	claims := &Claims{Subject: sub, Role: role}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}
