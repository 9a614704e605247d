// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

// Package auth implements the stateless authentication and authorization
// subsystem: credential storage and verification, signed token issuance,
// and role-gated access checks.
//
// Tokens are self-contained HS256 JWTs carrying subject and role claims;
// verification never consults storage, so a compromised token remains
// valid until its natural expiry. There is no revocation state.
package auth
