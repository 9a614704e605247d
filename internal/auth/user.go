// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tracklab/tracklab/internal/apperr"
)

// Role is a coarse permission level carried in a token claim.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// roleRank orders roles for minimum-role checks. ADMIN > USER.
var roleRank = map[Role]int{
	RoleUser:  1,
	RoleAdmin: 2,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r satisfies the given minimum role.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// ParseRole converts a role name into a Role.
func ParseRole(name string) (Role, error) {
	r := Role(name)
	if !r.Valid() {
		return "", apperr.Validation("role", "role not found: %q", name)
	}
	return r, nil
}

// Field constraints for registration and profile updates.
const (
	MinNameLength     = 2
	MaxNameLength     = 30
	MinPasswordLength = 8
)

// emailRegex accepts the usual local@domain.tld shape. Addresses are
// normalized to lower case before storage and comparison.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User is a registered account. PasswordHash never leaves this package's
// consumers; outward representations must omit it.
type User struct {
	ID           ulid.ULID
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	Photo        string
	Bio          string
	BirthDate    *time.Time
	CreatedAt    time.Time
}

// NormalizeEmail lower-cases and trims an email address. All storage and
// lookups operate on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address shape.
func ValidateEmail(email string) error {
	if email == "" {
		return apperr.Validation("email", "email must not be empty")
	}
	if !emailRegex.MatchString(email) {
		return apperr.Validation("email", "email must match pattern email@example.com")
	}
	return nil
}

// ValidateName checks a first or last name against length constraints.
// The field name parameterizes the error.
func ValidateName(field, name string) error {
	if name == "" {
		return apperr.Validation(field, "%s must not be empty", field)
	}
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return apperr.Validation(field, "%s length must be between %d and %d characters",
			field, MinNameLength, MaxNameLength)
	}
	return nil
}

// ValidatePassword checks the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperr.Validation("password", "password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// UserRepository persists user accounts. Implementations must store
// emails lower-cased and enforce uniqueness, surfacing violations as
// apperr.Conflict.
type UserRepository interface {
	// Create stores a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByEmail retrieves a user by normalized email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]*User, error)

	// Update replaces the mutable profile fields of an existing user.
	Update(ctx context.Context, user *User) error

	// UpdatePassword replaces only the password hash.
	UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error

	// UpdateRole replaces only the role.
	UpdateRole(ctx context.Context, id ulid.ULID, role Role) error

	// UpdatePhoto replaces only the photo URI.
	UpdatePhoto(ctx context.Context, id ulid.ULID, photoURI string) error

	// Delete removes a user.
	Delete(ctx context.Context, id ulid.ULID) error
}
