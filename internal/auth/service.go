// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package auth

import (
	"context"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/tracklab/tracklab/internal/apperr"
)

// dummyPasswordHash is used when a user doesn't exist to prevent timing
// attacks: password verification still runs so response time stays
// consistent. This is NOT a real credential and matches no password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// PhotoStore persists uploaded profile photos and returns an opaque URI.
type PhotoStore interface {
	Save(kind, filename string, r io.Reader) (string, error)
}

// Registration carries the self-service registration input.
type Registration struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	Bio       string
	BirthDate *time.Time
}

// ProfileUpdate carries a profile mutation. Role, password hash, email,
// and creation time are never touched by a profile update.
type ProfileUpdate struct {
	ID        ulid.ULID
	FirstName string
	LastName  string
	Bio       string
	BirthDate *time.Time
}

// Service orchestrates registration, login, and account mutations.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens *TokenService
	guard  *Guard
	photos PhotoStore
}

// NewService creates an authentication Service. The photo store may be
// nil when photo uploads are not served.
func NewService(users UserRepository, hasher PasswordHasher, tokens *TokenService, guard *Guard, photos PhotoStore) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token service is required")
	}
	if guard == nil {
		return nil, oops.Errorf("guard is required")
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, guard: guard, photos: photos}, nil
}

// Register validates the input, stores a new USER-role account, and
// issues a token for it. A duplicate email surfaces as a conflict from
// the repository's uniqueness constraint.
func (s *Service) Register(ctx context.Context, reg Registration) (string, error) {
	email := NormalizeEmail(reg.Email)
	if err := ValidateEmail(email); err != nil {
		return "", err
	}
	if err := ValidateName("first name", reg.FirstName); err != nil {
		return "", err
	}
	if err := ValidateName("last name", reg.LastName); err != nil {
		return "", err
	}
	if err := ValidatePassword(reg.Password); err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return "", oops.Code("AUTH_HASH_FAILED").Wrap(err)
	}

	user := &User{
		ID:           ulid.Make(),
		Email:        email,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		PasswordHash: hash,
		Role:         RoleUser,
		Bio:          reg.Bio,
		BirthDate:    reg.BirthDate,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return "", oops.Code("AUTH_ISSUE_FAILED").Wrap(err)
	}
	return token, nil
}

// Login verifies credentials and issues a token carrying the user's
// current role. Unknown email and wrong password produce the same error
// so callers cannot enumerate accounts; the dummy-hash verification
// keeps the two paths close in timing as well.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, lookupErr := s.users.GetByEmail(ctx, NormalizeEmail(email))

	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !apperr.IsKind(lookupErr, apperr.KindNotFound) {
			return "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return "", apperr.Authentication("invalid email or password")
		}
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		return "", apperr.Authentication("invalid email or password")
	}

	token, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return "", oops.Code("AUTH_ISSUE_FAILED").Wrap(err)
	}
	return token, nil
}

// ChangePassword re-hashes and persists a new password. Allowed for the
// account owner and for admins.
func (s *Service) ChangePassword(ctx context.Context, bearer string, userID ulid.ULID, newPassword string) error {
	identity, err := s.guard.Require(ctx, bearer, RoleUser)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.requireSelfOrAdmin(identity, user); err != nil {
		return err
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("AUTH_HASH_FAILED").Wrap(err)
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// SetRole changes another user's role. Admin only. An unknown role name
// is a validation error.
func (s *Service) SetRole(ctx context.Context, bearer string, userID ulid.ULID, roleName string) error {
	if _, err := s.guard.Require(ctx, bearer, RoleAdmin); err != nil {
		return err
	}
	role, err := ParseRole(roleName)
	if err != nil {
		return err
	}
	return s.users.UpdateRole(ctx, userID, role)
}

// UpdateProfile updates the mutable profile fields, preserving email,
// role, password hash, and creation time. Allowed for the account owner
// and for admins.
func (s *Service) UpdateProfile(ctx context.Context, bearer string, upd ProfileUpdate) error {
	identity, err := s.guard.Require(ctx, bearer, RoleUser)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, upd.ID)
	if err != nil {
		return err
	}
	if err := s.requireSelfOrAdmin(identity, user); err != nil {
		return err
	}

	if err := ValidateName("first name", upd.FirstName); err != nil {
		return err
	}
	if err := ValidateName("last name", upd.LastName); err != nil {
		return err
	}

	user.FirstName = upd.FirstName
	user.LastName = upd.LastName
	user.Bio = upd.Bio
	user.BirthDate = upd.BirthDate
	return s.users.Update(ctx, user)
}

// Delete removes a user account. Admin only.
func (s *Service) Delete(ctx context.Context, bearer string, userID ulid.ULID) error {
	if _, err := s.guard.Require(ctx, bearer, RoleAdmin); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}

// List returns all users. Admin only.
func (s *Service) List(ctx context.Context, bearer string) ([]*User, error) {
	if _, err := s.guard.Require(ctx, bearer, RoleAdmin); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// GetByID returns a single user. Reads require no role.
func (s *Service) GetByID(ctx context.Context, id ulid.ULID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// SetPhoto stores an uploaded photo and binds its URI to the account.
// The previous photo object, if any, is not deleted. A storage failure
// leaves the account unchanged.
func (s *Service) SetPhoto(ctx context.Context, bearer string, userID ulid.ULID, filename string, r io.Reader) error {
	identity, err := s.guard.Require(ctx, bearer, RoleUser)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.requireSelfOrAdmin(identity, user); err != nil {
		return err
	}

	if s.photos == nil {
		return oops.Code("AUTH_PHOTO_STORE_MISSING").Errorf("photo store not configured")
	}
	uri, err := s.photos.Save("users", filename, r)
	if err != nil {
		return apperr.AssetUpload("could not store photo").WithCause(err)
	}
	return s.users.UpdatePhoto(ctx, userID, uri)
}

func (s *Service) requireSelfOrAdmin(identity Identity, user *User) error {
	if identity.IsAdmin() || identity.Subject == user.Email {
		return nil
	}
	return apperr.Authorization("not allowed to modify another user's account")
}
