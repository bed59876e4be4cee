// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the only role MovieMate issues.
const RoleAdmin = "admin"

// bcryptCost is used when the configured password is plain text.
const bcryptCost = 12

// Authenticator checks the single admin account.
type Authenticator struct {
	username     string
	passwordHash []byte
}

// NewAuthenticator builds an authenticator for the admin account. password
// may be plain text or an existing bcrypt hash. An empty username disables
// admin login and returns ErrAuthDisabled.
func NewAuthenticator(username, password string) (*Authenticator, error) {
	if username == "" {
		return nil, ErrAuthDisabled
	}
	if password == "" {
		return nil, fmt.Errorf("admin password is required")
	}

	if _, err := bcrypt.Cost([]byte(password)); err == nil {
		return &Authenticator{username: username, passwordHash: []byte(password)}, nil
	}

	if len(password) < 8 {
		return nil, fmt.Errorf("admin password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &Authenticator{username: username, passwordHash: hash}, nil
}

// Authenticate returns ErrInvalidCredentials unless both values match.
// The username compare is constant time and bcrypt runs even when the
// username is wrong.
func (a *Authenticator) Authenticate(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}
