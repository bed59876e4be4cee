// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package auth

import "errors"

var (
	// ErrAuthDisabled is returned when no admin account is configured.
	ErrAuthDisabled = errors.New("admin authentication is disabled")

	// ErrInvalidCredentials is returned for a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrWeakSecret is returned when the JWT secret is shorter than MinSecretLength.
	ErrWeakSecret = errors.New("jwt secret too short")

	// ErrInvalidToken is returned for malformed, expired or forged tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrRetrainThrottled is returned when a retrain comes inside the minimum interval.
	ErrRetrainThrottled = errors.New("retrain requested too soon")
)
