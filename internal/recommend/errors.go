// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package recommend

import "errors"

// Training errors abort the run; no partial model is ever returned.
var (
	// ErrEmptyInput is returned when training is given no rating observations.
	ErrEmptyInput = errors.New("no rating observations")

	// ErrInvalidRank is returned when the latent dimension is outside
	// [1, min(users, items)].
	ErrInvalidRank = errors.New("invalid latent rank")

	// ErrInvalidRating is returned for a rating that would collide with the
	// zero "unrated" sentinel.
	ErrInvalidRating = errors.New("rating must be positive")

	// ErrInvalidBounds is returned when the rating bounds are inverted.
	ErrInvalidBounds = errors.New("min rating must be below max rating")
)

// Lookup and lifecycle errors.
var (
	ErrUnknownUser        = errors.New("user not present in training data")
	ErrUnknownItem        = errors.New("item not present in training data")
	ErrNoModel            = errors.New("no model loaded")
	ErrTrainingInProgress = errors.New("training already in progress")
)
