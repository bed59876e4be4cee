// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package models

// FeedbackRequest is the body of POST /api/v1/feedback.
type FeedbackRequest struct {
	UserID   int64  `json:"user_id" validate:"required,gt=0"`
	MovieID  int64  `json:"movie_id" validate:"required,gt=0"`
	Liked    *bool  `json:"liked" validate:"required"`
	Strategy string `json:"strategy" validate:"required,oneof=collaborative popular random"`
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

// LoginResponse carries an issued admin token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// RetrainAccepted acknowledges an admin retrain request.
type RetrainAccepted struct {
	Message string `json:"message"`
}
