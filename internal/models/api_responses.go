// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package models

import (
	"time"
)

// APIResponse is the envelope every JSON endpoint returns.
//
// Status is "success" with Data set, or "error" with Error set:
//
//	{
//	  "status": "success",
//	  "data": [{"movie_id": 318, "title": "...", "predicted_rating": 4.7}],
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 3}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes used by the HTTP API.
const (
	ErrCodeInvalidParameter = "INVALID_PARAMETER"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeModelNotLoaded   = "MODEL_NOT_LOADED"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	ErrCodeUnavailable      = "SERVICE_UNAVAILABLE"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// NewSuccess wraps data in a success envelope. start is when handling began.
func NewSuccess(data interface{}, start time.Time) APIResponse {
	return APIResponse{
		Status: "success",
		Data:   data,
		Metadata: Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	}
}

// NewError builds an error envelope.
func NewError(code, message string, details map[string]interface{}) APIResponse {
	return APIResponse{
		Status:   "error",
		Metadata: Metadata{Timestamp: time.Now().UTC()},
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}
