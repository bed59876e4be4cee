// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

/*
Package models defines the HTTP request and response types of MovieMate.

Every JSON endpoint returns an APIResponse envelope. Successful calls put the
payload in Data; failures set Status to "error" and describe the problem in
an APIError with one of the ErrCode constants.

Request bodies carry go-playground/validator tags and are checked by the
validation package before a handler uses them.
*/
package models
