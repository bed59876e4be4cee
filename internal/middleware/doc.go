// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

// Package middleware holds the HTTP middleware MovieMate adds on top of
// chi's own: request ids with access logging, and Prometheus request
// metrics. Both are plain func(http.Handler) http.Handler values for
// chi.Router.Use.
package middleware
