// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moviemate/internal/logging"
	"github.com/tomtom215/moviemate/internal/models"
)

type contextKey string

// ClaimsContextKey holds the *Claims of an authenticated request.
const ClaimsContextKey contextKey = "claims"

// ClaimsFromContext returns the claims stored by RequireJWT.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

// RequireJWT rejects requests without a valid "Authorization: Bearer" token
// carrying the admin role.
func RequireJWT(m *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Bearer token required")
				return
			}

			claims, err := m.ValidateToken(token)
			if err != nil {
				logging.Ctx(r.Context()).Warn().Err(err).Msg("Rejected admin token")
				writeError(w, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Invalid or expired token")
				return
			}
			if claims.Role != RoleAdmin {
				writeError(w, http.StatusForbidden, models.ErrCodeForbidden, "Admin role required")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="moviemate"`)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.NewError(code, message, nil))
}
