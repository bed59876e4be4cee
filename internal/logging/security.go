// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package logging

import (
	"strings"
	"unicode"
)

const maxLoggedValue = 200

// maskSecret keeps four characters at each end of a long credential.
func maskSecret(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeUsername keeps the first two characters of a username.
func SanitizeUsername(username string) string {
	if len(username) <= 2 {
		if username == "" {
			return ""
		}
		return "***"
	}
	return username[:2] + "***"
}

// SanitizeValue prepares client-supplied text for a log field. Sensitive
// keys are masked; everything else loses control characters and is truncated.
func SanitizeValue(key, value string) string {
	switch strings.ToLower(key) {
	case "password", "token", "jwt", "authorization", "secret", "jwt_secret":
		return maskSecret(value)
	case "username":
		return SanitizeUsername(value)
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
	if len(cleaned) > maxLoggedValue {
		return cleaned[:maxLoggedValue] + "..."
	}
	return cleaned
}
