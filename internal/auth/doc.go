// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

/*
Package auth protects the admin endpoints.

There is one admin account, configured by username and password. Login
checks it with Authenticator and returns an HS256 JWT from JWTManager;
admin routes are wrapped in RequireJWT. Retrains requested through the API
are additionally throttled by RetrainLimiter.

	authn, err := auth.NewAuthenticator(cfg.Security.AdminUsername, cfg.Security.AdminPassword)
	jwtm, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.SessionTimeout)

	r.Group(func(r chi.Router) {
	    r.Use(auth.RequireJWT(jwtm))
	    r.Post("/admin/retrain", h.Retrain)
	})
*/
package auth
