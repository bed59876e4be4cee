// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

// @title MovieMate API
// @version 1.0
// @description Latent-factor movie recommendations with explanations, A/B testing and admin retraining.
// @description
// @description All responses use the envelope {status, data, metadata, error}. Inference endpoints
// @description return 503 MODEL_NOT_LOADED until the first model is available.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/moviemate/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Bearer <token>" from /api/v1/auth/login
//
// @tag.name Core
// @tag.description Health and service banner
//
// @tag.name Recommendations
// @tag.description Personalized recommendations, explanations, predictions and similar movies
//
// @tag.name Movies
// @tag.description Movie catalog lookups
//
// @tag.name A/B Testing
// @tag.description Strategy recommendations, feedback and results
//
// @tag.name Admin
// @tag.description Login, retraining and model versions

package main
