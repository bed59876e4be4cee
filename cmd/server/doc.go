// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

/*
Package main is the MovieMate API server.

MovieMate serves latent-factor movie recommendations learned from the
MovieLens ratings file: personalized top-k lists, explanations, rating
predictions, similar movies, and an A/B test between collaborative,
popularity and random strategies.

# Process Tree

	moviemate
	├── data-layer
	│   └── training-scheduler (restore or train the first model, then retrain on interval)
	├── messaging-layer
	│   ├── nats-server (events.embedded_nats only)
	│   ├── event-router (model_trained and feedback_recorded fan-out)
	│   └── websocket-hub
	└── api-layer
	    └── api-server

Startup order:

 1. Configuration via koanf (defaults, config.yaml, environment)
 2. Logging (zerolog)
 3. DuckDB for reading the ratings and movies CSV files
 4. Model store, recommendation engine, movie catalog
 5. Event bus: gochannel, external NATS, or embedded NATS
 6. Feedback store (BadgerDB)
 7. Admin authentication when ADMIN_USERNAME is set
 8. Supervisor tree

The API answers 503 MODEL_NOT_LOADED until the training scheduler has
restored or trained a model.

# Environment

	HTTP_PORT=8000
	RATINGS_PATH=data/ml-latest-small/ratings.csv
	MOVIES_PATH=data/ml-latest-small/movies.csv
	MODEL_DIR=data/models
	MODEL_COMPONENTS=50
	TRAIN_INTERVAL=24h
	CACHE_SIZE=10000
	ADMIN_USERNAME=admin ADMIN_PASSWORD=... JWT_SECRET=...

See internal/config for the full list.

# Signals

SIGINT and SIGTERM cancel the tree. The HTTP server drains for up to
server.timeout and the other services stop within the supervisor timeout.
*/
package main
