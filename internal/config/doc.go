// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

/*
Package config provides centralized configuration management for MovieMate.

Configuration is loaded with Koanf v2 from three layers, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, ./config.yaml or /etc/moviemate/config.yaml
 3. Environment variables listed in the mapping table

Unmapped environment variables are ignored.

# Sections

  - server: HTTP listener (HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT, ENVIRONMENT)
  - logging: LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - data: RATINGS_PATH, MOVIES_PATH, PROCESSED_MOVIES_PATH, DUCKDB_PATH
  - model: MODEL_DIR, MODEL_NAME, MODEL_COMPONENTS, SVD_METHOD, SVD_SEED, ...
  - training: TRAIN_ON_STARTUP, TRAIN_INTERVAL, TRAIN_TIMEOUT
  - feedback: FEEDBACK_BADGER_PATH
  - events: NATS_URL, NATS_EMBEDDED, NATS_PORT, NATS_STORE_DIR
  - security: ADMIN_USERNAME, ADMIN_PASSWORD, JWT_SECRET, RATE_LIMIT_REQUESTS, CORS_ORIGINS
  - cache: CACHE_SIZE (0 disables), CACHE_TTL

# Example config.yaml

	server:
	  port: 8000
	model:
	  components: 50
	  svd_method: randomized
	training:
	  interval: 24h
	security:
	  cors_origins:
	    - https://movies.example.com

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	engine, err := recommend.NewEngine(cfg.Recommend(), source, store, holder, logger)

Validation runs as part of Load. Admin login requires ADMIN_USERNAME,
ADMIN_PASSWORD and a JWT_SECRET of at least 32 characters; without them the
admin endpoints are disabled.
*/
package config
