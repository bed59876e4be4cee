// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

/*
Package api provides the HTTP REST API for MovieMate.

Every response uses the models.APIResponse envelope: a status of "success"
or "error", the data payload, and metadata carrying the timestamp and the
query time in milliseconds.

# Routes

Core:
  - GET /health - model and catalog readiness
  - GET /api - service banner
  - GET /ws - websocket feed of model and feedback events

Inference (rate limited per client IP):
  - GET /api/v1/recommend/{userID} - personalized top-k
  - GET /api/v1/recommend/{userID}/explain?movie_id= - evidence for a movie
  - GET /api/v1/recommend/ab-test/{userID}?strategy= - collaborative, popular or random
  - GET /api/v1/predict?user_id=&movie_id= - single rating prediction
  - GET /api/v1/similar/{movieID} - nearest movies in factor space
  - GET /api/v1/movies/{movieID} and /api/v1/movies/search/{query}
  - GET /api/v1/stats - model statistics

Feedback:
  - POST /api/v1/feedback - record a like or dislike for an A/B strategy
  - GET /api/v1/ab-test/results - like rate per strategy

Admin (JWT bearer token from POST /api/v1/auth/login):
  - POST /api/v1/admin/retrain - start a background retrain (202)
  - GET /api/v1/admin/models - persisted model versions
  - GET /api/v1/admin/training - training status

Inference endpoints return 503 MODEL_NOT_LOADED until the first model is
installed. Counts (top_k, limit) must lie in 1..100.

# Usage

	h := api.NewHandler(ctx, api.Dependencies{
	    Models:  engine.Holder(),
	    Catalog: movies,
	    Trainer: engine,
	})
	router := api.NewRouter(h, api.NewChiMiddleware(mwCfg))
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api
