// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package models

import "time"

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status       string `json:"status"`
	ModelLoaded  bool   `json:"model_loaded"`
	MoviesLoaded bool   `json:"movies_loaded"`
	ModelVersion int    `json:"model_version"`
}

// ServiceInfo is the /api banner.
type ServiceInfo struct {
	Message string `json:"message"`
	Docs    string `json:"docs"`
	Version string `json:"version"`
}

// Movie is a catalog entry.
type Movie struct {
	MovieID int64  `json:"movie_id"`
	Title   string `json:"title"`
	Genres  string `json:"genres"`
}

// MovieRecommendation is a recommended movie with its predicted rating.
// Strategy is set only by the A/B test endpoint.
type MovieRecommendation struct {
	MovieID         int64   `json:"movie_id"`
	Title           string  `json:"title"`
	Genres          string  `json:"genres"`
	PredictedRating float64 `json:"predicted_rating"`
	Strategy        string  `json:"strategy,omitempty"`
}

// Prediction is a single predicted rating.
type Prediction struct {
	UserID          int64   `json:"user_id"`
	MovieID         int64   `json:"movie_id"`
	Title           string  `json:"title"`
	PredictedRating float64 `json:"predicted_rating"`
}

// SimilarMovie is a movie close to another in factor space.
type SimilarMovie struct {
	MovieID    int64   `json:"movie_id"`
	Title      string  `json:"title"`
	Genres     string  `json:"genres"`
	Similarity float64 `json:"similarity"`
}

// ExplanationSource is a liked movie that supports a recommendation.
type ExplanationSource struct {
	MovieID    int64   `json:"movie_id"`
	Title      string  `json:"title"`
	Genres     string  `json:"genres"`
	Similarity float64 `json:"similarity"`
	YourRating float64 `json:"your_rating"`
}

// Explanation tells a user why a movie is recommended.
type Explanation struct {
	MovieID            int64               `json:"movie_id"`
	Title              string              `json:"title"`
	Genres             string              `json:"genres"`
	PredictedRating    float64             `json:"predicted_rating"`
	Explanation        string              `json:"explanation"`
	BasedOn            []ExplanationSource `json:"based_on"`
	TotalSimilarMovies int                 `json:"total_similar_movies"`
}

// ModelStats is returned by /api/v1/stats.
type ModelStats struct {
	TotalUsers        int       `json:"total_users"`
	TotalMovies       int       `json:"total_movies"`
	ModelComponents   int       `json:"model_components"`
	GlobalMeanRating  float64   `json:"global_mean_rating"`
	ExplainedVariance float64   `json:"explained_variance"`
	ModelVersion      int       `json:"model_version"`
	TrainedAt         time.Time `json:"trained_at"`
}

// ABTestRecommendations is the A/B test recommendation response.
type ABTestRecommendations struct {
	Strategy        string                `json:"strategy"`
	Recommendations []MovieRecommendation `json:"recommendations"`
}
