// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/moviemate/internal/catalog"
	"github.com/tomtom215/moviemate/internal/feedback"
	"github.com/tomtom215/moviemate/internal/models"
	"github.com/tomtom215/moviemate/internal/recommend"
)

const explanationText = "Recommended because it is similar to these movies you rated highly"

// joinCatalog attaches titles and genres to ranked items. Items missing
// from the catalog are skipped.
func joinCatalog(c *catalog.Catalog, recs []recommend.Recommendation, strategy string) []models.MovieRecommendation {
	out := make([]models.MovieRecommendation, 0, len(recs))
	for _, rec := range recs {
		movie, ok := c.Get(rec.ItemID)
		if !ok {
			continue
		}
		out = append(out, models.MovieRecommendation{
			MovieID:         movie.ID,
			Title:           movie.Title,
			Genres:          movie.Genres,
			PredictedRating: rec.Score,
			Strategy:        strategy,
		})
	}
	return out
}

// Recommend handles GET /api/v1/recommend/{userID}
//
// @Summary Personalized recommendations
// @Description Ranks unseen movies by predicted rating. Unknown users get popular movies.
// @Tags Recommendations
// @Produce json
// @Param userID path int true "User ID"
// @Param top_k query int false "Number of results (1-100)" default(10)
// @Param exclude_rated query bool false "Skip movies the user already rated" default(true)
// @Success 200 {object} models.APIResponse{data=[]models.MovieRecommendation}
// @Failure 400 {object} models.APIResponse "Invalid parameter"
// @Failure 503 {object} models.APIResponse "Model not loaded"
// @Router /api/v1/recommend/{userID} [get]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	topK, ok := queryCount(w, r, "top_k", 10)
	if !ok {
		return
	}
	excludeRated, ok := queryBool(w, r, "exclude_rated", true)
	if !ok {
		return
	}

	loaded := h.deps.Models.Current()
	if loaded == nil {
		respondModelNotLoaded(w, r)
		return
	}

	recs := h.recommendations(loaded, userID, topK, excludeRated)
	respondSuccess(w, http.StatusOK, joinCatalog(h.movies(), recs, ""), start)
}

// Explain handles GET /api/v1/recommend/{userID}/explain
//
// @Summary Explain a recommendation
// @Description Lists the user's highly rated movies closest to the target movie in factor space
// @Tags Recommendations
// @Produce json
// @Param userID path int true "User ID"
// @Param movie_id query int true "Movie ID"
// @Success 200 {object} models.APIResponse{data=models.Explanation}
// @Failure 404 {object} models.APIResponse "Unknown user or movie"
// @Failure 503 {object} models.APIResponse "Model not loaded"
// @Router /api/v1/recommend/{userID}/explain [get]
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	movieID, ok := queryID(w, r, "movie_id")
	if !ok {
		return
	}

	m := h.model(w, r)
	if m == nil {
		return
	}

	exp, err := m.Explain(userID, movieID, -1)
	switch {
	case errors.Is(err, recommend.ErrUnknownUser):
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "User not present in training data", nil)
		return
	case errors.Is(err, recommend.ErrUnknownItem):
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "Movie not present in training data", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to explain recommendation", err)
		return
	}

	movies := h.movies()
	target, ok := movies.Get(movieID)
	if !ok {
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, fmt.Sprintf("Movie %d not found", movieID), nil)
		return
	}

	sources := make([]models.ExplanationSource, 0, len(exp.BasedOn))
	for _, ev := range exp.BasedOn {
		movie, ok := movies.Get(ev.ItemID)
		if !ok {
			continue
		}
		sources = append(sources, models.ExplanationSource{
			MovieID:    movie.ID,
			Title:      movie.Title,
			Genres:     movie.Genres,
			Similarity: ev.Similarity,
			YourRating: ev.UserRating,
		})
	}
	total := len(sources)
	if len(sources) > h.deps.ExplainLimit {
		sources = sources[:h.deps.ExplainLimit]
	}

	respondSuccess(w, http.StatusOK, models.Explanation{
		MovieID:            target.ID,
		Title:              target.Title,
		Genres:             target.Genres,
		PredictedRating:    exp.PredictedRating,
		Explanation:        explanationText,
		BasedOn:            sources,
		TotalSimilarMovies: total,
	}, start)
}

// ABTest handles GET /api/v1/recommend/ab-test/{userID}
//
// @Summary Recommendations for an A/B strategy
// @Tags A/B Testing
// @Produce json
// @Param userID path int true "User ID"
// @Param strategy query string false "collaborative, popular or random" default(collaborative)
// @Param top_k query int false "Number of results (1-100)" default(10)
// @Success 200 {object} models.APIResponse{data=models.ABTestRecommendations}
// @Failure 400 {object} models.APIResponse "Invalid parameter"
// @Failure 503 {object} models.APIResponse "Model not loaded"
// @Router /api/v1/recommend/ab-test/{userID} [get]
func (h *Handler) ABTest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	strategy := feedback.StrategyCollaborative
	if raw := r.URL.Query().Get("strategy"); raw != "" {
		s, err := feedback.ParseStrategy(raw)
		if err != nil {
			invalidParam(w, "strategy", "strategy must be one of collaborative, popular, random")
			return
		}
		strategy = s
	}
	topK, ok := queryCount(w, r, "top_k", 10)
	if !ok {
		return
	}

	m := h.model(w, r)
	if m == nil {
		return
	}

	h.rngMu.Lock()
	recs, err := feedback.Recommend(m, strategy, userID, topK, h.deps.Rand)
	h.rngMu.Unlock()
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to generate recommendations", err)
		return
	}

	respondSuccess(w, http.StatusOK, models.ABTestRecommendations{
		Strategy:        string(strategy),
		Recommendations: joinCatalog(h.movies(), recs, string(strategy)),
	}, start)
}

// Predict handles GET /api/v1/predict
//
// @Summary Predict a rating
// @Description Unknown users or movies in the model get the global mean rating
// @Tags Recommendations
// @Produce json
// @Param user_id query int true "User ID"
// @Param movie_id query int true "Movie ID"
// @Success 200 {object} models.APIResponse{data=models.Prediction}
// @Failure 404 {object} models.APIResponse "Movie not in catalog"
// @Failure 503 {object} models.APIResponse "Model not loaded"
// @Router /api/v1/predict [get]
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := queryID(w, r, "user_id")
	if !ok {
		return
	}
	movieID, ok := queryID(w, r, "movie_id")
	if !ok {
		return
	}

	m := h.model(w, r)
	if m == nil {
		return
	}

	movie, found := h.movies().Get(movieID)
	if !found {
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, fmt.Sprintf("Movie %d not found", movieID), nil)
		return
	}

	respondSuccess(w, http.StatusOK, models.Prediction{
		UserID:          userID,
		MovieID:         movieID,
		Title:           movie.Title,
		PredictedRating: m.Predict(userID, movieID),
	}, start)
}

// Similar handles GET /api/v1/similar/{movieID}
//
// @Summary Similar movies
// @Tags Recommendations
// @Produce json
// @Param movieID path int true "Movie ID"
// @Param top_k query int false "Number of results (1-100)" default(5)
// @Success 200 {object} models.APIResponse{data=[]models.SimilarMovie}
// @Failure 404 {object} models.APIResponse "Movie not in training data"
// @Failure 503 {object} models.APIResponse "Model not loaded"
// @Router /api/v1/similar/{movieID} [get]
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}
	topK, ok := queryCount(w, r, "top_k", 5)
	if !ok {
		return
	}

	m := h.model(w, r)
	if m == nil {
		return
	}
	if !m.HasItem(movieID) {
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound,
			fmt.Sprintf("Movie %d not present in training data", movieID), nil)
		return
	}

	movies := h.movies()
	similar := m.SimilarItems(movieID, topK)
	out := make([]models.SimilarMovie, 0, len(similar))
	for _, s := range similar {
		movie, ok := movies.Get(s.ItemID)
		if !ok {
			continue
		}
		out = append(out, models.SimilarMovie{
			MovieID:    movie.ID,
			Title:      movie.Title,
			Genres:     movie.Genres,
			Similarity: s.Similarity,
		})
	}
	respondSuccess(w, http.StatusOK, out, start)
}

// Stats handles GET /api/v1/stats
//
// @Summary Model statistics
// @Tags Recommendations
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.ModelStats}
// @Failure 503 {object} models.APIResponse "Model not loaded"
// @Router /api/v1/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	loaded := h.deps.Models.Current()
	if loaded == nil {
		respondModelNotLoaded(w, r)
		return
	}

	stats := loaded.Model.Stats()
	respondSuccess(w, http.StatusOK, models.ModelStats{
		TotalUsers:        stats.Users,
		TotalMovies:       stats.Items,
		ModelComponents:   stats.Rank,
		GlobalMeanRating:  stats.GlobalMean,
		ExplainedVariance: stats.ExplainedVariance,
		ModelVersion:      loaded.Version,
		TrainedAt:         stats.TrainedAt,
	}, start)
}
