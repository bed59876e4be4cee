// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/moviemate/internal/catalog"
	"github.com/tomtom215/moviemate/internal/models"
)

func toMovie(m catalog.Movie) models.Movie {
	return models.Movie{MovieID: m.ID, Title: m.Title, Genres: m.Genres}
}

// GetMovie handles GET /api/v1/movies/{movieID}
//
// @Summary Get a movie
// @Tags Movies
// @Produce json
// @Param movieID path int true "Movie ID"
// @Success 200 {object} models.APIResponse{data=models.Movie}
// @Failure 404 {object} models.APIResponse "Movie not found"
// @Router /api/v1/movies/{movieID} [get]
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}

	movie, found := h.movies().Get(movieID)
	if !found {
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, fmt.Sprintf("Movie %d not found", movieID), nil)
		return
	}
	respondSuccess(w, http.StatusOK, toMovie(movie), start)
}

// SearchMovies handles GET /api/v1/movies/search/{query}
//
// @Summary Search movies by title
// @Description Case-insensitive substring match in catalog order
// @Tags Movies
// @Produce json
// @Param query path string true "Title fragment"
// @Param limit query int false "Maximum results (1-100)" default(10)
// @Success 200 {object} models.APIResponse{data=[]models.Movie}
// @Failure 400 {object} models.APIResponse "Invalid parameter"
// @Router /api/v1/movies/search/{query} [get]
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query := strings.TrimSpace(chi.URLParam(r, "query"))
	if query == "" {
		invalidParam(w, "query", "query must not be empty")
		return
	}
	limit, ok := queryCount(w, r, "limit", 10)
	if !ok {
		return
	}

	found := h.movies().Search(query, limit)
	out := make([]models.Movie, len(found))
	for i, m := range found {
		out[i] = toMovie(m)
	}
	respondSuccess(w, http.StatusOK, out, start)
}
