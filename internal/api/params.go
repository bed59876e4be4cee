// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/moviemate/internal/models"
	"github.com/tomtom215/moviemate/internal/validation"
)

// countRule bounds top_k and limit on every list endpoint.
const countRule = "min=1,max=100"

// invalidParam writes the 400 for a malformed or out-of-range parameter.
func invalidParam(w http.ResponseWriter, name, message string) {
	resp := models.NewError(models.ErrCodeInvalidParameter, message, map[string]interface{}{"parameter": name})
	respondJSON(w, http.StatusBadRequest, &resp)
}

// pathID parses a chi URL parameter as a positive integer id.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	return parseID(w, name, chi.URLParam(r, name))
}

// queryID parses a required query parameter as a positive integer id.
func queryID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		invalidParam(w, name, fmt.Sprintf("%s is required", name))
		return 0, false
	}
	return parseID(w, name, raw)
}

func parseID(w http.ResponseWriter, name, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		invalidParam(w, name, fmt.Sprintf("%s must be an integer", name))
		return 0, false
	}
	if id <= 0 {
		invalidParam(w, name, fmt.Sprintf("%s must be positive", name))
		return 0, false
	}
	return id, true
}

// queryCount parses an optional count such as top_k or limit, falling back
// to def when absent. Values outside 1..100 are rejected.
func queryCount(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		invalidParam(w, name, fmt.Sprintf("%s must be an integer", name))
		return 0, false
	}
	if verr := validation.ValidateVar(name, n, countRule); verr != nil {
		invalidParam(w, name, verr.Error())
		return 0, false
	}
	return n, true
}

// queryBool parses an optional boolean query parameter.
func queryBool(w http.ResponseWriter, r *http.Request, name string, def bool) (bool, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		invalidParam(w, name, fmt.Sprintf("%s must be true or false", name))
		return false, false
	}
	return b, true
}
