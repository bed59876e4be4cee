// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

// Package catalog holds movie metadata (title and genres) used to decorate
// recommendation results.
package catalog

import (
	"strings"
	"sync/atomic"
)

// Movie is one row of the movies file. Genres keeps the MovieLens
// pipe-separated form, e.g. "Adventure|Animation|Children".
type Movie struct {
	ID     int64  `json:"movie_id"`
	Title  string `json:"title"`
	Genres string `json:"genres"`
}

// GenreList splits Genres on "|". "(no genres listed)" yields nil.
func (m Movie) GenreList() []string {
	if m.Genres == "" || m.Genres == "(no genres listed)" {
		return nil
	}
	return strings.Split(m.Genres, "|")
}

// Catalog is an immutable, indexed set of movies. Safe for concurrent reads.
type Catalog struct {
	movies []Movie
	byID   map[int64]int
	lower  []string
}

// New indexes movies. When an ID repeats, the first row wins.
func New(movies []Movie) *Catalog {
	c := &Catalog{
		movies: make([]Movie, 0, len(movies)),
		byID:   make(map[int64]int, len(movies)),
		lower:  make([]string, 0, len(movies)),
	}
	for _, m := range movies {
		if _, dup := c.byID[m.ID]; dup {
			continue
		}
		c.byID[m.ID] = len(c.movies)
		c.movies = append(c.movies, m)
		c.lower = append(c.lower, strings.ToLower(m.Title))
	}
	return c
}

// Get looks a movie up by ID.
func (c *Catalog) Get(id int64) (Movie, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Movie{}, false
	}
	return c.movies[i], true
}

// Search returns up to limit movies whose title contains query, ignoring
// case, in file order. An empty query or non-positive limit matches nothing.
func (c *Catalog) Search(query string, limit int) []Movie {
	results := []Movie{}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return results
	}
	for i, title := range c.lower {
		if strings.Contains(title, q) {
			results = append(results, c.movies[i])
			if len(results) == limit {
				break
			}
		}
	}
	return results
}

// Len returns the number of movies.
func (c *Catalog) Len() int {
	return len(c.movies)
}

// Movies returns a copy of all movies in file order.
func (c *Catalog) Movies() []Movie {
	return append([]Movie(nil), c.movies...)
}

// Holder publishes the current catalog to concurrent readers.
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder returns an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Catalog returns the current catalog or nil.
func (h *Holder) Catalog() *Catalog {
	return h.current.Load()
}

// Swap installs c and returns the previous catalog.
func (h *Holder) Swap(c *Catalog) *Catalog {
	return h.current.Swap(c)
}
