// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

/*
Package cache provides a thread-safe LRU cache with TTL expiry.

The API server uses it to memoize recommendation lists. Keys carry the
serving model version, so a retrain makes every older entry unreachable and
the LRU order ages them out without an explicit flush.

# Usage

	c := cache.NewLRU[string, []int](1000, 5*time.Minute)
	c.Add("user:1", []int{10, 20})
	if v, ok := c.Get("user:1"); ok {
	    // use v
	}

# Thread Safety

All methods are safe for concurrent use. Get takes the write lock because a
hit moves the entry to the front of the recency list.
*/
package cache
