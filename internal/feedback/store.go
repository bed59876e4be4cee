// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package feedback

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// feedbackKeyPrefix keys records as feedback:<unix nanos>:<id> so iteration
// returns them in recording order.
const feedbackKeyPrefix = "feedback:"

// ErrInvalidFeedback is returned for records that cannot be stored.
var ErrInvalidFeedback = errors.New("invalid feedback")

// Store persists feedback in BadgerDB.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// Open opens a Store at dir. An empty dir keeps everything in memory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create feedback directory: %w", err)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open feedback store: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores fb, filling ID and Timestamp when unset, and returns the
// stored record.
func (s *Store) Record(ctx context.Context, fb Feedback) (Feedback, error) {
	if err := ctx.Err(); err != nil {
		return Feedback{}, err
	}
	if _, err := ParseStrategy(string(fb.Strategy)); err != nil || fb.Strategy == "" {
		return Feedback{}, fmt.Errorf("%w: strategy %q", ErrInvalidFeedback, fb.Strategy)
	}
	if fb.ID == "" {
		fb.ID = uuid.New().String()
	}
	if fb.Timestamp.IsZero() {
		fb.Timestamp = s.now().UTC()
	}

	data, err := json.Marshal(fb)
	if err != nil {
		return Feedback{}, fmt.Errorf("marshal feedback: %w", err)
	}

	key := []byte(fmt.Sprintf("%s%020d:%s", feedbackKeyPrefix, fb.Timestamp.UnixNano(), fb.ID))
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return Feedback{}, fmt.Errorf("store feedback: %w", err)
	}
	return fb, nil
}

// List returns all feedback in recording order.
func (s *Store) List(ctx context.Context) ([]Feedback, error) {
	out := []Feedback{}
	err := s.each(ctx, func(fb Feedback) {
		out = append(out, fb)
	})
	return out, err
}

// Results aggregates feedback per strategy. Strategies without feedback are
// absent from the map.
func (s *Store) Results(ctx context.Context) (map[Strategy]StrategyResult, error) {
	results := make(map[Strategy]StrategyResult)
	err := s.each(ctx, func(fb Feedback) {
		r := results[fb.Strategy]
		r.TotalFeedback++
		if fb.Liked {
			r.Likes++
		}
		results[fb.Strategy] = r
	})
	if err != nil {
		return nil, err
	}
	for name, r := range results {
		r.LikeRate = float64(r.Likes) / float64(r.TotalFeedback)
		results[name] = r
	}
	return results, nil
}

func (s *Store) each(ctx context.Context, fn func(Feedback)) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(feedbackKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var fb Feedback
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &fb)
			})
			if err != nil {
				return fmt.Errorf("decode feedback %s: %w", it.Item().Key(), err)
			}
			fn(fb)
		}
		return nil
	})
}
