// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

// Package feedback records like/dislike feedback on recommendations and
// aggregates it per strategy for A/B comparisons.
package feedback

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tomtom215/moviemate/internal/recommend"
)

// Strategy names a recommendation source under test.
type Strategy string

const (
	StrategyCollaborative Strategy = "collaborative"
	StrategyPopular       Strategy = "popular"
	StrategyRandom        Strategy = "random"
)

// randomScore is the placeholder rating attached to random picks.
const randomScore = 3.0

// ErrUnknownStrategy is returned for strategy names outside the known set.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategies lists the known strategies in display order.
func Strategies() []Strategy {
	return []Strategy{StrategyCollaborative, StrategyPopular, StrategyRandom}
}

// ParseStrategy validates a strategy name. Empty means collaborative.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return StrategyCollaborative, nil
	case StrategyCollaborative, StrategyPopular, StrategyRandom:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Feedback is one user reaction to a recommended movie.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	MovieID   int64     `json:"movie_id"`
	Liked     bool      `json:"liked"`
	Strategy  Strategy  `json:"strategy"`
	Timestamp time.Time `json:"timestamp"`
}

// StrategyResult aggregates feedback for one strategy.
type StrategyResult struct {
	TotalFeedback int     `json:"total_feedback"`
	Likes         int     `json:"likes"`
	LikeRate      float64 `json:"like_rate"`
}

// Recommend produces topK recommendations for userID using strategy s.
// The random strategy draws min(topK, items) distinct movies from rng, or
// from the shared generator when rng is nil, all scored 3.0.
func Recommend(m *recommend.Model, s Strategy, userID int64, topK int, rng *rand.Rand) ([]recommend.Recommendation, error) {
	switch s {
	case StrategyCollaborative:
		return m.Recommend(userID, topK, true), nil
	case StrategyPopular:
		return m.RecommendPopular(topK), nil
	case StrategyRandom:
		return randomPicks(m.ItemIDs(), topK, rng), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

func randomPicks(items []int64, topK int, rng *rand.Rand) []recommend.Recommendation {
	k := min(max(topK, 0), len(items))
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })

	out := make([]recommend.Recommendation, k)
	for i := 0; i < k; i++ {
		out[i] = recommend.Recommendation{ItemID: items[i], Score: randomScore}
	}
	return out
}
