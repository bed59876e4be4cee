// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package recommend

import (
	"fmt"
	"slices"
)

const (
	// likedThreshold is the rating at which an item counts as liked.
	likedThreshold = 4.0

	// maxExplainCandidates caps how many liked items are compared.
	maxExplainCandidates = 10
)

// Evidence is a liked item supporting a recommendation.
type Evidence struct {
	ItemID     int64   `json:"item_id"`
	Similarity float64 `json:"similarity"`
	UserRating float64 `json:"your_rating"`
}

// Explanation describes why an item is recommended to a user.
type Explanation struct {
	UserID          int64      `json:"user_id"`
	ItemID          int64      `json:"item_id"`
	PredictedRating float64    `json:"predicted_rating"`
	BasedOn         []Evidence `json:"based_on"`
	TotalSimilar    int        `json:"total_similar"`
}

// Explain relates itemID to the first ten items (in index order) the user
// rated at least 4, ranked by factor-space similarity. At most limit of them
// are returned in BasedOn.
func (m *Model) Explain(userID, itemID int64, limit int) (*Explanation, error) {
	u, ok := m.userIndex[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownUser, userID)
	}
	target, ok := m.itemIndex[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownItem, itemID)
	}

	row := m.ratings.RawRowView(u)
	evidence := make([]Evidence, 0, maxExplainCandidates)
	considered := 0
	for i, r := range row {
		if r < likedThreshold {
			continue
		}
		if considered == maxExplainCandidates {
			break
		}
		considered++
		if i == target {
			continue
		}
		evidence = append(evidence, Evidence{
			ItemID:     m.itemIDs[i],
			Similarity: m.cosine(target, i),
			UserRating: r,
		})
	}

	slices.SortStableFunc(evidence, func(a, b Evidence) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		default:
			return 0
		}
	})

	total := len(evidence)
	if limit >= 0 && len(evidence) > limit {
		evidence = evidence[:limit]
	}

	return &Explanation{
		UserID:          userID,
		ItemID:          itemID,
		PredictedRating: m.Predict(userID, itemID),
		BasedOn:         evidence,
		TotalSimilar:    total,
	}, nil
}
