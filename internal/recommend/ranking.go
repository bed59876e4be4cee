// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package recommend

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Recommendation is a ranked item. Score is the clipped predicted rating for
// personalized results and the mean observed rating for popularity results.
type Recommendation struct {
	ItemID int64   `json:"item_id"`
	Score  float64 `json:"score"`
}

// SimilarItem is an item ranked by cosine similarity in factor space.
type SimilarItem struct {
	ItemID     int64   `json:"item_id"`
	Similarity float64 `json:"similarity"`
}

type scored struct {
	index int
	score float64
}

// Recommend ranks items for a user by predicted rating.
//
// Unknown users fall back to RecommendPopular. With excludeRated set, items
// the user has rated are dropped entirely, so fewer than topK results may
// come back. Ties are broken by item index ascending.
func (m *Model) Recommend(userID int64, topK int, excludeRated bool) []Recommendation {
	if topK <= 0 {
		return []Recommendation{}
	}
	u, ok := m.userIndex[userID]
	if !ok {
		return m.RecommendPopular(topK)
	}

	var predicted mat.VecDense
	predicted.MulVec(m.itemFactors, m.userFactors.RowView(u))

	rated := m.ratings.RawRowView(u)
	candidates := make([]scored, 0, len(m.itemIDs))
	for i := range m.itemIDs {
		if excludeRated && rated[i] != 0 {
			continue
		}
		candidates = append(candidates, scored{index: i, score: predicted.AtVec(i)})
	}

	top := topN(candidates, topK)
	out := make([]Recommendation, len(top))
	for n, c := range top {
		out[n] = Recommendation{ItemID: m.itemIDs[c.index], Score: m.clip(c.score)}
	}
	return out
}

// RecommendPopular returns the highest-rated items among those with at least
// the configured minimum number of ratings.
func (m *Model) RecommendPopular(topK int) []Recommendation {
	if topK <= 0 {
		return []Recommendation{}
	}
	n := min(topK, len(m.popular))
	out := make([]Recommendation, n)
	for k, idx := range m.popular[:n] {
		out[k] = Recommendation{ItemID: m.itemIDs[idx], Score: m.itemMeans[idx]}
	}
	return out
}

// PopularityCount returns how many ratings an item received, and whether the
// item is known.
func (m *Model) PopularityCount(itemID int64) (int, bool) {
	i, ok := m.itemIndex[itemID]
	if !ok {
		return 0, false
	}
	return m.itemCount[i], true
}

// SimilarItems returns the items whose factor vectors are closest to itemID
// by cosine similarity. The item itself is never included. An unknown item
// yields an empty result.
func (m *Model) SimilarItems(itemID int64, topK int) []SimilarItem {
	target, ok := m.itemIndex[itemID]
	if !ok || topK <= 0 {
		return []SimilarItem{}
	}

	candidates := make([]scored, 0, len(m.itemIDs))
	for i := range m.itemIDs {
		s := m.cosine(target, i)
		if i == target {
			s = -1
		}
		candidates = append(candidates, scored{index: i, score: s})
	}

	top := topN(candidates, topK+1)
	out := make([]SimilarItem, 0, topK)
	for _, c := range top {
		if c.index == target {
			continue
		}
		if len(out) == topK {
			break
		}
		out = append(out, SimilarItem{ItemID: m.itemIDs[c.index], Similarity: c.score})
	}
	return out
}

// cosine is the cosine similarity of two item factor rows, 0 when either
// has zero norm. Norms within zeroNormTolerance were snapped to 0 by derive.
func (m *Model) cosine(a, b int) float64 {
	na, nb := m.itemNorms[a], m.itemNorms[b]
	if na <= 0 || nb <= 0 {
		return 0
	}
	var dot float64
	ra, rb := m.itemFactors.RawRowView(a), m.itemFactors.RawRowView(b)
	for k := range ra {
		dot += ra[k] * rb[k]
	}
	return math.Max(-1, math.Min(1, dot/(na*nb)))
}

// topN sorts by score descending with index ascending on ties and keeps the
// first n.
func topN(c []scored, n int) []scored {
	slices.SortFunc(c, func(a, b scored) int {
		return compareDesc(a.score, b.score, a.index, b.index)
	})
	if len(c) > n {
		c = c[:n]
	}
	return c
}
