// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package recommend

import (
	"fmt"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// zeroNormTolerance is the factor norm, relative to the largest item norm,
// at or below which an item vector counts as zero. Randomized SVD leaves
// rows with no shared structure at round-off magnitude instead of exact 0.
const zeroNormTolerance = 10 * 2.220446049250313e-16

// Model is a trained latent-factor recommender. It is immutable once Train
// returns and safe for concurrent use by any number of readers.
type Model struct {
	ratings     *mat.Dense
	userIDs     []int64
	itemIDs     []int64
	userIndex   map[int64]int
	itemIndex   map[int64]int
	userFactors *mat.Dense
	itemFactors *mat.Dense

	globalMean      float64
	rank            int
	minRating       float64
	maxRating       float64
	minPopularCount int
	observations    int

	singularValues    []float64
	explainedVariance []float64
	trainedAt         time.Time

	// Derived at construction, never persisted.
	userMeans []float64
	itemMeans []float64
	itemCount []int
	itemNorms []float64
	popular   []int
}

// Stats summarizes a model for diagnostics.
type Stats struct {
	Users             int       `json:"users"`
	Items             int       `json:"items"`
	Rank              int       `json:"rank"`
	Observations      int       `json:"observations"`
	GlobalMean        float64   `json:"global_mean"`
	ExplainedVariance float64   `json:"explained_variance"`
	Density           float64   `json:"density"`
	TrainedAt         time.Time `json:"trained_at"`
}

// Train builds a rank-k model from rating observations.
func Train(ratings []Rating, k int, opts ...Option) (*Model, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MinRating >= o.MaxRating {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrInvalidBounds, o.MinRating, o.MaxRating)
	}

	rm, err := BuildMatrix(ratings)
	if err != nil {
		return nil, err
	}

	f, err := TruncatedSVD(rm.Values, k, o.SVD)
	if err != nil {
		return nil, err
	}

	m := &Model{
		ratings:           rm.Values,
		userIDs:           rm.UserIDs,
		itemIDs:           rm.ItemIDs,
		userIndex:         rm.userIndex,
		itemIndex:         rm.itemIndex,
		userFactors:       f.UserFactors,
		itemFactors:       f.ItemFactors,
		globalMean:        rm.GlobalMean,
		rank:              k,
		minRating:         o.MinRating,
		maxRating:         o.MaxRating,
		minPopularCount:   o.MinPopularCount,
		observations:      rm.Observations,
		singularValues:    f.SingularValues,
		explainedVariance: f.ExplainedVarianceRatio,
		trainedAt:         time.Now().UTC(),
	}
	m.derive()
	return m, nil
}

// derive computes the per-user and per-item aggregates that inference reads.
func (m *Model) derive() {
	users, items := m.ratings.Dims()

	if m.userIndex == nil {
		m.userIndex = indexOf(m.userIDs)
	}
	if m.itemIndex == nil {
		m.itemIndex = indexOf(m.itemIDs)
	}

	m.userMeans = make([]float64, users)
	itemSum := make([]float64, items)
	m.itemCount = make([]int, items)
	for u := 0; u < users; u++ {
		var sum float64
		var n int
		for i, v := range m.ratings.RawRowView(u) {
			if v == 0 {
				continue
			}
			sum += v
			n++
			itemSum[i] += v
			m.itemCount[i]++
		}
		if n == 0 {
			m.userMeans[u] = math.NaN()
		} else {
			m.userMeans[u] = sum / float64(n)
		}
	}

	m.itemMeans = make([]float64, items)
	m.itemNorms = make([]float64, items)
	m.popular = m.popular[:0]
	maxNorm := 1.0
	for i := 0; i < items; i++ {
		if m.itemCount[i] > 0 {
			m.itemMeans[i] = itemSum[i] / float64(m.itemCount[i])
		}
		m.itemNorms[i] = floats.Norm(m.itemFactors.RawRowView(i), 2)
		maxNorm = math.Max(maxNorm, m.itemNorms[i])
		if m.itemCount[i] > 0 && m.itemCount[i] >= m.minPopularCount {
			m.popular = append(m.popular, i)
		}
	}
	slices.SortStableFunc(m.popular, func(a, b int) int {
		return compareDesc(m.itemMeans[a], m.itemMeans[b], a, b)
	})

	tol := zeroNormTolerance * maxNorm
	for i, n := range m.itemNorms {
		if n <= tol {
			m.itemNorms[i] = 0
		}
	}
}

// Predict returns the predicted rating of item by user, clipped to the
// model's rating bounds. Unknown users get the global mean; unknown items
// get the user's own mean rating.
func (m *Model) Predict(userID, itemID int64) float64 {
	u, ok := m.userIndex[userID]
	if !ok {
		return m.clip(m.globalMean)
	}
	i, ok := m.itemIndex[itemID]
	if !ok {
		if mean := m.userMeans[u]; !math.IsNaN(mean) {
			return m.clip(mean)
		}
		return m.clip(m.globalMean)
	}
	return m.clip(m.score(u, i))
}

func (m *Model) score(u, i int) float64 {
	return floats.Dot(m.userFactors.RawRowView(u), m.itemFactors.RawRowView(i))
}

func (m *Model) clip(v float64) float64 {
	return math.Min(math.Max(v, m.minRating), m.maxRating)
}

// UserIDs returns the known user identifiers in index order.
func (m *Model) UserIDs() []int64 { return slices.Clone(m.userIDs) }

// ItemIDs returns the known item identifiers in index order.
func (m *Model) ItemIDs() []int64 { return slices.Clone(m.itemIDs) }

// HasUser reports whether the user was present in the training data.
func (m *Model) HasUser(id int64) bool {
	_, ok := m.userIndex[id]
	return ok
}

// HasItem reports whether the item was present in the training data.
func (m *Model) HasItem(id int64) bool {
	_, ok := m.itemIndex[id]
	return ok
}

// NumUsers returns the number of users in the model.
func (m *Model) NumUsers() int { return len(m.userIDs) }

// NumItems returns the number of items in the model.
func (m *Model) NumItems() int { return len(m.itemIDs) }

// GlobalMean returns the mean of all training observations.
func (m *Model) GlobalMean() float64 { return m.globalMean }

// Rank returns the latent dimension k.
func (m *Model) Rank() int { return m.rank }

// RatingBounds returns the clip range applied to predictions.
func (m *Model) RatingBounds() (lo, hi float64) { return m.minRating, m.maxRating }

// ExplainedVariance returns the per-component explained variance ratio.
func (m *Model) ExplainedVariance() []float64 { return slices.Clone(m.explainedVariance) }

// SingularValues returns the retained singular values, descending.
func (m *Model) SingularValues() []float64 { return slices.Clone(m.singularValues) }

// TrainedAt returns when the model was trained.
func (m *Model) TrainedAt() time.Time { return m.trainedAt }

// UserRating returns the user's observed rating of an item, or 0 when the
// pair is unknown or unrated.
func (m *Model) UserRating(userID, itemID int64) float64 {
	u, ok := m.userIndex[userID]
	if !ok {
		return 0
	}
	i, ok := m.itemIndex[itemID]
	if !ok {
		return 0
	}
	return m.ratings.At(u, i)
}

// Stats summarizes the model.
func (m *Model) Stats() Stats {
	var rated int
	for _, c := range m.itemCount {
		rated += c
	}
	var density float64
	if cells := len(m.userIDs) * len(m.itemIDs); cells > 0 {
		density = float64(rated) / float64(cells)
	}
	return Stats{
		Users:             len(m.userIDs),
		Items:             len(m.itemIDs),
		Rank:              m.rank,
		Observations:      m.observations,
		GlobalMean:        m.globalMean,
		ExplainedVariance: floats.Sum(m.explainedVariance),
		Density:           density,
		TrainedAt:         m.trainedAt,
	}
}

// compareDesc orders by value descending, then index ascending.
func compareDesc(va, vb float64, ia, ib int) int {
	switch {
	case va > vb:
		return -1
	case va < vb:
		return 1
	case ia < ib:
		return -1
	case ia > ib:
		return 1
	default:
		return 0
	}
}
