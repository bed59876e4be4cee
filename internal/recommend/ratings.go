// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package recommend

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Rating is a single (user, item, rating) observation.
type Rating struct {
	UserID int64   `json:"user_id"`
	ItemID int64   `json:"item_id"`
	Value  float64 `json:"rating"`
}

// RatingMatrix is the dense user x item table built from observations.
// A zero cell means "unrated"; ratings are always positive.
type RatingMatrix struct {
	// Values has one row per user and one column per item.
	Values *mat.Dense

	// UserIDs and ItemIDs are sorted ascending; position is the matrix index.
	UserIDs []int64
	ItemIDs []int64

	// GlobalMean is the mean over every raw observation.
	GlobalMean float64

	// Observations is the number of raw observations, duplicates included.
	Observations int

	userIndex map[int64]int
	itemIndex map[int64]int
}

type cellKey struct {
	user int
	item int
}

type cellAgg struct {
	sum   float64
	count int
}

// BuildMatrix turns observations into a RatingMatrix.
//
// Repeated (user, item) pairs are averaged. A non-positive or non-finite
// rating is rejected with ErrInvalidRating since zero marks an unrated cell.
func BuildMatrix(ratings []Rating) (*RatingMatrix, error) {
	if len(ratings) == 0 {
		return nil, ErrEmptyInput
	}

	var total float64
	users := make([]int64, 0, len(ratings))
	items := make([]int64, 0, len(ratings))
	for i, r := range ratings {
		if r.Value <= 0 || math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			return nil, fmt.Errorf("%w: observation %d (user %d, item %d) has rating %v",
				ErrInvalidRating, i, r.UserID, r.ItemID, r.Value)
		}
		total += r.Value
		users = append(users, r.UserID)
		items = append(items, r.ItemID)
	}

	userIDs := uniqueSorted(users)
	itemIDs := uniqueSorted(items)
	userIndex := indexOf(userIDs)
	itemIndex := indexOf(itemIDs)

	cells := make(map[cellKey]cellAgg, len(ratings))
	for _, r := range ratings {
		k := cellKey{user: userIndex[r.UserID], item: itemIndex[r.ItemID]}
		agg := cells[k]
		agg.sum += r.Value
		agg.count++
		cells[k] = agg
	}

	values := mat.NewDense(len(userIDs), len(itemIDs), nil)
	for k, agg := range cells {
		values.Set(k.user, k.item, agg.sum/float64(agg.count))
	}

	return &RatingMatrix{
		Values:       values,
		UserIDs:      userIDs,
		ItemIDs:      itemIDs,
		GlobalMean:   total / float64(len(ratings)),
		Observations: len(ratings),
		userIndex:    userIndex,
		itemIndex:    itemIndex,
	}, nil
}

// UserIndex returns the row of a user.
func (m *RatingMatrix) UserIndex(id int64) (int, bool) {
	idx, ok := m.userIndex[id]
	return idx, ok
}

// ItemIndex returns the column of an item.
func (m *RatingMatrix) ItemIndex(id int64) (int, bool) {
	idx, ok := m.itemIndex[id]
	return idx, ok
}

// Density is the fraction of cells holding a rating.
func (m *RatingMatrix) Density() float64 {
	rows, cols := m.Values.Dims()
	if rows == 0 || cols == 0 {
		return 0
	}
	var rated int
	for i := 0; i < rows; i++ {
		for _, v := range m.Values.RawRowView(i) {
			if v != 0 {
				rated++
			}
		}
	}
	return float64(rated) / float64(rows*cols)
}

func uniqueSorted(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func indexOf(ids []int64) map[int64]int {
	idx := make(map[int64]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}
