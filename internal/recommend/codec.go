// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package recommend

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

// snapshotVersion is bumped whenever the persisted layout changes.
const snapshotVersion = 1

// snapshot is the persisted form of a Model. Matrices are stored row-major.
type snapshot struct {
	FormatVersion int

	Users int
	Items int
	Rank  int

	Ratings     []float64
	UserFactors []float64
	ItemFactors []float64
	UserIDs     []int64
	ItemIDs     []int64

	GlobalMean      float64
	MinRating       float64
	MaxRating       float64
	MinPopularCount int
	Observations    int

	SingularValues    []float64
	ExplainedVariance []float64
	TrainedAt         time.Time
}

// MarshalBinary encodes the model. Every matrix, identifier and scalar is
// preserved exactly.
func (m *Model) MarshalBinary() ([]byte, error) {
	s := snapshot{
		FormatVersion:     snapshotVersion,
		Users:             len(m.userIDs),
		Items:             len(m.itemIDs),
		Rank:              m.rank,
		Ratings:           rawData(m.ratings),
		UserFactors:       rawData(m.userFactors),
		ItemFactors:       rawData(m.itemFactors),
		UserIDs:           m.userIDs,
		ItemIDs:           m.itemIDs,
		GlobalMean:        m.globalMean,
		MinRating:         m.minRating,
		MaxRating:         m.maxRating,
		MinPopularCount:   m.minPopularCount,
		Observations:      m.observations,
		SingularValues:    m.singularValues,
		ExplainedVariance: m.explainedVariance,
		TrainedAt:         m.trainedAt,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&s); err != nil {
		return nil, fmt.Errorf("encode model snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary restores a model encoded by MarshalBinary. It is intended
// for decoding into a fresh Model only.
func (m *Model) UnmarshalBinary(data []byte) error {
	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("decode model snapshot: %w", err)
	}
	if s.FormatVersion != snapshotVersion {
		return fmt.Errorf("unsupported model format version %d", s.FormatVersion)
	}
	if err := s.check(); err != nil {
		return err
	}

	*m = Model{
		ratings:           mat.NewDense(s.Users, s.Items, s.Ratings),
		userIDs:           s.UserIDs,
		itemIDs:           s.ItemIDs,
		userFactors:       mat.NewDense(s.Users, s.Rank, s.UserFactors),
		itemFactors:       mat.NewDense(s.Items, s.Rank, s.ItemFactors),
		globalMean:        s.GlobalMean,
		rank:              s.Rank,
		minRating:         s.MinRating,
		maxRating:         s.MaxRating,
		minPopularCount:   s.MinPopularCount,
		observations:      s.Observations,
		singularValues:    s.SingularValues,
		explainedVariance: s.ExplainedVariance,
		trainedAt:         s.TrainedAt,
	}
	m.derive()
	return nil
}

// UnmarshalModel decodes a model produced by MarshalBinary.
func UnmarshalModel(data []byte) (*Model, error) {
	m := new(Model)
	if err := m.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *snapshot) check() error {
	switch {
	case s.Users < 1 || s.Items < 1:
		return fmt.Errorf("model snapshot has empty shape %dx%d", s.Users, s.Items)
	case s.Rank < 1 || s.Rank > min(s.Users, s.Items):
		return fmt.Errorf("%w: snapshot rank %d for shape %dx%d", ErrInvalidRank, s.Rank, s.Users, s.Items)
	case len(s.UserIDs) != s.Users || len(s.ItemIDs) != s.Items:
		return fmt.Errorf("model snapshot id lists do not match shape %dx%d", s.Users, s.Items)
	case len(s.Ratings) != s.Users*s.Items:
		return fmt.Errorf("model snapshot rating matrix has %d cells, want %d", len(s.Ratings), s.Users*s.Items)
	case len(s.UserFactors) != s.Users*s.Rank || len(s.ItemFactors) != s.Items*s.Rank:
		return fmt.Errorf("model snapshot factor matrices do not match rank %d", s.Rank)
	}
	return nil
}

// rawData copies a dense matrix into a packed row-major slice.
func rawData(d *mat.Dense) []float64 {
	rows, cols := d.Dims()
	out := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		out = append(out, d.RawRowView(i)...)
	}
	return out
}
