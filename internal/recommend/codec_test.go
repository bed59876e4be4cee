// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package recommend

import (
	"bytes"
	"encoding/gob"
	"reflect"
	"sync"
	"testing"
)

func TestModel_RoundTrip(t *testing.T) {
	ratings := syntheticRatings(20, 30, 0.35, 21)
	original := mustTrain(t, ratings, 4, WithMinPopularCount(3), WithRatingBounds(0.5, 5))

	data, err := original.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	restored, err := UnmarshalModel(data)
	if err != nil {
		t.Fatalf("UnmarshalModel() error = %v", err)
	}

	users := append(original.UserIDs(), -1)
	items := append(original.ItemIDs(), -1)
	for _, u := range users {
		for _, i := range items {
			if a, b := original.Predict(u, i), restored.Predict(u, i); a != b {
				t.Fatalf("Predict(%d, %d) = %v after restore, want %v", u, i, b, a)
			}
		}
		if !reflect.DeepEqual(original.Recommend(u, 7, true), restored.Recommend(u, 7, true)) {
			t.Errorf("Recommend(%d) differs after restore", u)
		}
	}
	for _, i := range items {
		if !reflect.DeepEqual(original.SimilarItems(i, 5), restored.SimilarItems(i, 5)) {
			t.Errorf("SimilarItems(%d) differs after restore", i)
		}
	}

	sa, sb := original.Stats(), restored.Stats()
	if !sa.TrainedAt.Equal(sb.TrainedAt) {
		t.Errorf("TrainedAt = %v after restore, want %v", sb.TrainedAt, sa.TrainedAt)
	}
	sa.TrainedAt, sb.TrainedAt = sa.TrainedAt.UTC(), sa.TrainedAt.UTC()
	if !reflect.DeepEqual(sa, sb) {
		t.Errorf("Stats() = %+v after restore, want %+v", sb, sa)
	}
	if !reflect.DeepEqual(original.SingularValues(), restored.SingularValues()) {
		t.Error("SingularValues() differ after restore")
	}
	lo, hi := restored.RatingBounds()
	if lo != 0.5 || hi != 5 {
		t.Errorf("RatingBounds() = (%v, %v), want (0.5, 5)", lo, hi)
	}
}

func TestModel_GobUsesBinaryMarshaler(t *testing.T) {
	original := mustTrain(t, scenarioRatings(), 2)

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(original); err != nil {
		t.Fatalf("gob Encode() error = %v", err)
	}
	restored := new(Model)
	if err := gob.NewDecoder(&buf).Decode(restored); err != nil {
		t.Fatalf("gob Decode() error = %v", err)
	}
	if got := restored.Predict(4, 10); got != 3.6 {
		t.Errorf("Predict(4, 10) = %v after gob round trip, want 3.6", got)
	}
}

func TestUnmarshalModel_Invalid(t *testing.T) {
	encode := func(s snapshot) []byte {
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(&s); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "garbage", data: []byte("not a model")},
		{name: "future format", data: encode(snapshot{FormatVersion: snapshotVersion + 1, Users: 1, Items: 1, Rank: 1})},
		{name: "empty shape", data: encode(snapshot{FormatVersion: snapshotVersion})},
		{
			name: "short rating matrix",
			data: encode(snapshot{
				FormatVersion: snapshotVersion, Users: 1, Items: 2, Rank: 1,
				UserIDs: []int64{1}, ItemIDs: []int64{1, 2}, Ratings: []float64{5},
				UserFactors: []float64{1}, ItemFactors: []float64{1, 1},
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalModel(tt.data); err == nil {
				t.Error("UnmarshalModel() error = nil, want error")
			}
		})
	}
}

func TestHolder_Swap(t *testing.T) {
	h := NewHolder()
	if h.Model() != nil || h.Version() != 0 || h.Current() != nil {
		t.Fatal("new Holder should be empty")
	}

	first := mustTrain(t, scenarioRatings(), 1)
	second := mustTrain(t, scenarioRatings(), 2)

	if prev := h.Swap(first, 1); prev != nil {
		t.Errorf("first Swap() returned %v, want nil", prev)
	}
	prev := h.Swap(second, 2)
	if prev == nil || prev.Model != first || prev.Version != 1 {
		t.Errorf("Swap() returned %+v, want first model at version 1", prev)
	}
	if h.Model() != second || h.Version() != 2 {
		t.Errorf("Holder = (%p, v%d), want second model at version 2", h.Model(), h.Version())
	}
}

func TestHolder_ConcurrentReaders(t *testing.T) {
	h := NewHolder()
	models := []*Model{
		mustTrain(t, scenarioRatings(), 1),
		mustTrain(t, scenarioRatings(), 2),
	}
	h.Swap(models[0], 1)

	var wg sync.WaitGroup
	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				m := h.Model()
				if got := m.Predict(4, 10); got != 3.6 {
					t.Errorf("Predict(4, 10) = %v during swaps, want 3.6", got)
					return
				}
			}
		}()
	}
	for i := 0; i < 100; i++ {
		h.Swap(models[i%2], i+2)
	}
	wg.Wait()
}
