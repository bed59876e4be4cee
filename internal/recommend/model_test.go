// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package recommend

import (
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"
)

// scenarioRatings is the five-observation dataset used across tests:
//
//	user 1: item 10 = 5, item 20 = 3
//	user 2: item 10 = 4, item 20 = 5
//	user 3: item 10 = 1
func scenarioRatings() []Rating {
	return []Rating{
		{UserID: 1, ItemID: 10, Value: 5},
		{UserID: 1, ItemID: 20, Value: 3},
		{UserID: 2, ItemID: 10, Value: 4},
		{UserID: 2, ItemID: 20, Value: 5},
		{UserID: 3, ItemID: 10, Value: 1},
	}
}

// syntheticRatings generates a reproducible sparse dataset.
func syntheticRatings(users, items int, density float64, seed uint64) []Rating {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	var out []Rating
	for u := 1; u <= users; u++ {
		rated := false
		for i := 1; i <= items; i++ {
			if rng.Float64() < density || (!rated && i == items) {
				out = append(out, Rating{
					UserID: int64(u),
					ItemID: int64(i * 10),
					Value:  float64(1 + rng.IntN(5)),
				})
				rated = true
			}
		}
	}
	return out
}

func mustTrain(t *testing.T, ratings []Rating, k int, opts ...Option) *Model {
	t.Helper()
	m, err := Train(ratings, k, opts...)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return m
}

func TestTrain_Errors(t *testing.T) {
	tests := []struct {
		name    string
		ratings []Rating
		k       int
		opts    []Option
		wantErr error
	}{
		{name: "no observations", ratings: nil, k: 1, wantErr: ErrEmptyInput},
		{name: "rank zero", ratings: scenarioRatings(), k: 0, wantErr: ErrInvalidRank},
		{name: "rank above min dimension", ratings: scenarioRatings(), k: 3, wantErr: ErrInvalidRank},
		{
			name:    "zero rating collides with sentinel",
			ratings: []Rating{{UserID: 1, ItemID: 1, Value: 0}},
			k:       1,
			wantErr: ErrInvalidRating,
		},
		{
			name:    "NaN rating",
			ratings: []Rating{{UserID: 1, ItemID: 1, Value: math.NaN()}},
			k:       1,
			wantErr: ErrInvalidRating,
		},
		{
			name:    "inverted bounds",
			ratings: scenarioRatings(),
			k:       1,
			opts:    []Option{WithRatingBounds(5, 1)},
			wantErr: ErrInvalidBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Train(tt.ratings, tt.k, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Train() error = %v, want %v", err, tt.wantErr)
			}
			if m != nil {
				t.Error("Train() returned a model alongside an error")
			}
		})
	}
}

func TestScenario_Predict(t *testing.T) {
	for _, method := range []SVDMethod{SVDExact, SVDRandomized} {
		t.Run(string(method), func(t *testing.T) {
			opts := DefaultSVDOptions()
			opts.Method = method
			m := mustTrain(t, scenarioRatings(), 2, WithSVD(opts))

			if got := m.GlobalMean(); got != 3.6 {
				t.Errorf("GlobalMean() = %v, want 3.6", got)
			}
			if got := m.Predict(4, 10); got != 3.6 {
				t.Errorf("Predict(4, 10) = %v, want global mean 3.6", got)
			}

			// Full rank reproduces the observed ratings.
			if got := m.Predict(1, 20); math.Abs(got-3) > 1e-6 {
				t.Errorf("Predict(1, 20) = %v, want 3", got)
			}
			if got := m.Predict(2, 20); math.Abs(got-5) > 1e-6 {
				t.Errorf("Predict(2, 20) = %v, want 5", got)
			}

			// Reconstructed 0 for the unrated cell clips to the lower bound.
			if got := m.Predict(3, 20); got != 1 {
				t.Errorf("Predict(3, 20) = %v, want 1 (clipped)", got)
			}

			if got := m.Predict(1, 999); got != 4 {
				t.Errorf("Predict(1, 999) = %v, want user mean 4", got)
			}
			if got := m.Predict(3, 999); got != 1 {
				t.Errorf("Predict(3, 999) = %v, want user mean 1", got)
			}

			if got := m.Rank(); got != 2 {
				t.Errorf("Rank() = %d, want 2", got)
			}
			if ev := m.Stats().ExplainedVariance; math.Abs(ev-1) > 1e-9 {
				t.Errorf("ExplainedVariance = %v, want 1 at full rank", ev)
			}
		})
	}
}

func TestScenario_RecommendExcludesRated(t *testing.T) {
	m := mustTrain(t, scenarioRatings(), 2)

	recs := m.Recommend(1, 5, true)
	for _, r := range recs {
		if r.ItemID == 10 || r.ItemID == 20 {
			t.Errorf("Recommend(1) returned rated item %d", r.ItemID)
		}
	}
	if len(recs) != 0 {
		t.Errorf("len(Recommend(1)) = %d, want 0 since every item is rated", len(recs))
	}

	recs = m.Recommend(3, 5, true)
	if len(recs) != 1 || recs[0].ItemID != 20 {
		t.Fatalf("Recommend(3) = %+v, want only item 20", recs)
	}
	if recs[0].Score != 1 {
		t.Errorf("Recommend(3)[0].Score = %v, want 1 (clipped)", recs[0].Score)
	}

	recs = m.Recommend(1, 5, false)
	if len(recs) != 2 || recs[0].ItemID != 10 {
		t.Errorf("Recommend(1, include rated) = %+v, want item 10 first", recs)
	}
}

func TestScenario_SimilarItemsExcludesSelf(t *testing.T) {
	m := mustTrain(t, scenarioRatings(), 2)

	sims := m.SimilarItems(10, 3)
	for _, s := range sims {
		if s.ItemID == 10 {
			t.Error("SimilarItems(10) contains item 10")
		}
	}
	if len(sims) != 1 || sims[0].ItemID != 20 {
		t.Errorf("SimilarItems(10) = %+v, want [item 20]", sims)
	}

	if got := m.SimilarItems(999, 3); len(got) != 0 {
		t.Errorf("SimilarItems(unknown) = %+v, want empty", got)
	}
}

func TestSimilarItems_DegenerateFactorRow(t *testing.T) {
	// Item 30 shares no raters with 10 and 20, so a rank-1 model leaves its
	// factor row at zero (exact) or round-off magnitude (randomized).
	ratings := []Rating{
		{UserID: 1, ItemID: 10, Value: 5},
		{UserID: 2, ItemID: 10, Value: 5},
		{UserID: 1, ItemID: 20, Value: 5},
		{UserID: 2, ItemID: 20, Value: 5},
		{UserID: 3, ItemID: 30, Value: 1},
	}

	tests := []struct {
		name   string
		method SVDMethod
	}{
		{"exact", SVDExact},
		{"randomized", SVDRandomized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultSVDOptions()
			opts.Method = tt.method
			m := mustTrain(t, ratings, 1, WithSVD(opts), WithMinPopularCount(1))

			sims := m.SimilarItems(10, 5)
			got := make(map[int64]float64, len(sims))
			for _, s := range sims {
				got[s.ItemID] = s.Similarity
			}
			if s, ok := got[20]; !ok || s < 0.99 {
				t.Errorf("SimilarItems(10) = %+v, want item 20 near 1", sims)
			}
			if s, ok := got[30]; !ok || s != 0 {
				t.Errorf("SimilarItems(10) = %+v, want item 30 at 0", sims)
			}

			if s := m.SimilarItems(30, 5); len(s) != 2 || s[0].Similarity != 0 || s[1].Similarity != 0 {
				t.Errorf("SimilarItems(30) = %+v, want two items at 0", s)
			}

			exp, err := m.Explain(1, 30, -1)
			if err != nil {
				t.Fatalf("Explain() error = %v", err)
			}
			if len(exp.BasedOn) != 2 {
				t.Fatalf("Explain(1, 30) evidence = %+v, want items 10 and 20", exp.BasedOn)
			}
			for _, e := range exp.BasedOn {
				if e.Similarity != 0 {
					t.Errorf("Explain(1, 30) similarity to %d = %v, want 0", e.ItemID, e.Similarity)
				}
			}
		})
	}
}

func TestRecommendPopular(t *testing.T) {
	tests := []struct {
		name     string
		minCount int
		topK     int
		want     []Recommendation
	}{
		{name: "default threshold excludes everything", minCount: 10, topK: 5, want: []Recommendation{}},
		{
			name:     "threshold of one ranks by mean",
			minCount: 1,
			topK:     5,
			want:     []Recommendation{{ItemID: 20, Score: 4}, {ItemID: 10, Score: 10.0 / 3}},
		},
		{name: "threshold of three keeps item 10", minCount: 3, topK: 5, want: []Recommendation{{ItemID: 10, Score: 10.0 / 3}}},
		{name: "top k truncates", minCount: 1, topK: 1, want: []Recommendation{{ItemID: 20, Score: 4}}},
		{name: "non-positive top k", minCount: 1, topK: 0, want: []Recommendation{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustTrain(t, scenarioRatings(), 1, WithMinPopularCount(tt.minCount))
			got := m.RecommendPopular(tt.topK)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RecommendPopular(%d) = %+v, want %+v", tt.topK, got, tt.want)
			}
		})
	}
}

func TestRecommend_UnknownUserFallsBackToPopular(t *testing.T) {
	m := mustTrain(t, scenarioRatings(), 1, WithMinPopularCount(1))

	got := m.Recommend(42, 5, true)
	want := m.RecommendPopular(5)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recommend(unknown) = %+v, want popular %+v", got, want)
	}
}

func TestBuildMatrix_AveragesDuplicates(t *testing.T) {
	rm, err := BuildMatrix([]Rating{
		{UserID: 7, ItemID: 3, Value: 4},
		{UserID: 7, ItemID: 3, Value: 2},
		{UserID: 5, ItemID: 9, Value: 5},
	})
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}

	if !reflect.DeepEqual(rm.UserIDs, []int64{5, 7}) {
		t.Errorf("UserIDs = %v, want [5 7]", rm.UserIDs)
	}
	if !reflect.DeepEqual(rm.ItemIDs, []int64{3, 9}) {
		t.Errorf("ItemIDs = %v, want [3 9]", rm.ItemIDs)
	}

	u, _ := rm.UserIndex(7)
	i, _ := rm.ItemIndex(3)
	if got := rm.Values.At(u, i); got != 3 {
		t.Errorf("cell(7, 3) = %v, want averaged 3", got)
	}
	if got := rm.GlobalMean; math.Abs(got-11.0/3) > 1e-12 {
		t.Errorf("GlobalMean = %v, want mean of raw observations %v", got, 11.0/3)
	}
	if rm.Observations != 3 {
		t.Errorf("Observations = %d, want 3", rm.Observations)
	}
	if got := rm.Density(); got != 0.5 {
		t.Errorf("Density() = %v, want 0.5", got)
	}
}

func TestModel_Properties(t *testing.T) {
	ratings := syntheticRatings(30, 40, 0.3, 7)
	m := mustTrain(t, ratings, 5, WithMinPopularCount(5))
	lo, hi := m.RatingBounds()

	rated := make(map[[2]int64]bool, len(ratings))
	for _, r := range ratings {
		rated[[2]int64{r.UserID, r.ItemID}] = true
	}

	users := append(m.UserIDs(), 1000)
	items := append(m.ItemIDs(), 1000)

	for _, u := range users {
		for _, i := range items {
			if p := m.Predict(u, i); p < lo || p > hi {
				t.Fatalf("Predict(%d, %d) = %v outside [%v, %v]", u, i, p, lo, hi)
			}
		}

		recs := m.Recommend(u, 10, true)
		if len(recs) > 10 {
			t.Errorf("Recommend(%d) returned %d items, want <= 10", u, len(recs))
		}
		for n, r := range recs {
			if m.HasUser(u) && rated[[2]int64{u, r.ItemID}] {
				t.Errorf("Recommend(%d) returned rated item %d", u, r.ItemID)
			}
			if n > 0 && r.Score > recs[n-1].Score {
				t.Errorf("Recommend(%d) not ordered at %d: %v > %v", u, n, r.Score, recs[n-1].Score)
			}
		}
	}

	for _, i := range m.ItemIDs() {
		sims := m.SimilarItems(i, 5)
		if len(sims) > 5 {
			t.Errorf("SimilarItems(%d) returned %d items", i, len(sims))
		}
		for n, s := range sims {
			if s.ItemID == i {
				t.Errorf("SimilarItems(%d) contains itself", i)
			}
			if s.Similarity < -1 || s.Similarity > 1 {
				t.Errorf("SimilarItems(%d) similarity %v outside [-1, 1]", i, s.Similarity)
			}
			if n > 0 && s.Similarity > sims[n-1].Similarity {
				t.Errorf("SimilarItems(%d) not ordered at %d", i, n)
			}
		}
	}

	for _, r := range m.RecommendPopular(100) {
		if n, _ := m.PopularityCount(r.ItemID); n < 5 {
			t.Errorf("popular item %d has %d ratings, want >= 5", r.ItemID, n)
		}
	}
}

func TestModel_ExactAndRandomizedAgree(t *testing.T) {
	ratings := syntheticRatings(25, 30, 0.4, 11)

	exact := DefaultSVDOptions()
	exact.Method = SVDExact
	a := mustTrain(t, ratings, 4, WithSVD(exact))
	b := mustTrain(t, ratings, 4)

	sa, sb := a.SingularValues(), b.SingularValues()
	if rel := math.Abs(sa[0]-sb[0]) / sa[0]; rel > 1e-4 {
		t.Errorf("leading singular value differs: exact %v, randomized %v", sa[0], sb[0])
	}
	for j := 1; j < len(sa); j++ {
		if sa[j] > sa[j-1] || sb[j] > sb[j-1] {
			t.Errorf("singular values not descending at %d", j)
		}
	}
}

func TestModel_Deterministic(t *testing.T) {
	ratings := syntheticRatings(20, 25, 0.3, 3)
	a := mustTrain(t, ratings, 3)
	b := mustTrain(t, ratings, 3)

	for _, u := range a.UserIDs() {
		if !reflect.DeepEqual(a.Recommend(u, 5, true), b.Recommend(u, 5, true)) {
			t.Fatalf("Recommend(%d) differs between identical training runs", u)
		}
	}
	if !reflect.DeepEqual(a.ExplainedVariance(), b.ExplainedVariance()) {
		t.Error("ExplainedVariance differs between identical training runs")
	}
}

func TestModel_IDAccessorsAreCopies(t *testing.T) {
	m := mustTrain(t, scenarioRatings(), 1)
	ids := m.ItemIDs()
	ids[0] = -1
	if !m.HasItem(10) || m.ItemIDs()[0] != 10 {
		t.Error("mutating ItemIDs() result changed the model")
	}
}

func TestTopN_TieBreakByIndex(t *testing.T) {
	c := []scored{{index: 3, score: 2}, {index: 1, score: 2}, {index: 2, score: 5}, {index: 0, score: 2}}
	got := topN(c, 3)
	want := []scored{{index: 2, score: 5}, {index: 0, score: 2}, {index: 1, score: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("topN() = %+v, want %+v", got, want)
	}
}
