// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

// Package recommend implements a latent-factor movie recommender based on a
// truncated singular value decomposition of the user x item rating matrix.
//
// # Pipeline
//
// Training is a single batch pass:
//
//	ratings -> BuildMatrix -> TruncatedSVD -> *Model
//
// BuildMatrix produces a dense matrix in which zero marks an unrated cell.
// Users and items are indexed in ascending identifier order and looked up
// through hash maps. Repeated (user, item) observations are averaged.
//
// TruncatedSVD keeps the top k singular triplets. The user factors are
// U·Σ and the item factors are V, so a predicted rating is the dot product
// of a user row and an item row.
//
// # Inference
//
// A *Model is immutable and safe for concurrent readers:
//
//   - Predict: dot product clipped to the rating bounds. Unknown users get
//     the global mean; unknown items get the user's own mean.
//   - Recommend: all items scored in one pass, optionally excluding rated
//     items, ordered by score then item index.
//   - RecommendPopular: mean rating among items with enough ratings.
//   - SimilarItems: cosine similarity between item factor rows.
//   - Explain: liked items most similar to a recommendation.
//
// Inference never fails for unknown identifiers; it falls back instead.
//
// # Retraining
//
// Engine loads ratings from a DataProvider, trains, persists the model to a
// storage.Store and publishes it through a Holder. The Holder swaps the
// model pointer atomically so in-flight requests keep the model they started
// with.
//
// # Usage
//
//	model, err := recommend.Train(ratings, 50)
//	if err != nil {
//	    return err
//	}
//	recs := model.Recommend(userID, 10, true)
package recommend
