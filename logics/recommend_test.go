// Copyright 2025 hybrec Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logics

import (
	"testing"

	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hybrec-io/hybrec/config"
	"github.com/hybrec-io/hybrec/dataset"
	"github.com/hybrec-io/hybrec/similarity"
)

func newRecommendConfig() config.RecommendConfig {
	return config.RecommendConfig{
		SimilarityMetric: "cosine",
		NumNeighbors:     20,
		Alpha:            0.5,
		Variant:          "user-based",
		NumWorkers:       2,
	}
}

func newRecommender(t *testing.T, cfg config.RecommendConfig) *Recommender {
	snapshot, err := dataset.BuildSnapshot([]dataset.Rating{
		{UserId: "u0", ItemId: "base", Value: 5},
		{UserId: "u1", ItemId: "base", Value: 5},
		{UserId: "u1", ItemId: "x", Value: 5},
		{UserId: "u1", ItemId: "y", Value: 1},
	}, nil, []dataset.Item{
		{ItemId: "base", Features: dataset.FeatureVector{"action": 1}},
		{ItemId: "x", Features: dataset.FeatureVector{"drama": 1}},
		{ItemId: "y", Features: dataset.FeatureVector{"action": 1}},
	}, 1, 5)
	require.NoError(t, err)
	recommender, err := NewRecommender(snapshot, cfg)
	require.NoError(t, err)
	return recommender
}

func TestRecommend(t *testing.T) {
	recommender := newRecommender(t, newRecommendConfig())
	recommendations, err := recommender.Recommend("u0", 10)
	assert.NoError(t, err)
	// Rated items never reappear.
	itemIds := lo.Map(recommendations, func(r Recommendation, _ int) string { return r.ItemId })
	assert.NotContains(t, itemIds, "base")
	assert.ElementsMatch(t, []string{"x", "y"}, itemIds)
	// Scores are sorted in descending order.
	for i := 1; i < len(recommendations); i++ {
		assert.GreaterOrEqual(t, recommendations[i-1].Score, recommendations[i].Score)
	}
	// Truncation.
	recommendations, err = recommender.Recommend("u0", 1)
	assert.NoError(t, err)
	assert.Len(t, recommendations, 1)
}

func TestRecommendAlphaExtremes(t *testing.T) {
	// The collaborative signal prefers x, the content signal prefers y: u1
	// rates like u0 and loved x, while only y shares features with u0's
	// history.
	cfg := newRecommendConfig()
	cfg.Alpha = 1
	recommender := newRecommender(t, cfg)
	recommendations, err := recommender.Recommend("u0", 2)
	assert.NoError(t, err)
	require.Len(t, recommendations, 2)
	assert.Equal(t, "x", recommendations[0].ItemId)
	assert.Equal(t, "y", recommendations[1].ItemId)

	cfg.Alpha = 0
	recommender = newRecommender(t, cfg)
	recommendations, err = recommender.Recommend("u0", 2)
	assert.NoError(t, err)
	require.Len(t, recommendations, 2)
	assert.Equal(t, "y", recommendations[0].ItemId)
	assert.Equal(t, "x", recommendations[1].ItemId)
}

func TestRecommendTieBreak(t *testing.T) {
	snapshot, err := dataset.BuildSnapshot([]dataset.Rating{
		{UserId: "u0", ItemId: "rated", Value: 5},
	}, nil, []dataset.Item{
		{ItemId: "rated", Features: dataset.FeatureVector{"action": 1}},
		{ItemId: "b", Features: dataset.FeatureVector{"action": 1}},
		{ItemId: "a", Features: dataset.FeatureVector{"action": 1}},
	}, 1, 5)
	require.NoError(t, err)
	recommender, err := NewRecommender(snapshot, newRecommendConfig())
	require.NoError(t, err)
	// Identical scores are ordered by item id for reproducible output.
	recommendations, err := recommender.Recommend("u0", 10)
	assert.NoError(t, err)
	require.Len(t, recommendations, 2)
	assert.Equal(t, "a", recommendations[0].ItemId)
	assert.Equal(t, "b", recommendations[1].ItemId)
	assert.Equal(t, recommendations[0].Score, recommendations[1].Score)
}

func TestRecommendEmptySnapshot(t *testing.T) {
	snapshot, err := dataset.BuildSnapshot(nil, nil, nil, 1, 5)
	require.NoError(t, err)
	recommender, err := NewRecommender(snapshot, newRecommendConfig())
	require.NoError(t, err)
	recommendations, err := recommender.Recommend("anyone", 10)
	assert.NoError(t, err)
	assert.Empty(t, recommendations)
}

func TestRecommendColdUser(t *testing.T) {
	snapshot, err := dataset.BuildSnapshot([]dataset.Rating{
		{UserId: "u0", ItemId: "i0", Value: 5},
		{UserId: "u0", ItemId: "i1", Value: 3},
	}, []dataset.User{{UserId: "cold"}}, nil, 1, 5)
	require.NoError(t, err)
	recommender, err := NewRecommender(snapshot, newRecommendConfig())
	require.NoError(t, err)
	// A registered user without ratings can still be served: every item is a
	// candidate.
	recommendations, err := recommender.Recommend("cold", 10)
	assert.NoError(t, err)
	itemIds := lo.Map(recommendations, func(r Recommendation, _ int) string { return r.ItemId })
	assert.ElementsMatch(t, []string{"i0", "i1"}, itemIds)
}

func TestRecommendUnknownUser(t *testing.T) {
	recommender := newRecommender(t, newRecommendConfig())
	_, err := recommender.Recommend("unknown", 10)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestPredictSources(t *testing.T) {
	recommender := newRecommender(t, newRecommendConfig())
	for _, source := range []Source{Collaborative, Content, Hybrid} {
		prediction, err := recommender.Predict("u0", "x", source)
		assert.NoError(t, err)
		assert.Equal(t, source, prediction.Source)
		assert.Equal(t, "u0", prediction.UserId)
		assert.Equal(t, "x", prediction.ItemId)
	}
	// The hybrid score of a rated item is still defined.
	prediction, err := recommender.Predict("u1", "x", Hybrid)
	assert.NoError(t, err)
	assert.Equal(t, Hybrid, prediction.Source)
}

func TestNeighbors(t *testing.T) {
	recommender := newRecommender(t, newRecommendConfig())
	// By content, only y shares a feature with base.
	neighbors, err := recommender.Neighbors("base", 10, similarity.ItemContent)
	assert.NoError(t, err)
	require.Len(t, neighbors, 1)
	assert.Equal(t, "y", neighbors[0].ItemId)
	assert.InDelta(t, 1.0, neighbors[0].Score, 1e-8)

	_, err = recommender.Neighbors("unknown", 10, similarity.ItemItem)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestPrecomputedRecommend(t *testing.T) {
	cfg := newRecommendConfig()
	lazy := newRecommender(t, cfg)
	cfg.Precompute = true
	eager := newRecommender(t, cfg)
	expected, err := lazy.Recommend("u0", 10)
	assert.NoError(t, err)
	actual, err := eager.Recommend("u0", 10)
	assert.NoError(t, err)
	assert.Equal(t, expected, actual)
}
