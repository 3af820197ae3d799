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
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"

	"github.com/hybrec-io/hybrec/base"
	"github.com/hybrec-io/hybrec/config"
	"github.com/hybrec-io/hybrec/dataset"
	"github.com/hybrec-io/hybrec/similarity"
)

// Recommender bundles the predictors over one snapshot. It is safe for
// concurrent use: the snapshot is immutable and the similarity caches are
// internally synchronized. Replacing data means building a new snapshot and a
// new recommender; in-flight queries finish against the old one.
type Recommender struct {
	snapshot      *dataset.Snapshot
	engine        *similarity.Engine
	collaborative *CollaborativeFiltering
	content       *ContentBased
	blender       *Blender
	variant       Variant
}

// NewRecommender creates a recommender over a snapshot with the given
// parameters. When cfg.Precompute is set, the pairwise similarity matrix of
// the configured variant is computed eagerly in parallel.
func NewRecommender(snapshot *dataset.Snapshot, cfg config.RecommendConfig) (*Recommender, error) {
	var metric similarity.Func
	switch cfg.SimilarityMetric {
	case "cosine":
		metric = similarity.Cosine
	case "pearson":
		metric = similarity.Pearson
	case "msd":
		metric = similarity.MSD
	default:
		return nil, errors.Errorf("unknown similarity metric %q", cfg.SimilarityMetric)
	}
	var variant Variant
	switch cfg.Variant {
	case "user-based":
		variant = UserBased
	case "item-based":
		variant = ItemBased
	default:
		return nil, errors.Errorf("unknown variant %q", cfg.Variant)
	}
	engine := similarity.NewEngine(snapshot, metric)
	if cfg.Precompute {
		kind := similarity.UserUser
		if variant == ItemBased {
			kind = similarity.ItemItem
		}
		if err := engine.Precompute(kind, cfg.NumWorkers); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return &Recommender{
		snapshot:      snapshot,
		engine:        engine,
		collaborative: NewCollaborativeFiltering(snapshot, engine, cfg.NumNeighbors),
		content:       NewContentBased(snapshot),
		blender:       NewBlender(cfg.Alpha),
		variant:       variant,
	}, nil
}

// Snapshot returns the snapshot the recommender is bound to.
func (r *Recommender) Snapshot() *dataset.Snapshot { return r.snapshot }

// Engine returns the similarity engine of this recommender.
func (r *Recommender) Engine() *similarity.Engine { return r.engine }

// Content returns the content-based predictor of this recommender.
func (r *Recommender) Content() *ContentBased { return r.content }

// Predict scores a (user, item) pair with the requested signal. Unknown
// identifiers yield a not found error.
func (r *Recommender) Predict(userId, itemId string, source Source) (Prediction, error) {
	switch source {
	case Collaborative:
		return r.collaborative.Predict(userId, itemId, r.variant)
	case Content:
		return r.content.Predict(userId, itemId)
	case Hybrid:
		return r.hybridPredict(userId, itemId)
	default:
		return Prediction{}, errors.Errorf("unknown prediction source %v", source)
	}
}

// Recommend returns the top-k unrated items for a user, scored by the hybrid
// blend. The list is sorted by score in descending order with ties broken by
// item id so that output is reproducible on identical input. Fewer than k
// items are returned if fewer candidates exist.
func (r *Recommender) Recommend(userId string, k int) ([]Recommendation, error) {
	// An empty snapshot has no candidates for anyone.
	if r.snapshot.Matrix().CountItems() == 0 {
		return []Recommendation{}, nil
	}
	user, err := r.snapshot.UserId(userId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	candidates := r.candidates(user)
	scores := r.scoreCandidates(user, candidates)
	recommendations := make([]Recommendation, 0, len(candidates))
	for i, item := range candidates {
		itemId, _ := r.snapshot.Matrix().ItemIndex().String(item)
		recommendations = append(recommendations, Recommendation{ItemId: itemId, Score: scores[i]})
	}
	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].Score != recommendations[j].Score {
			return recommendations[i].Score > recommendations[j].Score
		}
		return recommendations[i].ItemId < recommendations[j].ItemId
	})
	if len(recommendations) > k {
		recommendations = recommendations[:k]
	}
	return recommendations, nil
}

// Neighbors returns the top-n most similar items to an item, by rating
// co-occurrence or by content depending on the kind.
func (r *Recommender) Neighbors(itemId string, n int, kind similarity.Kind) ([]Recommendation, error) {
	item, err := r.snapshot.ItemId(itemId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	neighbors := base.NewMaxHeap[int](n)
	for other := 0; other < r.snapshot.Matrix().CountItems(); other++ {
		if other == item {
			continue
		}
		var score float64
		if kind == similarity.ItemContent {
			score = r.engine.ContentSimilarity(item, other)
		} else {
			score = r.engine.ItemSimilarity(item, other)
		}
		if score > 0 {
			neighbors.Add(other, score)
		}
	}
	elems, scores := neighbors.ToSorted()
	result := make([]Recommendation, 0, len(elems))
	for i, elem := range elems {
		neighborId, _ := r.snapshot.Matrix().ItemIndex().String(elem)
		result = append(result, Recommendation{ItemId: neighborId, Score: scores[i]})
	}
	return result, nil
}

// candidates returns all items the user has not rated, in index order.
func (r *Recommender) candidates(user int) []int {
	matrix := r.snapshot.Matrix()
	rated := mapset.NewThreadUnsafeSet[int]()
	matrix.UserRatings(user).ForEach(func(_, item int, _ float64) {
		rated.Add(item)
	})
	candidates := make([]int, 0, matrix.CountItems()-rated.Cardinality())
	for item := 0; item < matrix.CountItems(); item++ {
		if !rated.Contains(item) {
			candidates = append(candidates, item)
		}
	}
	return candidates
}

// scoreCandidates computes blended scores for a candidate set. The profile
// vector is derived once per request.
func (r *Recommender) scoreCandidates(user int, candidates []int) []float64 {
	profile := r.snapshot.UserProfile(user)
	collaborative := make([]float64, len(candidates))
	content := make([]float64, len(candidates))
	for i, item := range candidates {
		collaborative[i] = r.collaborative.predict(user, item, r.variant)
		content[i] = r.content.predict(profile, item)
	}
	return r.blender.Blend(collaborative, content)
}

func (r *Recommender) hybridPredict(userId, itemId string) (Prediction, error) {
	user, err := r.snapshot.UserId(userId)
	if err != nil {
		return Prediction{}, errors.Trace(err)
	}
	item, err := r.snapshot.ItemId(itemId)
	if err != nil {
		return Prediction{}, errors.Trace(err)
	}
	// Normalization requires a candidate set. Score the target along the
	// user's unrated items.
	candidates := r.candidates(user)
	target := -1
	for i, candidate := range candidates {
		if candidate == item {
			target = i
			break
		}
	}
	if target == -1 {
		candidates = append(candidates, item)
		target = len(candidates) - 1
	}
	scores := r.scoreCandidates(user, candidates)
	return Prediction{
		UserId: userId,
		ItemId: itemId,
		Score:  scores[target],
		Source: Hybrid,
	}, nil
}
