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
	"github.com/juju/errors"

	"github.com/hybrec-io/hybrec/base"
	"github.com/hybrec-io/hybrec/dataset"
	"github.com/hybrec-io/hybrec/similarity"
)

// CollaborativeFiltering predicts ratings from neighbor ratings weighted by
// similarity. Predictions are not clamped to the rating range; clamping is a
// caller policy.
type CollaborativeFiltering struct {
	snapshot     *dataset.Snapshot
	engine       *similarity.Engine
	numNeighbors int
}

// NewCollaborativeFiltering creates a collaborative filtering predictor over a
// snapshot. numNeighbors bounds the neighborhood size.
func NewCollaborativeFiltering(snapshot *dataset.Snapshot, engine *similarity.Engine, numNeighbors int) *CollaborativeFiltering {
	return &CollaborativeFiltering{
		snapshot:     snapshot,
		engine:       engine,
		numNeighbors: numNeighbors,
	}
}

// Predict the rating of a user on an item. Unknown identifiers yield a not
// found error, while known but cold entities fall back to mean ratings.
func (cf *CollaborativeFiltering) Predict(userId, itemId string, variant Variant) (Prediction, error) {
	user, err := cf.snapshot.UserId(userId)
	if err != nil {
		return Prediction{}, errors.Trace(err)
	}
	item, err := cf.snapshot.ItemId(itemId)
	if err != nil {
		return Prediction{}, errors.Trace(err)
	}
	return Prediction{
		UserId: userId,
		ItemId: itemId,
		Score:  cf.predict(user, item, variant),
		Source: Collaborative,
	}, nil
}

type neighbor struct {
	rating float64
	mean   float64
}

func (cf *CollaborativeFiltering) predict(user, item int, variant Variant) float64 {
	matrix := cf.snapshot.Matrix()
	// A user without ratings is predicted by the global mean.
	if matrix.UserRatings(user).Len() == 0 {
		return matrix.GlobalMean()
	}
	switch variant {
	case ItemBased:
		return cf.itemBased(user, item)
	default:
		return cf.userBased(user, item)
	}
}

// userBased predicts from the ratings of the most similar users who rated the
// item:
//
//	r(u, i) = mean(u) + sum_v sim(u, v) * (r(v, i) - mean(v)) / sum_v sim(u, v)
func (cf *CollaborativeFiltering) userBased(user, item int) float64 {
	matrix := cf.snapshot.Matrix()
	// Select the top-N positive-similarity neighbors who rated the item.
	neighbors := base.NewMaxHeap[neighbor](cf.numNeighbors)
	matrix.ItemRatings(item).ForEach(func(_, other int, rating float64) {
		if other == user {
			return
		}
		if sim := cf.engine.UserSimilarity(user, other); sim > 0 {
			neighbors.Add(neighbor{rating: rating, mean: matrix.UserMean(other)}, sim)
		}
	})
	if neighbors.Len() == 0 {
		return matrix.UserMean(user)
	}
	weightSum, weightRating := 0.0, 0.0
	elems, sims := neighbors.ToSorted()
	for i, elem := range elems {
		weightSum += sims[i]
		weightRating += sims[i] * (elem.rating - elem.mean)
	}
	return matrix.UserMean(user) + weightRating/weightSum
}

// itemBased is the symmetric construction: predict from the target user's
// ratings on the items most similar to the target item.
func (cf *CollaborativeFiltering) itemBased(user, item int) float64 {
	matrix := cf.snapshot.Matrix()
	neighbors := base.NewMaxHeap[neighbor](cf.numNeighbors)
	matrix.UserRatings(user).ForEach(func(_, other int, rating float64) {
		if other == item {
			return
		}
		if sim := cf.engine.ItemSimilarity(item, other); sim > 0 {
			neighbors.Add(neighbor{rating: rating, mean: matrix.ItemMean(other)}, sim)
		}
	})
	if neighbors.Len() == 0 {
		// A cold item has no mean of its own.
		if matrix.ItemRatings(item).Len() == 0 {
			return matrix.UserMean(user)
		}
		return matrix.ItemMean(item)
	}
	weightSum, weightRating := 0.0, 0.0
	elems, sims := neighbors.ToSorted()
	for i, elem := range elems {
		weightSum += sims[i]
		weightRating += sims[i] * (elem.rating - elem.mean)
	}
	return matrix.ItemMean(item) + weightRating/weightSum
}
