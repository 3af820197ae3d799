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

package dataset

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

// FeatureVector maps feature keys to non-negative weights.
type FeatureVector map[string]float64

// Dot returns the dot product of two feature vectors.
func (v FeatureVector) Dot(other FeatureVector) float64 {
	// Iterate over the smaller vector.
	if len(other) < len(v) {
		v, other = other, v
	}
	sum := 0.0
	for key, weight := range v {
		if otherWeight, ok := other[key]; ok {
			sum += weight * otherWeight
		}
	}
	return sum
}

// Norm returns the Euclidean norm of the feature vector.
func (v FeatureVector) Norm() float64 {
	sum := 0.0
	for _, weight := range v {
		sum += weight * weight
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity between two feature vectors. The
// similarity with an all-zero vector is zero.
func (v FeatureVector) Cosine(other FeatureVector) float64 {
	normA := v.Norm()
	normB := other.Norm()
	if normA == 0 || normB == 0 {
		return 0
	}
	return v.Dot(other) / (normA * normB)
}

// Keys returns feature keys in ascending order.
func (v FeatureVector) Keys() []string {
	keys := lo.Keys(v)
	sort.Strings(keys)
	return keys
}

// ItemFeatures holds the content feature vector of each item, addressed by
// dense item index. Items without content carry a nil vector.
type ItemFeatures struct {
	features []FeatureVector
}

// NewItemFeatures creates ItemFeatures for a fixed number of items.
func NewItemFeatures(itemCount int) *ItemFeatures {
	return &ItemFeatures{features: make([]FeatureVector, itemCount)}
}

// Set the feature vector of an item.
func (f *ItemFeatures) Set(itemId int, vector FeatureVector) {
	f.features[itemId] = vector
}

// Get the feature vector of an item. Nil means the item has no content.
func (f *ItemFeatures) Get(itemId int) FeatureVector {
	return f.features[itemId]
}

// UserProfile builds the profile vector of a user by aggregating the feature
// vectors of rated items, each weighted by the rating scaled onto [0, 1].
// Items rated at the bottom of the range contribute nothing. The profile is
// derived from the matrices on every call and never cached.
func UserProfile(matrix *RatingMatrix, features *ItemFeatures, userId int, minRating, maxRating float64) FeatureVector {
	profile := make(FeatureVector)
	totalWeight := 0.0
	matrix.UserRatings(userId).ForEach(func(_, itemId int, value float64) {
		weight := (value - minRating) / (maxRating - minRating)
		if weight <= 0 {
			return
		}
		itemVector := features.Get(itemId)
		if itemVector == nil {
			return
		}
		totalWeight += weight
		for key, featureWeight := range itemVector {
			profile[key] += featureWeight * weight
		}
	})
	if totalWeight > 0 {
		for key := range profile {
			profile[key] /= totalWeight
		}
	}
	return profile
}
