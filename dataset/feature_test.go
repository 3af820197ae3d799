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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeatureVector(t *testing.T) {
	a := FeatureVector{"action": 1, "comedy": 2}
	b := FeatureVector{"comedy": 3, "drama": 4}
	assert.Equal(t, 6.0, a.Dot(b))
	assert.Equal(t, 6.0, b.Dot(a))
	assert.InDelta(t, math.Sqrt(5), a.Norm(), 1e-8)
	assert.Equal(t, []string{"action", "comedy"}, a.Keys())
}

func TestFeatureVectorCosine(t *testing.T) {
	a := FeatureVector{"x": 1, "y": 1}
	assert.InDelta(t, 1.0, a.Cosine(FeatureVector{"x": 2, "y": 2}), 1e-8)
	assert.Zero(t, a.Cosine(FeatureVector{"z": 1}))
	// All-zero or empty vectors are similar to nothing.
	assert.Zero(t, a.Cosine(FeatureVector{}))
	assert.Zero(t, a.Cosine(nil))
	assert.Zero(t, FeatureVector(nil).Cosine(a))
}

func TestUserProfile(t *testing.T) {
	userIndex, itemIndex := NewDict(), NewDict()
	user := userIndex.Add("u0")
	i0, i1, i2 := itemIndex.Add("i0"), itemIndex.Add("i1"), itemIndex.Add("i2")
	m := NewRatingMatrix(userIndex, itemIndex,
		[]int{user, user, user}, []int{i0, i1, i2}, []float64{5, 3, 1})
	features := NewItemFeatures(3)
	features.Set(i0, FeatureVector{"action": 1})
	features.Set(i1, FeatureVector{"action": 1, "comedy": 1})
	features.Set(i2, FeatureVector{"horror": 1})

	profile := UserProfile(m, features, user, 1, 5)
	// Weights: i0 -> 1.0, i1 -> 0.5. i2 is rated at the bottom of the range
	// and contributes nothing.
	assert.NotContains(t, profile, "horror")
	assert.InDelta(t, 1.0, profile["action"], 1e-8)
	assert.InDelta(t, 1.0/3.0, profile["comedy"], 1e-8)
}

func TestUserProfileWithoutContent(t *testing.T) {
	userIndex, itemIndex := NewDict(), NewDict()
	user := userIndex.Add("u0")
	item := itemIndex.Add("i0")
	m := NewRatingMatrix(userIndex, itemIndex, []int{user}, []int{item}, []float64{5})
	features := NewItemFeatures(1)

	profile := UserProfile(m, features, user, 1, 5)
	assert.Empty(t, profile)
	assert.Zero(t, profile.Norm())
}
