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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatioSplit(t *testing.T) {
	ratings := make([]Rating, 10)
	for i := range ratings {
		ratings[i] = Rating{
			UserId: fmt.Sprintf("u%d", i),
			ItemId: fmt.Sprintf("i%d", i),
			Value:  3,
		}
	}
	train, test := RatioSplit(ratings, 0.2, 42)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)
	// No rating is lost or duplicated.
	seen := make(map[string]bool)
	for _, rating := range append(train, test...) {
		assert.False(t, seen[rating.UserId])
		seen[rating.UserId] = true
	}
	// Reproducible for a fixed seed.
	train2, test2 := RatioSplit(ratings, 0.2, 42)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)
}

func TestSplit(t *testing.T) {
	ratings := []Rating{
		{UserId: "u0", ItemId: "i0", Value: 3},
		{UserId: "u0", ItemId: "i1", Value: 4},
		{UserId: "u1", ItemId: "i0", Value: 2},
		{UserId: "u1", ItemId: "i1", Value: 5},
	}
	train, test, err := Split(ratings, "ratio", 0.25, 42)
	assert.NoError(t, err)
	expectedTrain, expectedTest := RatioSplit(ratings, 0.25, 42)
	assert.Equal(t, expectedTrain, train)
	assert.Equal(t, expectedTest, test)

	train, test, err = Split(ratings, "leave-one-out", 0.25, 42)
	assert.NoError(t, err)
	expectedTrain, expectedTest = LeaveOneOut(ratings, 42)
	assert.Equal(t, expectedTrain, train)
	assert.Equal(t, expectedTest, test)

	_, _, err = Split(ratings, "k-fold", 0.25, 42)
	assert.Error(t, err)
}

func TestLeaveOneOut(t *testing.T) {
	ratings := []Rating{
		{UserId: "u0", ItemId: "i0", Value: 3},
		{UserId: "u0", ItemId: "i1", Value: 4},
		{UserId: "u0", ItemId: "i2", Value: 5},
		{UserId: "u1", ItemId: "i0", Value: 2},
		{UserId: "u1", ItemId: "i1", Value: 3},
		{UserId: "u2", ItemId: "i2", Value: 5},
	}
	train, test := LeaveOneOut(ratings, 0)
	assert.Len(t, test, 2)
	assert.Len(t, train, 4)
	// Each multi-rating user leaves exactly one rating out. The single-rating
	// user u2 stays in the training set.
	users := make(map[string]int)
	for _, rating := range test {
		users[rating.UserId]++
	}
	assert.Equal(t, map[string]int{"u0": 1, "u1": 1}, users)
	train2, test2 := LeaveOneOut(ratings, 0)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)
}
