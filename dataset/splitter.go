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
	"math/rand"
	"sort"

	"github.com/juju/errors"
	"github.com/samber/lo"
)

// Split dispatches to a splitter by name: "ratio" or "leave-one-out".
func Split(ratings []Rating, splitter string, testRatio float64, seed int64) (train, test []Rating, err error) {
	switch splitter {
	case "ratio":
		train, test = RatioSplit(ratings, testRatio, seed)
	case "leave-one-out":
		train, test = LeaveOneOut(ratings, seed)
	default:
		return nil, nil, errors.Errorf("unknown splitter %q", splitter)
	}
	return
}

// RatioSplit splits ratings into a training set and a test set by ratio. The
// split is reproducible for a fixed seed.
func RatioSplit(ratings []Rating, testRatio float64, seed int64) (train, test []Rating) {
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(ratings))
	testSize := int(float64(len(ratings)) * testRatio)
	test = make([]Rating, 0, testSize)
	train = make([]Rating, 0, len(ratings)-testSize)
	for i, index := range perm {
		if i < testSize {
			test = append(test, ratings[index])
		} else {
			train = append(train, ratings[index])
		}
	}
	return
}

// LeaveOneOut moves one random rating per user into the test set. Users with a
// single rating stay in the training set so they remain predictable.
func LeaveOneOut(ratings []Rating, seed int64) (train, test []Rating) {
	rng := rand.New(rand.NewSource(seed))
	byUser := lo.GroupBy(ratings, func(rating Rating) string { return rating.UserId })
	userIds := lo.Keys(byUser)
	// Map order is random; sort for reproducibility.
	sort.Strings(userIds)
	train = make([]Rating, 0, len(ratings))
	test = make([]Rating, 0, len(userIds))
	for _, userId := range userIds {
		userRatings := byUser[userId]
		if len(userRatings) < 2 {
			train = append(train, userRatings...)
			continue
		}
		leftOut := rng.Intn(len(userRatings))
		for i, rating := range userRatings {
			if i == leftOut {
				test = append(test, rating)
			} else {
				train = append(train, rating)
			}
		}
	}
	return
}
