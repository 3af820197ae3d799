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
	"time"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/hybrec-io/hybrec/base/log"
)

// Rating is a (user, item, value) triple. The timestamp is retained for
// recency weighting by callers but unused by the engine.
type Rating struct {
	UserId    string
	ItemId    string
	Value     float64
	Timestamp time.Time
}

// Item carries the content feature vector of an item.
type Item struct {
	ItemId   string
	Features FeatureVector
}

// User registers a known user. Users also enter a snapshot through their
// ratings; an explicit record keeps a user known before the first rating, so
// predictions for them fall back instead of failing as unknown.
type User struct {
	UserId string
}

// Snapshot is an immutable point-in-time view of the rating and feature data.
// All similarity and prediction values derived from one snapshot are mutually
// consistent. A fresh snapshot is built from source data instead of mutating
// an existing one.
type Snapshot struct {
	timestamp time.Time
	matrix    *RatingMatrix
	features  *ItemFeatures
	minRating float64
	maxRating float64
}

// BuildSnapshot builds a snapshot from user, item and rating records. Rating
// values outside [minRating, maxRating] and negative feature weights are
// rejected with an error naming the offending record. A later rating of the
// same (user, item) pair replaces the earlier one.
func BuildSnapshot(ratings []Rating, users []User, items []Item, minRating, maxRating float64) (*Snapshot, error) {
	start := time.Now()
	if minRating >= maxRating {
		return nil, errors.Errorf("invalid rating range [%v, %v]", minRating, maxRating)
	}
	userIndex, itemIndex := NewDict(), NewDict()
	// Index declared users and items first so both are known even if unrated.
	for _, user := range users {
		userIndex.Add(user.UserId)
	}
	for _, item := range items {
		for key, weight := range item.Features {
			if weight < 0 {
				return nil, errors.Errorf("negative weight %v for feature %q of item %q",
					weight, key, item.ItemId)
			}
		}
		itemIndex.Add(item.ItemId)
	}
	// Deduplicate ratings. The later write wins.
	type pair struct{ user, item int }
	dedup := make(map[pair]float64)
	order := make([]pair, 0, len(ratings))
	for _, rating := range ratings {
		if rating.Value < minRating || rating.Value > maxRating {
			return nil, errors.Errorf("rating %v of user %q on item %q is outside [%v, %v]",
				rating.Value, rating.UserId, rating.ItemId, minRating, maxRating)
		}
		key := pair{userIndex.Add(rating.UserId), itemIndex.Add(rating.ItemId)}
		if _, exist := dedup[key]; !exist {
			order = append(order, key)
		}
		dedup[key] = rating.Value
	}
	userIds := make([]int, 0, len(order))
	itemIds := make([]int, 0, len(order))
	values := make([]float64, 0, len(order))
	for _, key := range order {
		userIds = append(userIds, key.user)
		itemIds = append(itemIds, key.item)
		values = append(values, dedup[key])
	}
	matrix := NewRatingMatrix(userIndex, itemIndex, userIds, itemIds, values)
	features := NewItemFeatures(itemIndex.Count())
	for _, item := range items {
		features.Set(itemIndex.Id(item.ItemId), item.Features)
	}
	log.Logger().Info("snapshot built",
		zap.Int("n_users", matrix.CountUsers()),
		zap.Int("n_items", matrix.CountItems()),
		zap.Int("n_ratings", matrix.CountRatings()),
		zap.Duration("used_time", time.Since(start)))
	return &Snapshot{
		timestamp: start,
		matrix:    matrix,
		features:  features,
		minRating: minRating,
		maxRating: maxRating,
	}, nil
}

// Timestamp returns the build time of the snapshot.
func (s *Snapshot) Timestamp() time.Time { return s.timestamp }

// Matrix returns the rating matrix.
func (s *Snapshot) Matrix() *RatingMatrix { return s.matrix }

// Features returns the item feature matrix.
func (s *Snapshot) Features() *ItemFeatures { return s.features }

// MinRating returns the lower bound of the rating range.
func (s *Snapshot) MinRating() float64 { return s.minRating }

// MaxRating returns the upper bound of the rating range.
func (s *Snapshot) MaxRating() float64 { return s.maxRating }

// UserId resolves an external user id to a dense index. An id never seen in
// the snapshot yields a not found error so that callers can distinguish an
// invalid identifier from a cold-start user.
func (s *Snapshot) UserId(userId string) (int, error) {
	id := s.matrix.UserIndex().Id(userId)
	if id == NotId {
		return NotId, errors.NotFoundf("user %q", userId)
	}
	return id, nil
}

// ItemId resolves an external item id to a dense index.
func (s *Snapshot) ItemId(itemId string) (int, error) {
	id := s.matrix.ItemIndex().Id(itemId)
	if id == NotId {
		return NotId, errors.NotFoundf("item %q", itemId)
	}
	return id, nil
}

// UserProfile builds the profile vector of a user from this snapshot.
func (s *Snapshot) UserProfile(userId int) FeatureVector {
	return UserProfile(s.matrix, s.features, userId, s.minRating, s.maxRating)
}
