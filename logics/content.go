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

	"github.com/juju/errors"

	"github.com/hybrec-io/hybrec/dataset"
)

// ContentBased predicts the affinity of a user for an item from the cosine
// similarity between the user's profile vector and the item's feature vector.
// A user without rating history has an all-zero profile and scores zero for
// every candidate, which means "no content signal" rather than "worst".
type ContentBased struct {
	snapshot *dataset.Snapshot
}

// NewContentBased creates a content-based predictor over a snapshot.
func NewContentBased(snapshot *dataset.Snapshot) *ContentBased {
	return &ContentBased{snapshot: snapshot}
}

// Predict the affinity score of a user for an item. The score is unnormalized.
func (cb *ContentBased) Predict(userId, itemId string) (Prediction, error) {
	user, err := cb.snapshot.UserId(userId)
	if err != nil {
		return Prediction{}, errors.Trace(err)
	}
	item, err := cb.snapshot.ItemId(itemId)
	if err != nil {
		return Prediction{}, errors.Trace(err)
	}
	return Prediction{
		UserId: userId,
		ItemId: itemId,
		Score:  cb.predict(cb.snapshot.UserProfile(user), item),
		Source: Content,
	}, nil
}

func (cb *ContentBased) predict(profile dataset.FeatureVector, item int) float64 {
	return profile.Cosine(cb.snapshot.Features().Get(item))
}

// FeatureContribution is the share of one feature in a content score.
type FeatureContribution struct {
	Feature      string
	UserWeight   float64
	ItemWeight   float64
	Contribution float64
}

// Explain returns the top features shared by the user profile and the item,
// ordered by the product of both weights, ties broken by feature key. It
// answers why an item was recommended to a user.
func (cb *ContentBased) Explain(userId, itemId string, topFeatures int) ([]FeatureContribution, error) {
	user, err := cb.snapshot.UserId(userId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	item, err := cb.snapshot.ItemId(itemId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	profile := cb.snapshot.UserProfile(user)
	features := cb.snapshot.Features().Get(item)
	contributions := make([]FeatureContribution, 0)
	for _, key := range profile.Keys() {
		userWeight := profile[key]
		itemWeight, ok := features[key]
		if !ok || userWeight <= 0 || itemWeight <= 0 {
			continue
		}
		contributions = append(contributions, FeatureContribution{
			Feature:      key,
			UserWeight:   userWeight,
			ItemWeight:   itemWeight,
			Contribution: userWeight * itemWeight,
		})
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		if contributions[i].Contribution != contributions[j].Contribution {
			return contributions[i].Contribution > contributions[j].Contribution
		}
		return contributions[i].Feature < contributions[j].Feature
	})
	if len(contributions) > topFeatures {
		contributions = contributions[:topFeatures]
	}
	return contributions, nil
}
